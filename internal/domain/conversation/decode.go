package conversation

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

type replyTags struct {
	Type        *string         `json:"type"`
	CoreRequest *string         `json:"coreRequest"`
	Parsed      json.RawMessage `json:"parsed"`
}

// Decode reads an intent service body. Typed envelopes are recognised by
// their type tag, legacy replies by coreRequest, optionally wrapped in a
// "parsed" field. A null body decodes to an empty Reply.
func Decode(body []byte) (Reply, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return Reply{}, nil
	}

	var p replyTags
	if err := json.Unmarshal(body, &p); err != nil {
		return Reply{}, fmt.Errorf("decoding reply: %w", err)
	}

	if len(p.Parsed) > 0 && p.Type == nil && p.CoreRequest == nil {
		return Decode(p.Parsed)
	}

	if p.CoreRequest != nil && p.Type == nil {
		var l Legacy
		if err := json.Unmarshal(body, &l); err != nil {
			return Reply{}, fmt.Errorf("decoding legacy reply: %w", err)
		}
		return Reply{Legacy: &l}, nil
	}

	var e Envelope
	if err := json.Unmarshal(body, &e); err != nil {
		return Reply{}, fmt.Errorf("decoding envelope: %w", err)
	}
	return Reply{Envelope: &e}, nil
}
