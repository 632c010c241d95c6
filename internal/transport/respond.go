package transport

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/MGhunch/dot-hub/internal/domain/conversation"
	"github.com/MGhunch/dot-hub/internal/domain/job"
	"github.com/MGhunch/dot-hub/internal/domain/session"
	"github.com/MGhunch/dot-hub/internal/domain/tracker"
	"github.com/MGhunch/dot-hub/internal/hub"
)

const maxBodyBytes = 1 << 20

// ErrorBody is the JSON shape of every failed request. Message is safe to
// show to the user as is.
type ErrorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// MessageBody acknowledges a mutation.
type MessageBody struct {
	Message string `json:"message"`
}

func decodeBody(r *http.Request, v any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("reading body: %w", err)
	}
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return &job.ValidationError{Field: "body", Message: "That request didn't make sense."}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps err onto a status and a friendly message. Backend status
// codes and error text never reach the client.
func writeError(w http.ResponseWriter, err error) {
	status, body := classify(err)
	writeJSON(w, status, body)
}

func classify(err error) (int, ErrorBody) {
	var v *job.ValidationError
	switch {
	case errors.As(err, &v):
		return http.StatusBadRequest, ErrorBody{Error: v.Message, Field: v.Field}
	case errors.Is(err, ErrUnauthorized), errors.Is(err, session.ErrSessionNotFound):
		return http.StatusUnauthorized, ErrorBody{Error: "Please sign in again."}
	case errors.Is(err, session.ErrInvalidPIN):
		return http.StatusUnauthorized, ErrorBody{Error: "That PIN didn't work."}
	case errors.Is(err, conversation.ErrEmptyQuestion):
		return http.StatusBadRequest, ErrorBody{Error: "Ask Dot something first.", Field: "question"}
	case errors.Is(err, conversation.ErrTurnInProgress):
		return http.StatusConflict, ErrorBody{Error: "Dot is still thinking."}
	case errors.Is(err, hub.ErrUnknownView):
		return http.StatusBadRequest, ErrorBody{Error: "That page doesn't exist.", Field: "view"}
	case errors.Is(err, hub.ErrUnknownMonth):
		return http.StatusBadRequest, ErrorBody{Error: "That month doesn't look right.", Field: "month"}
	case errors.Is(err, tracker.ErrNoChanges):
		return http.StatusBadRequest, ErrorBody{Error: "Nothing to change."}
	case errors.Is(err, tracker.ErrInvalidSpendType):
		return http.StatusBadRequest, ErrorBody{Error: "That spend type doesn't look right.", Field: "spendType"}
	case errors.Is(err, job.ErrJobNotFound), errors.Is(err, tracker.ErrUnknownClient):
		return http.StatusNotFound, ErrorBody{Error: "Couldn't find that one."}
	default:
		return http.StatusBadGateway, ErrorBody{Error: job.ToastFailure}
	}
}
