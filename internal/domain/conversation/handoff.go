package conversation

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	// DefaultHandoffEmail receives questions Dot cannot answer.
	DefaultHandoffEmail = "michael@hunch.co.nz"
	handoffSubject      = "Question for a human"
)

// NewHandoff drafts the email for a question that needs a person.
func NewHandoff(to, question string) Handoff {
	if to == "" {
		to = DefaultHandoffEmail
	}
	body := fmt.Sprintf("Dot couldn't help with this one:\n\n\"%s\"\n\nCan you take a look?", question)
	return Handoff{
		To:       to,
		Subject:  handoffSubject,
		Body:     body,
		MailTo:   "mailto:" + to + "?subject=" + escape(handoffSubject) + "&body=" + escape(body),
		Question: question,
	}
}

// escape percent-encodes a mailto component, with spaces as %20.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
