package mcp

import (
	"errors"
	"fmt"

	"github.com/MGhunch/dot-hub/internal/domain/conversation"
	"github.com/MGhunch/dot-hub/internal/domain/session"
	"github.com/MGhunch/dot-hub/internal/domain/tracker"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

var errInvalidParams = errors.New("invalid params")

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, errInvalidParams):
		return &APIError{Code: "INVALID_PARAMS", Message: err.Error(), RecoveryHint: "Check the tool's input schema"}
	case errors.Is(err, tracker.ErrUnknownClient):
		return &APIError{Code: "UNKNOWN_CLIENT", Message: "client has no tracker profile", RecoveryHint: "Use a three-letter client code"}
	case errors.Is(err, session.ErrSessionNotFound):
		return &APIError{Code: "SESSION_NOT_FOUND", Message: "hub session not found", RecoveryHint: "Sign in again"}
	case errors.Is(err, conversation.ErrEmptyQuestion):
		return &APIError{Code: "EMPTY_QUESTION", Message: "question is empty"}
	case errors.Is(err, conversation.ErrTurnInProgress):
		return &APIError{Code: "BUSY", Message: "Dot is still thinking", RecoveryHint: "Wait for the previous answer"}
	default:
		return &APIError{Code: "INTERNAL", Message: "something went wrong"}
	}
}
