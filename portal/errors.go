package portal

import (
	"fmt"
	"strings"
)

// Error is the error object the portal embeds in a response body.
type Error struct {
	Operation string   `json:"-"`
	Code      int      `json:"code"`
	Message   string   `json:"message"`
	Details   []string `json:"details"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("portal %s error %d: %s", e.Operation, e.Code, e.Detail())
}

// Detail returns the most specific text the portal gave for the error.
func (e *Error) Detail() string {
	if d := strings.TrimSpace(strings.Join(e.Details, " ")); d != "" {
		return d
	}
	return e.Message
}

// StatusError is returned when the portal answers with a non-2xx status. Body is
// kept for logging and is not part of Error().
type StatusError struct {
	Operation  string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("portal %s request failed with status %d", e.Operation, e.StatusCode)
}
