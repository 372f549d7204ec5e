package wizard

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound is returned when a wizard session is missing or expired.
var ErrSessionNotFound = errors.New("wizard session not found or expired")

// StepRejection is a step-validator failure. It stays local to the wizard:
// it never reaches the network and never mutates the session it rejected.
type StepRejection struct {
	Step   int    `json:"step"`
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *StepRejection) Error() string {
	return fmt.Sprintf("step %d: %s: %s", e.Step, e.Field, e.Reason)
}

// GatewayError is a structured submission failure from the booking gateway,
// optionally carrying field-level messages. The draft survives it unchanged
// so the user can correct and retry.
type GatewayError struct {
	Message string            `json:"message"`
	Fields  map[string]string `json:"errors,omitempty"`
}

func (e *GatewayError) Error() string {
	return e.Message
}
