package models

import "fmt"

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// ValidateEnvelope checks the structural invariants a publisher must satisfy.
// Consumers deliberately do not validate: an envelope that decodes is handled,
// whatever its version.
func ValidateEnvelope(e *Envelope) error {
	if e == nil {
		return &ValidationError{
			Field:   "envelope",
			Message: "envelope cannot be nil",
		}
	}

	if e.MessageID == "" {
		return &ValidationError{
			Field:   "message_id",
			Message: "message ID is required",
		}
	}

	if e.Type == "" {
		return &ValidationError{
			Field:   "type",
			Message: "message type is required",
		}
	}

	if e.Timestamp.IsZero() {
		return &ValidationError{
			Field:   "timestamp",
			Message: "message timestamp is required",
		}
	}

	if e.Type == TypeMatchUpdates {
		for i, m := range e.Payload.Matches {
			if m.MatchID == 0 {
				return &ValidationError{
					Field:   fmt.Sprintf("payload.matches[%d].match_id", i),
					Message: "match ID is required",
				}
			}
		}
	}

	return nil
}
