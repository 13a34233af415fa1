package validation

import (
	"fmt"
	"strings"
)

// Kind classifies a validation error.
type Kind string

const (
	// KindInvalid is a malformed or out-of-range value.
	KindInvalid Kind = "invalid"
	// KindDuplicate is a collision with another node, network or allocation.
	KindDuplicate Kind = "duplicate"
	// KindReserved is a value that belongs to a well-known public network.
	KindReserved Kind = "reserved"
)

// ValidationError is a single rule violation on a field of a network definition.
type ValidationError struct {
	Field   string // e.g. "chainId", "nodes[1].port"
	Message string
	Kind    Kind
}

// Error implements the error interface.
func (ve ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ve.Field, ve.Message)
}

// IsDuplicate reports whether the violation is a resource collision.
func (ve ValidationError) IsDuplicate() bool {
	return ve.Kind == KindDuplicate
}

// Errors is a list of violations.
type Errors []ValidationError

// Error joins all violations, one per line.
func (e Errors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, ve := range e {
		msgs = append(msgs, ve.Error())
	}
	return strings.Join(msgs, "\n")
}

// HasField reports whether any violation concerns field. A field matches when it is
// equal to the violation's field or is its last path element ("port" matches
// "nodes[1].port").
func (e Errors) HasField(field string) bool {
	for _, ve := range e {
		if ve.Field == field || strings.HasSuffix(ve.Field, "."+field) {
			return true
		}
	}
	return false
}

func invalid(field, format string, args ...any) ValidationError {
	return ValidationError{Field: field, Message: fmt.Sprintf(format, args...), Kind: KindInvalid}
}

func duplicate(field, format string, args ...any) ValidationError {
	return ValidationError{Field: field, Message: fmt.Sprintf(format, args...), Kind: KindDuplicate}
}
