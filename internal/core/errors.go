package core

import (
	"errors"
	"fmt"
)

// Kind classifies validation and registry failures so callers can map them
// to user-facing responses without parsing messages.
type Kind int

const (
	KindUnknown Kind = iota
	KindType         // field received a value of the wrong type
	KindRange        // numeric field out of bounds
	KindFormat       // string could not be parsed into a structured value
	KindValidation   // required field empty or absent
	KindDuplicate    // registration under an already-used name
	KindNotFound     // lookup or removal of an absent name/id
)

func (k Kind) String() string {
	switch k {
	case KindType:
		return "type"
	case KindRange:
		return "range"
	case KindFormat:
		return "format"
	case KindValidation:
		return "validation"
	case KindDuplicate:
		return "duplicate"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Error carries a Kind alongside the message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NewError constructs a kinded error. Used by the storage and transport
// layers to report failures in the same taxonomy the entities use.
func NewError(kind Kind, format string, args ...any) *Error {
	return newError(kind, format, args...)
}

// KindOf extracts the Kind from an error chain, KindUnknown if none.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindUnknown
}
