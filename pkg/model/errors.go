package model

import (
	"errors"
	"fmt"
)

// Kind is the closed set of failures the resolver raises on its own behalf.
// Transport and chain errors are not mapped to a Kind.
type Kind string

const (
	KindParsing              Kind = "PARSING"
	KindUnsupportedNamespace Kind = "UNSUPPORTED_NAMESPACE"
	KindUnsupportedMediaKey  Kind = "UNSUPPORTED_MEDIA_KEY"
	KindImageUnavailable     Kind = "IMAGE_UNAVAILABLE"
	KindSanitizerRequired    Kind = "SANITIZER_REQUIRED"
)

// Error is a typed failure carrying the offending input.
type Error struct {
	Kind    Kind
	Message string
	Input   string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Input == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s - %s", e.Kind, e.Message, e.Input)
}

// Is makes errors.Is match any *Error with the same Kind, so the sentinels
// below can be used as targets.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// NewError builds an *Error of the given kind.
func NewError(kind Kind, message, input string) *Error {
	return &Error{Kind: kind, Message: message, Input: input}
}

// Sentinels for errors.Is.
var (
	ErrParsing              = &Error{Kind: KindParsing}
	ErrUnsupportedNamespace = &Error{Kind: KindUnsupportedNamespace}
	ErrUnsupportedMediaKey  = &Error{Kind: KindUnsupportedMediaKey}
	ErrImageUnavailable     = &Error{Kind: KindImageUnavailable}
	ErrSanitizerRequired    = &Error{Kind: KindSanitizerRequired}
)

// IsKind reports whether err or any error it wraps is an *Error of kind k.
func IsKind(err error, k Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == k
}
