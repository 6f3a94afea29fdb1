package widget

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind classifies widget failures so callers can tell "not found"
// from "could not determine" from "confirmed mismatch".
type ErrorKind int

const (
	KindNone          ErrorKind = iota // No error
	KindResolution                     // No finder declared, or finder construction failed
	KindTypeMismatch                   // Live check confirmed the element is another type
	KindCollaborator                   // Client query could not be completed
	KindConfiguration                  // Registry or handle misconfigured
)

// String returns the string representation of ErrorKind
func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindResolution:
		return "resolution"
	case KindTypeMismatch:
		return "type_mismatch"
	case KindCollaborator:
		return "collaborator"
	case KindConfiguration:
		return "configuration"
	default:
		return "unknown"
	}
}

// Error is a widget failure with kind, code and the model/element involved.
type Error struct {
	Kind    ErrorKind
	Code    string // Machine-readable code: no_finder, type_mismatch, etc.
	Message string // Human-readable message
	Model   string // Widget model name, when known
	Element string // Element reference, when known
	Cause   error  // Underlying error
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := e.Message
	if e.Model != "" {
		msg = fmt.Sprintf("%s (model %s", msg, e.Model)
		if e.Element != "" {
			msg += ", element " + e.Element
		}
		msg += ")"
	} else if e.Element != "" {
		msg = fmt.Sprintf("%s (element %s)", msg, e.Element)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches predefined errors by code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// with returns a copy of e bound to a model, element and cause.
func (e *Error) with(model, element string, cause error) *Error {
	return &Error{
		Kind:    e.Kind,
		Code:    e.Code,
		Message: e.Message,
		Model:   model,
		Element: element,
		Cause:   cause,
	}
}

// withMessage returns a copy of e with a custom message.
func (e *Error) withMessage(format string, args ...interface{}) *Error {
	c := *e
	c.Message = fmt.Sprintf(format, args...)
	return &c
}

// Predefined errors
var (
	// Resolution errors
	ErrNoFinder = &Error{
		Kind:    KindResolution,
		Code:    "no_finder",
		Message: "no finder declared",
	}
	ErrFinderConstruction = &Error{
		Kind:    KindResolution,
		Code:    "finder_construction",
		Message: "finder construction failed",
	}
	ErrFinderType = &Error{
		Kind:    KindResolution,
		Code:    "finder_type",
		Message: "finder has unexpected type",
	}

	// Cast errors
	ErrTypeMismatch = &Error{
		Kind:    KindTypeMismatch,
		Code:    "type_mismatch",
		Message: "element is not the requested widget type",
	}
	ErrClientQuery = &Error{
		Kind:    KindCollaborator,
		Code:    "client_query",
		Message: "client widget query failed",
	}

	// Configuration errors
	ErrNotRegistered = &Error{
		Kind:    KindConfiguration,
		Code:    "not_registered",
		Message: "widget model not registered",
	}
	ErrNoTarget = &Error{
		Kind:    KindConfiguration,
		Code:    "no_target",
		Message: "widget model declares no target widget type",
	}
	ErrNilReference = &Error{
		Kind:    KindConfiguration,
		Code:    "nil_reference",
		Message: "widget requires both a driver and an element",
	}
	ErrDuplicateModel = &Error{
		Kind:    KindConfiguration,
		Code:    "duplicate_model",
		Message: "widget model already registered",
	}
	ErrRegistrySealed = &Error{
		Kind:    KindConfiguration,
		Code:    "registry_sealed",
		Message: "widget registry is sealed",
	}
	ErrInvalidDefinition = &Error{
		Kind:    KindConfiguration,
		Code:    "invalid_definition",
		Message: "invalid widget model definition",
	}
)

// KindOf returns the kind of the first *Error in err's chain, or KindNone.
func KindOf(err error) ErrorKind {
	var wErr *Error
	if errors.As(err, &wErr) {
		return wErr.Kind
	}
	return KindNone
}
