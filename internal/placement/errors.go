package placement

import (
	"errors"
	"fmt"
)

// Kind classifies a placement failure so the transport layer can map it
type Kind string

// Failure kinds
const (
	KindNotFound   Kind = "NotFound"
	KindForbidden  Kind = "Forbidden"
	KindConflict   Kind = "Conflict"
	KindValidation Kind = "Validation"
)

// Error is the typed failure returned by every placement operation
type Error struct {
	Kind   Kind
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

// NotFound reports that a referenced entity is absent
func NotFound(reason string) error { return &Error{Kind: KindNotFound, Reason: reason} }

// Forbidden reports a failed role, ownership or eligibility check
func Forbidden(reason string) error { return &Error{Kind: KindForbidden, Reason: reason} }

// Conflict reports a uniqueness violation such as a duplicate application
func Conflict(reason string) error { return &Error{Kind: KindConflict, Reason: reason} }

// Validation reports missing or malformed input
func Validation(reason string) error { return &Error{Kind: KindValidation, Reason: reason} }

// IsKind reports whether err is a placement Error of the given kind
func IsKind(err error, kind Kind) bool {
	var pErr *Error
	if errors.As(err, &pErr) {
		return pErr.Kind == kind
	}
	return false
}

// Storage sentinels. Store implementations translate their driver errors into these.
var (
	ErrRecordNotFound  = errors.New("record not found")
	ErrDuplicateRecord = errors.New("duplicate record")
)
