package booking

import "errors"

// Kind classifies a booking failure.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindConflict
	KindPolicy
	KindDatabase
	KindSystem
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindPolicy:
		return "policy"
	case KindDatabase:
		return "database"
	case KindSystem:
		return "system"
	}
	return "unknown"
}

// Sentinels for errors.Is. Only the Kind is compared.
var (
	ErrValidation = &Error{Kind: KindValidation}
	ErrNotFound   = &Error{Kind: KindNotFound}
	ErrConflict   = &Error{Kind: KindConflict}
	ErrPolicy     = &Error{Kind: KindPolicy}
	ErrDatabase   = &Error{Kind: KindDatabase}
	ErrSystem     = &Error{Kind: KindSystem}
)

// ErrNoRows is returned by a Store when a lookup matches nothing.
var ErrNoRows = errors.New("booking: record not found")

// ErrOverlap is returned by a Store when the database rejects an
// overlapping confirmed appointment.
var ErrOverlap = errors.New("booking: overlapping confirmed appointment")

// Error is the user-facing failure of a booking attempt. Message is safe to
// show to the caller; Err holds the underlying cause, if any.
type Error struct {
	Kind    Kind
	Message string
	State   State
	Err     error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Kind. A policy rejection is also a validation failure.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind == e.Kind {
		return true
	}
	return e.Kind == KindPolicy && t.Kind == KindValidation
}

// KindOf returns the kind of a booking error, or KindSystem for anything else.
func KindOf(err error) Kind {
	var be *Error
	if errors.As(err, &be) {
		return be.Kind
	}
	return KindSystem
}

// StateOf returns the terminal state recorded on a booking error. A nil
// error means the booking completed.
func StateOf(err error) State {
	if err == nil {
		return StateServiceAttached
	}
	var be *Error
	if errors.As(err, &be) && be.State != "" {
		return be.State
	}
	return StateRejected
}

func newError(kind Kind, state State, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, State: state, Err: cause}
}
