package auth

import "fmt"

// Kind discriminates auth errors so callers can match on the category
// instead of the message text.
type Kind int

const (
	KindInternal Kind = iota
	KindInvalidCredentials
	KindTokenExpired
	KindInvalidToken
	KindUserNotFound
	KindEmailAlreadyExists
	KindInvalidPassword
	KindInvalidEmail
	KindRateLimitExceeded
)

// Error is a tagged auth error carrying a Kind and a caller-safe message.
// Messages never include storage detail or credential material.
type Error struct {
	err  error
	msg  string
	kind Kind
}

// Kind returns the error category.
func (e *Error) Kind() Kind { return e.kind }

func (e *Error) Error() string { return e.msg }

// Unwrap exposes the wrapped cause (internal errors only).
func (e *Error) Unwrap() error { return e.err }

// Is matches any *Error with the same Kind, so
// errors.Is(err, ErrInvalidToken) works for wrapped and derived errors alike.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.kind == t.kind
}

// Sentinel errors for the auth taxonomy. Compare with errors.Is.
var (
	ErrInvalidCredentials = &Error{kind: KindInvalidCredentials, msg: "invalid credentials"}
	ErrTokenExpired       = &Error{kind: KindTokenExpired, msg: "token expired"}
	ErrInvalidToken       = &Error{kind: KindInvalidToken, msg: "invalid token"}
	ErrUserNotFound       = &Error{kind: KindUserNotFound, msg: "user not found"}
	ErrEmailAlreadyExists = &Error{kind: KindEmailAlreadyExists, msg: "email already registered"}
	ErrInvalidPassword    = &Error{kind: KindInvalidPassword, msg: "password does not meet requirements"}
	ErrInvalidEmail       = &Error{kind: KindInvalidEmail, msg: "invalid email address"}
	ErrRateLimitExceeded  = &Error{kind: KindRateLimitExceeded, msg: "too many failed attempts, try again later"}
	ErrInternal           = &Error{kind: KindInternal, msg: "internal error"}
)

// internalError wraps a storage or infra failure as ErrInternal without
// leaking the underlying detail in the message.
func internalError(err error) *Error {
	return &Error{kind: KindInternal, msg: "internal error", err: err}
}

// invalidPassword returns an ErrInvalidPassword with a specific policy message.
func invalidPassword(format string, a ...any) *Error {
	return &Error{kind: KindInvalidPassword, msg: fmt.Sprintf(format, a...)}
}
