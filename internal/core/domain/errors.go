package domain

import "errors"

// Kind classifies an Error for the transport layer.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
	KindQuotaExceeded
)

// Error is a client-safe failure: Message is returned verbatim to callers.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

var (
	ErrAllFieldsRequired   = &Error{Kind: KindValidation, Message: "All fields are required."}
	ErrPasswordTooShort    = &Error{Kind: KindValidation, Message: "Password must be at least 8 characters long."}
	ErrPasswordTooLong     = &Error{Kind: KindValidation, Message: "Password must be at most 72 bytes long."}
	ErrCredentialsRequired = &Error{Kind: KindValidation, Message: "Email and password are required."}
	ErrEmailRequired       = &Error{Kind: KindValidation, Message: "Email is required."}
	ErrResetFieldsRequired = &Error{Kind: KindValidation, Message: "Token and password are required."}
	ErrInvalidResetToken   = &Error{Kind: KindValidation, Message: "Password reset token is invalid or has expired."}
	ErrNoProgressFields    = &Error{Kind: KindValidation, Message: "No progress fields provided."}

	ErrInvalidCredentials = &Error{Kind: KindUnauthenticated, Message: "Invalid credentials."}
	ErrMissingToken       = &Error{Kind: KindUnauthenticated, Message: "No token provided."}
	ErrInvalidToken       = &Error{Kind: KindUnauthenticated, Message: "Invalid token."}

	ErrForbidden     = &Error{Kind: KindForbidden, Message: "Forbidden."}
	ErrUserNotFound  = &Error{Kind: KindNotFound, Message: "User not found."}
	ErrUserExists    = &Error{Kind: KindConflict, Message: "User already exists."}
	ErrQuotaExceeded = &Error{Kind: KindQuotaExceeded, Message: "Daily AI usage limit reached."}
)

// InternalError wraps an unexpected fault. Summary is safe to show a client;
// the cause is only for server-side logs.
type InternalError struct {
	Summary string
	cause   error
}

// Internal wraps cause with a client-safe summary.
func Internal(summary string, cause error) error {
	return &InternalError{Summary: summary, cause: cause}
}

func (e *InternalError) Error() string {
	if e.cause == nil {
		return e.Summary
	}
	return e.Summary + ": " + e.cause.Error()
}

func (e *InternalError) Unwrap() error { return e.cause }

// KindOf returns the Kind of err, defaulting to KindInternal.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}
