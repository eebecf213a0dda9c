package apperror

import "errors"

// Kind is the machine-readable error category surfaced to clients.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindCoverage     Kind = "coverage"
	KindOverlap      Kind = "overlap"
	KindNotFound     Kind = "not_found"
	KindLockTimeout  Kind = "lock_timeout"
	KindForbidden    Kind = "forbidden"
	KindUnauthorized Kind = "unauthorized"
	KindInternal     Kind = "internal"
)

// AppError is a custom error type that includes an HTTP status code and a machine-readable kind.
type AppError struct {
	Code    int    // HTTP Status Code (e.g., 400, 404)
	Kind    Kind   // Machine-readable category
	Message string // User-facing error message
	Err     error  // The underlying error, if any (not exposed to user)

	sentinel *AppError
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel a wrapped copy was made from. Distinct sentinels
// never match each other, even with the same kind and message.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && e.sentinel != nil && e.sentinel == t
}

// Retryable reports whether the client may retry the same request unchanged.
func (e *AppError) Retryable() bool {
	return e.Kind == KindLockTimeout
}

// New creates a new AppError with a status code, kind and message.
func New(code int, kind Kind, message string) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kind,
		Message: message,
	}
}

// Wrap creates a new AppError carrying the sentinel's fields and wrapping err.
func Wrap(err error, sentinel *AppError) *AppError {
	root := sentinel
	if sentinel.sentinel != nil {
		root = sentinel.sentinel
	}
	return &AppError{
		Code:     sentinel.Code,
		Kind:     sentinel.Kind,
		Message:  sentinel.Message,
		Err:      err,
		sentinel: root,
	}
}

// KindOf returns the kind of the first AppError in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}
