package errors

import (
	stderrors "errors"
	"net/http"
)

// Kind classifies a failure by where it happened in the service.
type Kind int

const (
	// KindUnknown is used for errors that were never classified.
	KindUnknown Kind = iota
	// KindPoolInit means the connection pool could not be constructed at startup.
	KindPoolInit
	// KindAcquire means a connection could not be borrowed from the pool.
	KindAcquire
	// KindQuery means the database rejected or aborted the query.
	KindQuery
	// KindDecode means a result row did not fit the record shape.
	KindDecode
	// KindBind means the listener could not be bound.
	KindBind
)

// String returns the log-friendly name of the kind
func (k Kind) String() string {
	switch k {
	case KindPoolInit:
		return "pool_init_failure"
	case KindAcquire:
		return "acquire_failure"
	case KindQuery:
		return "query_failure"
	case KindDecode:
		return "decode_failure"
	case KindBind:
		return "bind_failure"
	default:
		return "unknown"
	}
}

// Error is a classified error. Its text is the text of the wrapped error,
// unchanged, so it can be returned to clients as a short description.
type Error struct {
	Kind Kind
	Err  error
}

// New classifies err. A nil err yields nil.
func New(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Err: err}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Err.Error()
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the HTTP status for this error
func (e *Error) HTTPStatus() int {
	return http.StatusInternalServerError
}

// HTTPStatuser is implemented by errors that know their HTTP status
type HTTPStatuser interface {
	HTTPStatus() int
}

// Acquire classifies err as a pool acquisition failure.
func Acquire(err error) error { return New(KindAcquire, err) }

// Query classifies err as a query failure.
func Query(err error) error { return New(KindQuery, err) }

// Decode classifies err as a row decoding failure.
func Decode(err error) error { return New(KindDecode, err) }

// PoolInit classifies err as a startup pool construction failure.
func PoolInit(err error) error { return New(KindPoolInit, err) }

// Bind classifies err as a listener bind failure.
func Bind(err error) error { return New(KindBind, err) }

// KindOf reports the kind of the first classified error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Response flattens any error into the (status, body) pair written to clients.
// The body is the short text of err; unknown errors map to 500.
func Response(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
	}

	status := http.StatusInternalServerError
	var s HTTPStatuser
	if stderrors.As(err, &s) {
		status = s.HTTPStatus()
	}

	return status, err.Error()
}

