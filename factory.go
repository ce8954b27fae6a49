package connpool

import (
	"context"

	"github.com/lattice-db/connpool/poolerrors"
)

// SessionFactory opens new database sessions on demand. It does no pooling
// or caching of its own: every call to Open establishes a fresh session
// against the configured backend.
type SessionFactory interface {
	// Open establishes a new Session. On failure it returns a
	// *poolerrors.PoolError with Code BackendUnavailable wrapping the
	// underlying driver error.
	Open(ctx context.Context) (Session, error)
}

// OpenFunc lifts a plain function into a SessionFactory.
type OpenFunc func(ctx context.Context) (Session, error)

// Open implements SessionFactory.
func (f OpenFunc) Open(ctx context.Context) (Session, error) {
	return f(ctx)
}

// DialSessionFactory adapts a dial function that knows how to reach a
// specific backend (URL plus credentials already bound by the caller) into
// a SessionFactory, wrapping any dial error as BackendUnavailable.
type DialSessionFactory struct {
	dial func(ctx context.Context) (Session, error)
}

// NewDialSessionFactory builds a DialSessionFactory around dial.
func NewDialSessionFactory(dial func(ctx context.Context) (Session, error)) *DialSessionFactory {
	return &DialSessionFactory{dial: dial}
}

// Open implements SessionFactory.
func (f *DialSessionFactory) Open(ctx context.Context) (Session, error) {
	s, err := f.dial(ctx)
	if err != nil {
		return nil, poolerrors.NewBackendUnavailable("SessionFactory.Open", err)
	}
	if s == nil {
		return nil, poolerrors.NewBackendUnavailable("SessionFactory.Open", errNilSession)
	}
	return s, nil
}

var errNilSession = sessionOpenError("dial function returned a nil session and a nil error")

type sessionOpenError string

func (e sessionOpenError) Error() string { return string(e) }
