package service

import (
	"errors"
	"fmt"
)

// The closed set of expected auth outcomes. Callers discriminate with
// errors.Is; nothing else escapes the service layer as an untyped failure.
var (
	// ErrUnauthenticated covers missing, unknown and expired sessions.
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrSessionExpired is a subtype of ErrUnauthenticated so gates that
	// only care about "logged in or not" need a single check.
	ErrSessionExpired = fmt.Errorf("%w: session expired", ErrUnauthenticated)
	// ErrForbidden means the session is valid but the role has no matching
	// access rule for the requested path.
	ErrForbidden = errors.New("not permitted")
	// ErrConflict reports a duplicate registration.
	ErrConflict = errors.New("user already registered")
	// ErrNotFound reports an unknown username or session token.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials reports a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrValidation reports missing required registration or login fields.
	ErrValidation = errors.New("missing required field")
)
