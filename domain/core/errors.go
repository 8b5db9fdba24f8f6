package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	ErrNotFound        = errors.New("resource not found")
	ErrSessionNotFound = fmt.Errorf("%w: session", ErrNotFound)
	ErrNoSnapshot      = fmt.Errorf("%w: snapshot", ErrNotFound)
)

// IsNotFound reports whether err is any not-found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
