package apperr

import (
	"errors"
	"fmt"
)

// Business is a user-facing failure of the operation itself: insufficient
// balance, blocked operation, unknown account, missing exchange rate. The
// message is safe to return to the caller.
type Business struct {
	Message string
}

func (e *Business) Error() string {
	return e.Message
}

// NewBusiness builds a Business error with a formatted message.
func NewBusiness(format string, args ...any) error {
	return &Business{Message: fmt.Sprintf(format, args...)}
}

// IsBusiness reports whether err wraps a Business error.
func IsBusiness(err error) bool {
	var b *Business
	return errors.As(err, &b)
}

// Unavailable means a required remote collaborator could not be reached or
// returned an unusable response. The transport detail stays in the logs; the
// caller only ever sees the generic message.
type Unavailable struct {
	Service string
}

func (e *Unavailable) Error() string {
	return e.Service + " unavailable"
}

// NewUnavailable marks a collaborator as unreachable.
func NewUnavailable(service string) error {
	return &Unavailable{Service: service}
}

// IsUnavailable reports whether err wraps an Unavailable error.
func IsUnavailable(err error) bool {
	var u *Unavailable
	return errors.As(err, &u)
}
