package viewmodel

import (
	"errors"

	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/models"
	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/remote"
)

var (
	// ErrUnauthenticated is returned when an action needs a session and none
	// was provided.
	ErrUnauthenticated = errors.New("sign in to continue")
	// ErrForbidden is returned when the session lacks the admin capability.
	ErrForbidden = errors.New("admin access required")
	// ErrBusy rejects a submit while the same action is still in flight.
	ErrBusy = errors.New("action already in progress")
)

// ErrorKind classifies the error slot of a view model.
type ErrorKind int

const (
	NoError ErrorKind = iota
	TransportError
	NotFound
	ValidationError
	Unauthenticated
	Forbidden
	Busy
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case NoError:
		return "none"
	case TransportError:
		return "transport"
	case NotFound:
		return "not_found"
	case ValidationError:
		return "validation"
	case Unauthenticated:
		return "unauthenticated"
	case Forbidden:
		return "forbidden"
	case Busy:
		return "busy"
	}
	return "unknown"
}

// KindOf maps an error onto the view-model taxonomy. Anything unrecognised
// is a transport failure.
func KindOf(err error) ErrorKind {
	var verr *models.ValidationError
	switch {
	case err == nil:
		return NoError
	case errors.Is(err, ErrUnauthenticated):
		return Unauthenticated
	case errors.Is(err, ErrForbidden):
		return Forbidden
	case errors.Is(err, ErrBusy):
		return Busy
	case errors.Is(err, remote.ErrNotFound):
		return NotFound
	case errors.As(err, &verr):
		return ValidationError
	}
	return TransportError
}
