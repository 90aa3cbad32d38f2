package pokedex

import (
	"errors"

	"github.com/yungbote/pokedex-cache/internal/platform/apierr"
)

var (
	ErrNotFound          = errors.New("pokemon not found")
	ErrSourceUnavailable = errors.New("remote source unavailable")
	ErrValidation        = errors.New("invalid argument")
	ErrStorage           = errors.New("storage failure")
)

// ToAPIError maps a service error onto its HTTP status and code. Anything
// unclassified is reported as an internal error.
func ToAPIError(err error) *apierr.Error {
	if err == nil {
		return nil
	}
	var ae *apierr.Error
	if errors.As(err, &ae) {
		return ae
	}
	switch {
	case errors.Is(err, ErrValidation):
		return apierr.BadRequest("invalid_argument", err)
	case errors.Is(err, ErrNotFound):
		return apierr.NotFound("pokemon_not_found", err)
	case errors.Is(err, ErrSourceUnavailable):
		return apierr.Unavailable("source_unavailable", err)
	case errors.Is(err, ErrStorage):
		return apierr.Internal("storage_error", err)
	default:
		return apierr.Internal("internal_error", err)
	}
}
