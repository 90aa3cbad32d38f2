package pokeapi

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the source has no such resource.
var ErrNotFound = errors.New("pokeapi: resource not found")

type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	body := e.Body
	if len(body) > 256 {
		body = body[:256]
	}
	return fmt.Sprintf("pokeapi http %d: %s", e.StatusCode, body)
}

func (e *HTTPError) HTTPStatusCode() int { return e.StatusCode }
