package service

import (
	"errors"
	"fmt"
)

// ErrMissingLocationInput is returned when a search supplies neither an
// address, nor a zip, nor a city/state pair. Detected before any network
// call is made.
var ErrMissingLocationInput = errors.New("please provide an address, zip code, or city and state")

// LocationUnresolvableError means geocoding returned zero results for the
// user's input. Field names what could not be resolved ("address",
// "zip code", "city and state") so the message can be shown as-is.
type LocationUnresolvableError struct {
	Field string
}

func (e *LocationUnresolvableError) Error() string {
	return fmt.Sprintf("could not resolve the provided %s", e.Field)
}
