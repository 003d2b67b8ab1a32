// Package repository contains data access logic for events. Sentinel errors
// defined here let handlers distinguish failure scenarios: ErrEventNotFound
// maps to HTTP 404, ErrGeocodeUnresolvable to 400.
package repository

import "errors"

// ErrEventNotFound is returned when an update or delete references an id
// with no matching row.
var ErrEventNotFound = errors.New("event not found")

// ErrGeocodeUnresolvable is returned when an event is written without
// coordinates and its assembled address produces zero geocoding results.
// Distinct from a hard upstream failure, which propagates as-is.
var ErrGeocodeUnresolvable = errors.New("address could not be geocoded")
