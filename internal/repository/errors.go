// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// services and handlers to distinguish between different failure
// scenarios without inspecting error strings. Each core operation
// returns exactly one of these tags (or succeeds); the HTTP layer
// maps every tag to a status code and never retries on its own.
package repository

import "errors"

// ErrListingNotFound is returned when an operation references a
// listing id with no matching row. Handlers translate this into an
// HTTP 404 response.
var ErrListingNotFound = errors.New("listing not found")

// ErrRoomTypeNotFound is returned when a reservation or release names
// a room type that does not exist on the listing's room collection.
var ErrRoomTypeNotFound = errors.New("room type not found")

// ErrOutOfInventory is returned when a reservation is attempted
// against a room type with zero availability. No write is performed.
// Handlers translate this into an HTTP 409 response; the client may
// retry with a different room type but the system never retries.
var ErrOutOfInventory = errors.New("out of inventory")

// ErrBookingNotFound is returned when a booking id has no matching
// row. Handlers translate this into an HTTP 404 response.
var ErrBookingNotFound = errors.New("booking not found")

// ErrVisitRequestNotFound is returned when a visit request id has no
// matching row. Handlers translate this into an HTTP 404 response.
var ErrVisitRequestNotFound = errors.New("visit request not found")

// ErrConflict is returned when a guarded update finds that the row
// version changed underneath it. The enclosing transaction must be
// rolled back; handlers translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")
