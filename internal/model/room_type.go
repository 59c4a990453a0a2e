package model

import "errors"

// ErrNoAvailability is returned by RoomInventory.Reserve when the
// matching room type has no free capacity left.
var ErrNoAvailability = errors.New("no availability for room type")

// ErrUnknownRoomType is returned when an inventory operation names a
// room type that does not exist on the listing.
var ErrUnknownRoomType = errors.New("unknown room type")

// RoomType describes one category of room within a listing, with its
// own capacity and pricing.  TotalCount is the physical number of
// rooms of this type; Available is how many are currently free.
// The invariant 0 <= Available <= TotalCount holds at all times and
// is enforced by the inventory helpers below.
//
// Fields:
//  Type         – room type name, matched exactly (e.g. "Single").
//  TotalCount   – physical number of rooms of this type.
//  Available    – rooms currently free.
//  PriceMinor   – monthly price in minor currency units.
//  DepositMinor – security deposit in minor currency units.
//  IsAC         – whether the room is air conditioned.
type RoomType struct {
	Type         string `json:"type"`         // rooms[].type
	TotalCount   int    `json:"totalCount"`   // rooms[].totalCount
	Available    int    `json:"available"`    // rooms[].available
	PriceMinor   int64  `json:"priceMinor"`   // rooms[].priceMinor
	DepositMinor int64  `json:"depositMinor"` // rooms[].depositMinor
	IsAC         bool   `json:"isAC"`         // rooms[].isAC
}

// RoomInventory is the ordered room type collection attached to a
// listing.  It is persisted as a single JSON document, so every
// mutation rewrites the whole collection under the listing's row
// lock.  All mutation goes through Reserve and Release; nothing else
// may touch the Available counters.
type RoomInventory []RoomType

// Find returns a pointer to the entry whose Type equals typ, or nil
// when no such entry exists.  Matching is an exact string compare.
func (inv RoomInventory) Find(typ string) *RoomType {
	for i := range inv {
		if inv[i].Type == typ {
			return &inv[i]
		}
	}
	return nil
}

// Reserve decrements the available counter for the named room type.
// It returns ErrUnknownRoomType when the type is not present and
// ErrNoAvailability when the counter is already zero.  On error the
// inventory is left unchanged.
func (inv RoomInventory) Reserve(typ string) error {
	rt := inv.Find(typ)
	if rt == nil {
		return ErrUnknownRoomType
	}
	if rt.Available <= 0 {
		return ErrNoAvailability
	}
	rt.Available--
	return nil
}

// Release increments the available counter for the named room type,
// clamping at TotalCount.  The boolean result reports whether the
// clamp fired, which indicates a release without a matching
// reservation; callers log that condition rather than treating it as
// fatal.  ErrUnknownRoomType is returned when the type is absent.
func (inv RoomInventory) Release(typ string) (clamped bool, err error) {
	rt := inv.Find(typ)
	if rt == nil {
		return false, ErrUnknownRoomType
	}
	if rt.Available >= rt.TotalCount {
		return true, nil
	}
	rt.Available++
	return false, nil
}
