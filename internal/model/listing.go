package model

import "time"

// Listing represents a bookable accommodation unit.  The core does
// not create or delete listings; it reads them and mutates the
// inventory and derived rating fields.  The room inventory is
// stored as a JSON document on the listing row and rewritten as a
// unit by the inventory store.
//
// Fields:
//  ID          – primary key identifier.
//  Title       – display name of the listing.
//  OwnerEmail  – contact address of the listing owner.
//  Rating      – derived average of all review ratings, 2 dp.
//  RatingCount – derived number of reviews.
//  Rooms       – ordered room type collection (listings.rooms JSON).
//  Version     – guard column for conditional inventory updates.
//  CreatedAt   – timestamp when the row was inserted.
//  UpdatedAt   – timestamp of the last modification.
type Listing struct {
	ID          uint64        `json:"id"`          // listings.id
	Title       string        `json:"title"`       // listings.title
	OwnerEmail  string        `json:"ownerEmail"`  // listings.owner_email
	Rating      float64       `json:"rating"`      // listings.rating (derived)
	RatingCount int           `json:"ratingCount"` // listings.rating_count (derived)
	Rooms       RoomInventory `json:"rooms"`       // listings.rooms (JSON column)
	Version     uint64        `json:"-"`           // listings.version
	CreatedAt   time.Time     `json:"createdAt"`   // listings.created_at
	UpdatedAt   time.Time     `json:"updatedAt"`   // listings.updated_at
}
