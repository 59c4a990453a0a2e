package model

import "time"

// Review is a user rating of a listing.  Reviews are append-only:
// once created they are never edited or deleted by this service.
// The listing's rating and ratingCount fields are derived from the
// full review set and recomputed whenever a review is added.
//
// Fields:
//  ID        – primary key identifier.
//  ListingID – listing being reviewed.
//  UserName  – display name of the reviewer.
//  Rating    – integer score between 1 and 5 inclusive.
//  Text      – free-form review body, optional.
//  Images    – image URLs attached to the review (reviews.images JSON).
//  CreatedAt – timestamp when the row was inserted.
type Review struct {
	ID        uint64    `json:"id"`             // reviews.id
	ListingID uint64    `json:"listingId"`      // reviews.listing_id
	UserName  string    `json:"userName"`       // reviews.user_name
	Rating    int       `json:"rating"`         // reviews.rating
	Text      string    `json:"text,omitempty"` // reviews.text
	Images    []string  `json:"images"`         // reviews.images (JSON column)
	CreatedAt time.Time `json:"createdAt"`      // reviews.created_at
}
