package model

import "time"

// Visit request status values.  A request starts pending and moves
// to exactly one of the terminal states; there is no transition out
// of approved or rejected.
const (
	VisitStatusPending  = "pending"
	VisitStatusApproved = "approved"
	VisitStatusRejected = "rejected"
)

// VisitRequest is a scheduled viewing of a listing requested by a
// prospective occupant.  For a given (UserEmail, ListingID) pair at
// most one row may be pending at any time; a repeat request while
// one is pending updates that row in place instead of inserting a
// duplicate.
//
// Fields:
//  ID         – primary key identifier.
//  UserEmail  – requester's email address; part of the pending key.
//  UserName   – requester's display name.
//  ListingID  – listing to visit; part of the pending key.
//  OwnerEmail – listing owner notified of the request.
//  VisitDate  – requested date (YYYY-MM-DD).
//  VisitTime  – requested time of day (e.g. "14:30").
//  Status     – pending, approved or rejected.
//  CreatedAt  – timestamp when the row was inserted.
//  UpdatedAt  – timestamp of the last modification.
type VisitRequest struct {
	ID         uint64    `json:"id"`         // visit_requests.id
	UserEmail  string    `json:"userEmail"`  // visit_requests.user_email
	UserName   string    `json:"userName"`   // visit_requests.user_name
	ListingID  uint64    `json:"listingId"`  // visit_requests.listing_id
	OwnerEmail string    `json:"ownerEmail"` // visit_requests.owner_email
	VisitDate  string    `json:"visitDate"`  // visit_requests.visit_date
	VisitTime  string    `json:"visitTime"`  // visit_requests.visit_time
	Status     string    `json:"status"`     // visit_requests.status
	CreatedAt  time.Time `json:"createdAt"`  // visit_requests.created_at
	UpdatedAt  time.Time `json:"updatedAt"`  // visit_requests.updated_at
}
