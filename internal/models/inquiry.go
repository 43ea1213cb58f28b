package models

import "time"

// Inquiry is a gleaner asking a listing's owner for fruit
type Inquiry struct {
	ID          int64      `json:"id" db:"id"`
	ListingID   int64      `json:"listingId" db:"listing_id"`
	GleanerID   string     `json:"gleanerId" db:"gleaner_id"`
	Note        *string    `json:"note" db:"note"` // max 500 chars
	EmailSentAt *time.Time `json:"emailSentAt" db:"email_sent_at"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
}

// ListingWithOwner joins a listing with the contact details of its owner
type ListingWithOwner struct {
	Listing *Listing
	Owner   *User
}

// InquiryResult is returned after an inquiry is recorded
type InquiryResult struct {
	InquiryID int64 `json:"inquiryId"`
	EmailSent bool  `json:"emailSent"`
}
