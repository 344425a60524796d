package model

import "time"

// Transaction is a negotiation record between a requester and an item's owner.
//
// OwnerID is copied from the item when the request is created and is never
// re-derived. Items cannot change owner, so the copy cannot go stale.
type Transaction struct {
	ID             int64     `json:"id"`
	ItemID         int64     `json:"item_id"`
	RequesterID    int64     `json:"requester_id"`
	OwnerID        int64     `json:"owner_id"`
	Message        string    `json:"message"`
	OfferedPrice   *float64  `json:"offered_price,omitempty"`
	ProposedItemID *int64    `json:"proposed_item_id,omitempty"`
	ContactEmail   string    `json:"contact_email,omitempty"`
	Status         string    `json:"status"`
	Note           string    `json:"note,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Populated references.
	Item         *Item       `json:"item,omitempty"`
	Requester    *PublicUser `json:"requester,omitempty"`
	Owner        *PublicUser `json:"owner,omitempty"`
	ProposedItem *Item       `json:"proposed_item,omitempty"`
}

// Transaction statuses.
const (
	StatusPending   = "pending"
	StatusAccepted  = "accepted"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// Listing directions relative to the acting user.
const (
	DirectionIncoming = "incoming"
	DirectionOutgoing = "outgoing"
)

// ValidStatus reports whether s is any known status.
func ValidStatus(s string) bool {
	return s == StatusPending || IsResponseStatus(s)
}

// IsResponseStatus reports whether s is a status an owner may respond with.
func IsResponseStatus(s string) bool {
	switch s {
	case StatusAccepted, StatusRejected, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// TransactionFilter narrows a transaction listing. Zero values mean "any".
type TransactionFilter struct {
	ItemID    int64
	Status    string
	Direction string
	Page      int
	Limit     int
}

// TransactionPage is one page of a transaction listing.
type TransactionPage struct {
	Requests []Transaction `json:"requests"`
	Total    int           `json:"total"`
	Page     int           `json:"page"`
	Limit    int           `json:"limit"`
}
