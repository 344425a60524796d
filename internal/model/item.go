package model

import "time"

// Item is a listing offered for exchange, donation or sale.
type Item struct {
	ID              int64       `json:"id"`
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	Category        string      `json:"category"`
	Condition       string      `json:"condition"`
	TransactionType string      `json:"transaction_type"`
	Price           float64     `json:"price"`
	Location        string      `json:"location,omitempty"`
	Image           string      `json:"image,omitempty"`
	OwnerID         int64       `json:"owner_id"`
	Owner           *PublicUser `json:"owner,omitempty"`
	Active          bool        `json:"active"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// Item conditions.
const (
	ConditionNew  = "new"
	ConditionGood = "good"
	ConditionUsed = "used"
)

// Transaction types an item can be offered under.
const (
	TypeExchange = "exchange"
	TypeDonation = "donation"
	TypeSale     = "sale"
)

// Listing sort orders.
const (
	SortNewest = "newest"
	SortOldest = "oldest"
)

// ValidCondition reports whether c is a known item condition.
func ValidCondition(c string) bool {
	switch c {
	case ConditionNew, ConditionGood, ConditionUsed:
		return true
	}
	return false
}

// ValidTransactionType reports whether t is a known transaction type.
func ValidTransactionType(t string) bool {
	switch t {
	case TypeExchange, TypeDonation, TypeSale:
		return true
	}
	return false
}

// ItemFilter selects active items for the public listing.
type ItemFilter struct {
	Query           string
	Category        string
	TransactionType string
	Sort            string
	Page            int
	Limit           int
}

// ItemPage is one page of a filtered item listing.
type ItemPage struct {
	Items []Item `json:"items"`
	Total int    `json:"total"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
}

// Report flags an item for moderation.
type Report struct {
	ID            int64     `json:"id"`
	ItemID        int64     `json:"item_id"`
	ReporterEmail string    `json:"reporter_email"`
	Reason        string    `json:"reason"`
	CreatedAt     time.Time `json:"created_at"`
}
