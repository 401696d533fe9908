// Package domain provides domain models used across the application.
package domain

import (
	"time"
)

// Marketplace identifies a supported freelance marketplace.
type Marketplace string

const (
	// MarketplaceFreelancehunt is the freelancehunt.com marketplace.
	MarketplaceFreelancehunt Marketplace = "freelancehunt"
	// MarketplaceFreelancer is the freelancer.com marketplace.
	MarketplaceFreelancer Marketplace = "freelancer"
)

// String returns the marketplace identifier.
func (m Marketplace) String() string {
	return string(m)
}

// Project represents a marketplace project tracked for bidding.
// The link is the natural key: no two stored projects share a link.
type Project struct {
	ID          string      `db:"id" json:"id"`
	Marketplace Marketplace `db:"marketplace" json:"marketplace"`
	Title       string      `db:"title" json:"title"`
	Link        string      `db:"link" json:"link"`
	Price       int         `db:"price" json:"price"`
	Currency    string      `db:"currency" json:"currency"`

	BidMessage *string `db:"bid_message" json:"bid_message,omitempty"`

	IsBidPlaced  bool `db:"is_bid_placed" json:"is_bid_placed"`
	IsBidSkipped bool `db:"is_bid_skipped" json:"is_bid_skipped"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// IsActive reports whether the project still needs processing.
// A project is active iff no bid has been placed and it has not
// been skipped.
func (p *Project) IsActive() bool {
	return !p.IsBidPlaced && !p.IsBidSkipped
}

// ProjectDraft is an in-memory project record scraped from a listing
// page, not yet checked against or written to storage.
type ProjectDraft struct {
	Marketplace Marketplace
	Title       string
	Link        string
	Price       int
	Currency    string
}

// ProjectUpdate carries a partial update for a stored project. Only
// non-nil fields are applied.
type ProjectUpdate struct {
	BidMessage   *string
	IsBidPlaced  *bool
	IsBidSkipped *bool
}
