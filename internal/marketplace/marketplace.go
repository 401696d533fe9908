// Package marketplace defines the adapter abstraction over supported
// freelance marketplaces: locator sets, page URLs, and credential
// lookup. The pipeline is polymorphic over adapters and never touches
// marketplace-specific locators directly.
package marketplace

import (
	"github.com/netly-dev/gobid/internal/browser"
	"github.com/netly-dev/gobid/internal/config"
	"github.com/netly-dev/gobid/internal/domain"
)

// Credentials holds a marketplace account's login credentials.
type Credentials struct {
	Email    string
	Password string
}

// ListingSelectors defines the locators for project listing pages.
type ListingSelectors struct {
	// Rows matches every project row on a listing page.
	Rows browser.Locator
	// Title matches a row's title anchor, relative to the row. The
	// anchor's href is the project link.
	Title browser.Locator
	// Price matches a row's price element, relative to the row.
	Price browser.Locator
	// Bids matches a row's bid-count element, relative to the row.
	Bids browser.Locator
}

// ProjectSelectors defines the locators for a project detail page.
type ProjectSelectors struct {
	// Description matches the project description container.
	Description browser.Locator
	// PlaceBidButton opens the bid form.
	PlaceBidButton browser.Locator
	// MessageInput is the bid message field.
	MessageInput browser.Locator
	// DaysInput is the delivery-days field.
	DaysInput browser.Locator
	// PriceInput is the price field.
	PriceInput browser.Locator
	// SubmitBidButton submits the bid form.
	SubmitBidButton browser.Locator
	// AlreadyBid matches the already-bid notice.
	AlreadyBid browser.Locator
	// NoMoreBids matches the bidding-closed notice.
	NoMoreBids browser.Locator
	// TooManyBids matches the rate-limited notice.
	TooManyBids browser.Locator
	// FormError matches the form-level error marker shown after a
	// rejected submission.
	FormError browser.Locator
	// FormErrorText matches the individual error-text fragments.
	FormErrorText browser.Locator
}

// LoginSelectors defines the locators for the login page.
type LoginSelectors struct {
	// EmailInput is the login email field.
	EmailInput browser.Locator
	// PasswordInput is the login password field.
	PasswordInput browser.Locator
	// LoginButton submits the login form.
	LoginButton browser.Locator
}

// MFASelectors defines the locators for the multi-factor challenge.
type MFASelectors struct {
	// CodeInput is the MFA code field.
	CodeInput browser.Locator
	// SubmitButton submits the MFA code.
	SubmitButton browser.Locator
	// ErrorAlert matches the invalid-code notice.
	ErrorAlert browser.Locator
}

// Adapter exposes everything marketplace-specific the pipeline needs.
type Adapter interface {
	// Name identifies the marketplace.
	Name() domain.Marketplace
	// LoginURL returns the login page URL.
	LoginURL() string
	// ListingURL returns the listing page URL for the given page number.
	ListingURL(page int) string
	// Credentials returns the account credentials.
	Credentials() Credentials
	// RequiresMFA reports whether login may present a multi-factor
	// challenge.
	RequiresMFA() bool
	// Listing returns the listing page locators.
	Listing() ListingSelectors
	// Project returns the detail page locators.
	Project() ProjectSelectors
	// Login returns the login page locators.
	Login() LoginSelectors
	// MFA returns the multi-factor locators. Only meaningful when
	// RequiresMFA is true.
	MFA() MFASelectors
}

// Factory builds an adapter from per-marketplace configuration.
type Factory func(cfg config.MarketplaceConfig) Adapter
