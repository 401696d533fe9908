// Package browser provides the browser automation driver used to
// scrape marketplace pages. The core components depend only on the
// Driver and Element interfaces and never interpret locator internals.
package browser

import (
	"context"
	"errors"
	"time"
)

// Error types for the browser package.
var (
	// ErrElementNotFound is returned when a locator matches nothing
	// within its timeout.
	ErrElementNotFound = errors.New("element not found")

	// ErrPageLoad is returned when a page navigation fails.
	ErrPageLoad = errors.New("page load failed")
)

// Strategy identifies a locator strategy.
type Strategy string

const (
	// ByID locates an element by its id attribute.
	ByID Strategy = "id"
	// ByCSS locates an element by CSS selector.
	ByCSS Strategy = "css"
	// ByXPath locates an element by XPath expression.
	ByXPath Strategy = "xpath"
)

// Locator is an opaque marketplace-specific element descriptor.
type Locator struct {
	By    Strategy
	Value string
}

// ID builds an id locator.
func ID(value string) Locator { return Locator{By: ByID, Value: value} }

// CSS builds a CSS-selector locator.
func CSS(value string) Locator { return Locator{By: ByCSS, Value: value} }

// XPath builds an XPath locator.
func XPath(value string) Locator { return Locator{By: ByXPath, Value: value} }

// Element is a handle to a located page element.
type Element interface {
	// Text returns the element's visible text.
	Text(ctx context.Context) (string, error)
	// HTML returns the element's inner markup.
	HTML(ctx context.Context) (string, error)
	// Attribute returns the named attribute's value, or an empty
	// string when the attribute is absent.
	Attribute(ctx context.Context, name string) (string, error)
	// Click clicks the element.
	Click(ctx context.Context) error
	// Clear empties an input element.
	Clear(ctx context.Context) error
	// Type sends the given text to an input element.
	Type(ctx context.Context, text string) error
	// Find locates a descendant element by a relative XPath locator.
	Find(ctx context.Context, loc Locator) (Element, error)
}

// Driver is the capability surface the pipeline needs from a browser.
type Driver interface {
	// Load navigates the browser to the given URL.
	Load(ctx context.Context, url string) error
	// Locate finds the first element matching the locator, waiting up
	// to timeout. Returns ErrElementNotFound on a miss or timeout.
	Locate(ctx context.Context, loc Locator, timeout time.Duration) (Element, error)
	// LocateAll finds every element matching the locator, waiting up
	// to timeout for at least one.
	LocateAll(ctx context.Context, loc Locator, timeout time.Duration) ([]Element, error)
}
