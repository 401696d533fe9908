// Package scraper implements the page-level extraction components:
// listing rows, project descriptions, bid status markers, and the bid
// form itself. Every component works through the browser driver and a
// marketplace adapter and holds no cross-call state.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/netly-dev/gobid/internal/browser"
	"github.com/netly-dev/gobid/internal/domain"
	"github.com/netly-dev/gobid/internal/logger"
	"github.com/netly-dev/gobid/internal/marketplace"
)

// bidCountPattern matches the bid count preceding the (declined)
// Ukrainian word for "bid" on listing rows.
var bidCountPattern = regexp.MustCompile(`(\d+)\s+став`)

// ListingDefaults are the fallback values used when a row's price
// cannot be extracted.
type ListingDefaults struct {
	Price    int
	Currency string
}

// ListingExtractor turns a listing page into project drafts.
type ListingExtractor struct {
	driver        browser.Driver
	adapter       marketplace.Adapter
	defaults      ListingDefaults
	locateTimeout time.Duration
	logger        logger.Interface
}

// NewListingExtractor creates a listing extractor.
func NewListingExtractor(
	driver browser.Driver,
	adapter marketplace.Adapter,
	defaults ListingDefaults,
	locateTimeout time.Duration,
	log logger.Interface,
) *ListingExtractor {
	return &ListingExtractor{
		driver:        driver,
		adapter:       adapter,
		defaults:      defaults,
		locateTimeout: locateTimeout,
		logger: log.WithComponent("listing_extractor").
			WithMarketplace(adapter.Name().String()),
	}
}

// Extract loads the listing page with the given number and returns
// the project drafts found on it, in page order. Duplicate filtering
// against storage is the caller's responsibility. A page-load failure
// is fatal for this page only.
func (e *ListingExtractor) Extract(ctx context.Context, page int) ([]domain.ProjectDraft, error) {
	url := e.adapter.ListingURL(page)
	if err := e.driver.Load(ctx, url); err != nil {
		return nil, fmt.Errorf("listing page %d unavailable: %w", page, err)
	}

	selectors := e.adapter.Listing()
	rows, err := e.driver.LocateAll(ctx, selectors.Rows, e.locateTimeout)
	if err != nil {
		if errors.Is(err, browser.ErrElementNotFound) {
			e.logger.Info("No listing rows found", "page", page)
			return []domain.ProjectDraft{}, nil
		}
		return nil, fmt.Errorf("failed to read listing page %d: %w", page, err)
	}

	drafts := make([]domain.ProjectDraft, 0, len(rows))
	for i, row := range rows {
		draft, ok := e.extractRow(ctx, row, selectors)
		if !ok {
			e.logger.Warn("Dropping unparsable listing row",
				"page", page, "row", i)
			continue
		}
		drafts = append(drafts, draft)
	}

	e.logger.Info("Extracted listing page",
		"page", page,
		"rows", len(rows),
		"drafts", len(drafts))
	return drafts, nil
}

// extractRow pulls one draft out of a listing row. Title and link are
// required; price and currency fall back to the configured defaults.
func (e *ListingExtractor) extractRow(
	ctx context.Context,
	row browser.Element,
	selectors marketplace.ListingSelectors,
) (domain.ProjectDraft, bool) {
	title, link, err := e.extractTitle(ctx, row, selectors.Title)
	if err != nil {
		e.logger.Debug("Row title extraction failed", "error", err)
		return domain.ProjectDraft{}, false
	}

	price, currency := e.extractPrice(ctx, row, selectors.Price)

	// Bid counts go stale before the detail pass; log, never store.
	if bids := e.extractBidCount(ctx, row, selectors.Bids); bids > 0 {
		e.logger.Debug("Row bid count", "link", link, "bids", bids)
	}

	return domain.ProjectDraft{
		Marketplace: e.adapter.Name(),
		Title:       title,
		Link:        link,
		Price:       price,
		Currency:    currency,
	}, true
}

// extractTitle reads the required title text and link off a row.
func (e *ListingExtractor) extractTitle(
	ctx context.Context,
	row browser.Element,
	loc browser.Locator,
) (title, link string, err error) {
	anchor, err := row.Find(ctx, loc)
	if err != nil {
		return "", "", err
	}

	title, err = anchor.Text(ctx)
	if err != nil {
		return "", "", err
	}
	title = strings.TrimSpace(title)

	link, err = anchor.Attribute(ctx, "href")
	if err != nil {
		return "", "", err
	}

	if title == "" || link == "" {
		return "", "", fmt.Errorf("row missing title or link")
	}
	return title, link, nil
}

// extractPrice reads a row's price and currency, substituting the
// configured defaults when the row carries none or the text does not
// parse.
func (e *ListingExtractor) extractPrice(
	ctx context.Context,
	row browser.Element,
	loc browser.Locator,
) (int, string) {
	element, err := row.Find(ctx, loc)
	if err != nil {
		return e.defaults.Price, e.defaults.Currency
	}

	text, err := element.Text(ctx)
	if err != nil {
		return e.defaults.Price, e.defaults.Currency
	}

	// "8000 UAH" or a digit-grouped "8 000 UAH": the last field is the
	// currency, everything before it is the amount.
	fields := strings.Fields(text)
	if len(fields) < 2 {
		e.logger.Debug("Unparsable price text", "text", text)
		return e.defaults.Price, e.defaults.Currency
	}

	currency := fields[len(fields)-1]
	if _, err := strconv.Atoi(currency); err == nil {
		e.logger.Debug("Price text carries no currency", "text", text)
		return e.defaults.Price, e.defaults.Currency
	}

	price, err := strconv.Atoi(strings.Join(fields[:len(fields)-1], ""))
	if err != nil {
		e.logger.Debug("Unparsable price amount", "text", text)
		return e.defaults.Price, e.defaults.Currency
	}

	return price, currency
}

// extractBidCount reads a row's bid count for logging. Zero when the
// row carries none.
func (e *ListingExtractor) extractBidCount(
	ctx context.Context,
	row browser.Element,
	loc browser.Locator,
) int {
	element, err := row.Find(ctx, loc)
	if err != nil {
		return 0
	}

	text, err := element.Text(ctx)
	if err != nil {
		return 0
	}

	match := bidCountPattern.FindStringSubmatch(text)
	if match == nil {
		return 0
	}

	count, err := strconv.Atoi(match[1])
	if err != nil {
		return 0
	}
	return count
}
