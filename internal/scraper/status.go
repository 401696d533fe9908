package scraper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/netly-dev/gobid/internal/browser"
	"github.com/netly-dev/gobid/internal/domain"
	"github.com/netly-dev/gobid/internal/logger"
	"github.com/netly-dev/gobid/internal/marketplace"
)

// StatusClassifier inspects a project's detail page for terminal
// markers before any generation or submission work is attempted. It
// is the cheapest possible filter and always runs first.
type StatusClassifier struct {
	driver        browser.Driver
	adapter       marketplace.Adapter
	markerTimeout time.Duration
	logger        logger.Interface
}

// NewStatusClassifier creates a status classifier.
func NewStatusClassifier(
	driver browser.Driver,
	adapter marketplace.Adapter,
	markerTimeout time.Duration,
	log logger.Interface,
) *StatusClassifier {
	return &StatusClassifier{
		driver:        driver,
		adapter:       adapter,
		markerTimeout: markerTimeout,
		logger: log.WithComponent("status_classifier").
			WithMarketplace(adapter.Name().String()),
	}
}

// Classify navigates to the project's detail page and probes the
// three terminal markers. Markers are read fresh every time: the
// remote page is the only source of truth and can change between
// runs. Absence of a marker is not an error.
func (c *StatusClassifier) Classify(ctx context.Context, project *domain.Project) (domain.StatusSnapshot, error) {
	if err := c.driver.Load(ctx, project.Link); err != nil {
		return domain.StatusSnapshot{}, fmt.Errorf("detail page unavailable: %w", err)
	}

	selectors := c.adapter.Project()
	snapshot := domain.StatusSnapshot{}
	var err error

	if snapshot.AlreadyBid, err = c.probe(ctx, selectors.AlreadyBid); err != nil {
		return domain.StatusSnapshot{}, err
	}
	if snapshot.NoMoreBids, err = c.probe(ctx, selectors.NoMoreBids); err != nil {
		return domain.StatusSnapshot{}, err
	}
	if snapshot.TooManyBids, err = c.probe(ctx, selectors.TooManyBids); err != nil {
		return domain.StatusSnapshot{}, err
	}

	c.logger.Debug("Classified project",
		"link", project.Link,
		"already_bid", snapshot.AlreadyBid,
		"no_more_bids", snapshot.NoMoreBids,
		"too_many_bids", snapshot.TooManyBids,
		"can_bid", snapshot.CanBid())
	return snapshot, nil
}

// probe checks one marker's presence with the short marker timeout.
func (c *StatusClassifier) probe(ctx context.Context, loc browser.Locator) (bool, error) {
	if _, err := c.driver.Locate(ctx, loc, c.markerTimeout); err != nil {
		if errors.Is(err, browser.ErrElementNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("marker probe failed: %w", err)
	}
	return true, nil
}
