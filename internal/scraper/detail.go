package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/netly-dev/gobid/internal/browser"
	"github.com/netly-dev/gobid/internal/content"
	"github.com/netly-dev/gobid/internal/domain"
	"github.com/netly-dev/gobid/internal/logger"
	"github.com/netly-dev/gobid/internal/marketplace"
)

// DetailExtractor reads a project's plain-text description off its
// detail page.
type DetailExtractor struct {
	driver        browser.Driver
	adapter       marketplace.Adapter
	locateTimeout time.Duration
	logger        logger.Interface
}

// NewDetailExtractor creates a detail extractor.
func NewDetailExtractor(
	driver browser.Driver,
	adapter marketplace.Adapter,
	locateTimeout time.Duration,
	log logger.Interface,
) *DetailExtractor {
	return &DetailExtractor{
		driver:        driver,
		adapter:       adapter,
		locateTimeout: locateTimeout,
		logger: log.WithComponent("detail_extractor").
			WithMarketplace(adapter.Name().String()),
	}
}

// Extract navigates to the project's detail page and returns its
// description as plain text. An absent description container is a
// page or layout anomaly, reported as browser.ErrElementNotFound —
// not a "no description" signal.
func (e *DetailExtractor) Extract(ctx context.Context, project *domain.Project) (string, error) {
	if err := e.driver.Load(ctx, project.Link); err != nil {
		return "", fmt.Errorf("detail page unavailable: %w", err)
	}

	container, err := e.driver.Locate(ctx, e.adapter.Project().Description, e.locateTimeout)
	if err != nil {
		return "", fmt.Errorf("description container: %w", err)
	}

	markup, err := container.HTML(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read description markup: %w", err)
	}

	text, err := content.ToText(markup)
	if err != nil {
		return "", fmt.Errorf("failed to convert description: %w", err)
	}

	e.logger.Debug("Extracted description",
		"link", project.Link,
		"length", len(text))
	return text, nil
}
