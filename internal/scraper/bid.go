package scraper

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/netly-dev/gobid/internal/browser"
	"github.com/netly-dev/gobid/internal/domain"
	"github.com/netly-dev/gobid/internal/logger"
	"github.com/netly-dev/gobid/internal/marketplace"
)

// BidSubmitter fills and submits the bid form and interprets the
// post-submit page state.
type BidSubmitter struct {
	driver        browser.Driver
	adapter       marketplace.Adapter
	defaultDays   int
	locateTimeout time.Duration
	markerTimeout time.Duration
	settleDelay   time.Duration
	logger        logger.Interface
}

// NewBidSubmitter creates a bid submitter. settleDelay is the time the
// page gets to render the post-submit state before the form-error
// probe; zero disables the wait.
func NewBidSubmitter(
	driver browser.Driver,
	adapter marketplace.Adapter,
	defaultDays int,
	locateTimeout time.Duration,
	markerTimeout time.Duration,
	settleDelay time.Duration,
	log logger.Interface,
) *BidSubmitter {
	return &BidSubmitter{
		driver:        driver,
		adapter:       adapter,
		defaultDays:   defaultDays,
		locateTimeout: locateTimeout,
		markerTimeout: markerTimeout,
		settleDelay:   settleDelay,
		logger: log.WithComponent("bid_submitter").
			WithMarketplace(adapter.Name().String()),
	}
}

// Submit performs exactly one submission attempt: open the bid form,
// fill message, delivery days, and price, and submit. Any step
// failing to locate its target is fatal for the attempt, with no
// partial-fill recovery. A form-level error marker after submission
// yields a rejected result with the collected error fragments; its
// absence means the bid went through.
func (s *BidSubmitter) Submit(ctx context.Context, project *domain.Project, message string) (domain.SubmitResult, error) {
	if err := s.driver.Load(ctx, project.Link); err != nil {
		return domain.SubmitResult{}, fmt.Errorf("detail page unavailable: %w", err)
	}

	selectors := s.adapter.Project()

	if err := s.click(ctx, selectors.PlaceBidButton); err != nil {
		return domain.SubmitResult{}, fmt.Errorf("place-bid control: %w", err)
	}
	if err := s.fill(ctx, selectors.MessageInput, message); err != nil {
		return domain.SubmitResult{}, fmt.Errorf("message field: %w", err)
	}
	if err := s.fill(ctx, selectors.DaysInput, strconv.Itoa(s.defaultDays)); err != nil {
		return domain.SubmitResult{}, fmt.Errorf("delivery-days field: %w", err)
	}
	if err := s.fill(ctx, selectors.PriceInput, strconv.Itoa(project.Price)); err != nil {
		return domain.SubmitResult{}, fmt.Errorf("price field: %w", err)
	}
	if err := s.click(ctx, selectors.SubmitBidButton); err != nil {
		return domain.SubmitResult{}, fmt.Errorf("submit control: %w", err)
	}

	settle(ctx, s.settleDelay)

	if _, err := s.driver.Locate(ctx, selectors.FormError, s.markerTimeout); err != nil {
		if errors.Is(err, browser.ErrElementNotFound) {
			s.logger.Info("Bid submitted", "link", project.Link)
			return domain.SubmitResult{Submitted: true}, nil
		}
		return domain.SubmitResult{}, fmt.Errorf("form-error probe failed: %w", err)
	}

	errs := s.collectFormErrors(ctx, selectors.FormErrorText)
	s.logger.Warn("Bid rejected by form validation",
		"link", project.Link,
		"errors", strings.Join(errs, "\n"))
	return domain.SubmitResult{Submitted: false, Errors: errs}, nil
}

// settle waits out a page render delay, returning early when the
// context is cancelled.
func settle(ctx context.Context, delay time.Duration) {
	if delay <= 0 {
		return
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// collectFormErrors gathers every error-text fragment on the page.
func (s *BidSubmitter) collectFormErrors(ctx context.Context, loc browser.Locator) []string {
	elements, err := s.driver.LocateAll(ctx, loc, s.markerTimeout)
	if err != nil {
		return nil
	}

	errs := make([]string, 0, len(elements))
	for _, element := range elements {
		text, textErr := element.Text(ctx)
		if textErr != nil {
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			errs = append(errs, text)
		}
	}
	return errs
}

// click locates a control and clicks it.
func (s *BidSubmitter) click(ctx context.Context, loc browser.Locator) error {
	element, err := s.driver.Locate(ctx, loc, s.locateTimeout)
	if err != nil {
		return err
	}
	return element.Click(ctx)
}

// fill locates an input, clears it, and types the given text.
func (s *BidSubmitter) fill(ctx context.Context, loc browser.Locator, text string) error {
	input, err := s.driver.Locate(ctx, loc, s.locateTimeout)
	if err != nil {
		return err
	}
	if err := input.Clear(ctx); err != nil {
		return err
	}
	return input.Type(ctx, text)
}
