package common

import (
	"context"
	"fmt"
	"os"

	"github.com/netly-dev/gobid/internal/ai"
	"github.com/netly-dev/gobid/internal/auth"
	"github.com/netly-dev/gobid/internal/browser"
	"github.com/netly-dev/gobid/internal/database"
	"github.com/netly-dev/gobid/internal/domain"
	"github.com/netly-dev/gobid/internal/marketplace"
	"github.com/netly-dev/gobid/internal/pipeline"
	"github.com/netly-dev/gobid/internal/scraper"
)

// BidStack bundles the components a bidding command needs: one browser
// session, one marketplace adapter, and the pipeline built on them.
type BidStack struct {
	Driver        *browser.ChromeDriver
	Adapter       marketplace.Adapter
	Authenticator *auth.Authenticator
	Service       *pipeline.ProjectService
}

// Close releases the browser session.
func (s *BidStack) Close() {
	s.Driver.Close()
}

// NewBidStack constructs the full bidding stack for one marketplace.
// The caller owns the returned stack and must Close it.
func NewBidStack(
	ctx context.Context,
	deps CommandDeps,
	name domain.Marketplace,
	repo *database.ProjectRepository,
) (*BidStack, error) {
	cfg := deps.Config
	if err := cfg.Validate(name); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	adapter, err := marketplace.New(name, cfg.Marketplaces[name])
	if err != nil {
		return nil, err
	}

	driver, err := browser.NewChromeDriver(ctx, browser.Config{
		Headless:       cfg.Browser.Headless,
		UserAgent:      cfg.Browser.UserAgent,
		PageTimeout:    cfg.Browser.PageTimeout,
		ElementTimeout: cfg.Browser.LocateTimeout,
	}, deps.Logger)
	if err != nil {
		return nil, fmt.Errorf("start browser: %w", err)
	}

	generator, err := ai.NewClient(ai.ClientConfig{
		BaseURL:      cfg.AI.BaseURL,
		APIKey:       cfg.AI.APIKey,
		Model:        cfg.AI.Model,
		Temperature:  cfg.AI.Temperature,
		TopP:         cfg.AI.TopP,
		MaxTokens:    cfg.AI.MaxTokens,
		SystemPrompt: cfg.AI.SystemPrompt,
	})
	if err != nil {
		driver.Close()
		return nil, fmt.Errorf("create generation client: %w", err)
	}

	listings := scraper.NewListingExtractor(driver, adapter, scraper.ListingDefaults{
		Price:    cfg.Bid.DefaultPrice,
		Currency: cfg.Bid.DefaultCurrency,
	}, cfg.Browser.LocateTimeout, deps.Logger)
	details := scraper.NewDetailExtractor(driver, adapter, cfg.Browser.LocateTimeout, deps.Logger)
	classifier := scraper.NewStatusClassifier(driver, adapter, cfg.Browser.MarkerTimeout, deps.Logger)
	engine := ai.NewDecisionEngine(generator, cfg.AI.MaxTries, deps.Logger)
	submitter := scraper.NewBidSubmitter(
		driver, adapter,
		cfg.Bid.DefaultDays,
		cfg.Browser.LocateTimeout,
		cfg.Browser.MarkerTimeout,
		cfg.Browser.SettleDelay,
		deps.Logger,
	)

	authenticator := auth.NewAuthenticator(
		driver, adapter,
		auth.StdinCodeProvider(os.Stdin, os.Stdout),
		cfg.Browser.LocateTimeout,
		cfg.Browser.SettleDelay,
		cfg.Auth.MFAMaxTries,
		deps.Logger,
	)

	service := pipeline.NewProjectService(
		repo, listings, details, classifier, engine, submitter, deps.Logger,
	)

	return &BidStack{
		Driver:        driver,
		Adapter:       adapter,
		Authenticator: authenticator,
		Service:       service,
	}, nil
}
