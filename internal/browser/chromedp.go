package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"

	"github.com/netly-dev/gobid/internal/logger"
)

// defaultElementTimeout bounds element-scoped waits when the config
// leaves ElementTimeout unset.
const defaultElementTimeout = 5 * time.Second

// Config holds browser driver settings.
type Config struct {
	// Headless runs the browser without a visible window.
	Headless bool
	// UserAgent overrides the browser user agent when non-empty.
	UserAgent string
	// PageTimeout bounds page navigations.
	PageTimeout time.Duration
	// ElementTimeout bounds element actions and descendant lookups.
	// Kept short: descendant probes for optional elements miss
	// routinely, and each miss waits out the full timeout.
	ElementTimeout time.Duration
}

// withDefaults fills unset timeouts.
func (cfg Config) withDefaults() Config {
	if cfg.ElementTimeout <= 0 {
		cfg.ElementTimeout = defaultElementTimeout
	}
	return cfg
}

// ChromeDriver implements Driver on top of a chromedp browser session.
// One ChromeDriver owns one browser session; the pipeline runs
// strictly sequentially against it.
type ChromeDriver struct {
	browserCtx     context.Context
	cancelAlloc    context.CancelFunc
	cancelCtx      context.CancelFunc
	pageTimeout    time.Duration
	elementTimeout time.Duration
	logger         logger.Interface
}

// Ensure ChromeDriver implements Driver.
var _ Driver = (*ChromeDriver)(nil)

// NewChromeDriver starts a browser session with the given settings.
func NewChromeDriver(ctx context.Context, cfg Config, log logger.Interface) (*ChromeDriver, error) {
	cfg = cfg.withDefaults()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
	)
	if cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.UserAgent))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancelCtx := chromedp.NewContext(allocCtx)

	// Start the browser process eagerly so startup failures surface
	// here instead of on the first navigation.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelCtx()
		cancelAlloc()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	return &ChromeDriver{
		browserCtx:     browserCtx,
		cancelAlloc:    cancelAlloc,
		cancelCtx:      cancelCtx,
		pageTimeout:    cfg.PageTimeout,
		elementTimeout: cfg.ElementTimeout,
		logger:         log.WithComponent("browser"),
	}, nil
}

// Close shuts the browser session down.
func (d *ChromeDriver) Close() {
	d.cancelCtx()
	d.cancelAlloc()
}

// Load navigates the browser to the given URL.
func (d *ChromeDriver) Load(ctx context.Context, url string) error {
	runCtx, cancel := d.boundedCtx(ctx, d.pageTimeout)
	defer cancel()

	d.logger.Debug("Loading page", "url", url)
	if err := chromedp.Run(runCtx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrPageLoad, url, err)
	}
	return nil
}

// Locate finds the first element matching the locator.
func (d *ChromeDriver) Locate(ctx context.Context, loc Locator, timeout time.Duration) (Element, error) {
	nodes, err := d.queryNodes(ctx, loc, timeout)
	if err != nil {
		return nil, err
	}
	return &chromeElement{driver: d, xpath: nodes[0].FullXPath()}, nil
}

// LocateAll finds every element matching the locator.
func (d *ChromeDriver) LocateAll(ctx context.Context, loc Locator, timeout time.Duration) ([]Element, error) {
	nodes, err := d.queryNodes(ctx, loc, timeout)
	if err != nil {
		return nil, err
	}

	elements := make([]Element, 0, len(nodes))
	for _, node := range nodes {
		elements = append(elements, &chromeElement{driver: d, xpath: node.FullXPath()})
	}
	return elements, nil
}

// queryNodes resolves a locator to DOM nodes, waiting up to timeout
// for at least one match.
func (d *ChromeDriver) queryNodes(ctx context.Context, loc Locator, timeout time.Duration) ([]*cdp.Node, error) {
	sel, opt, err := toSelector(loc)
	if err != nil {
		return nil, err
	}

	runCtx, cancel := d.boundedCtx(ctx, timeout)
	defer cancel()

	var nodes []*cdp.Node
	if runErr := chromedp.Run(runCtx, chromedp.Nodes(sel, &nodes, opt)); runErr != nil {
		if errors.Is(runErr, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s %q", ErrElementNotFound, loc.By, loc.Value)
		}
		return nil, fmt.Errorf("failed to locate %s %q: %w", loc.By, loc.Value, runErr)
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: %s %q", ErrElementNotFound, loc.By, loc.Value)
	}
	return nodes, nil
}

// boundedCtx derives a run context from the browser session, honoring
// both the caller's cancellation and the operation timeout.
func (d *ChromeDriver) boundedCtx(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	runCtx, cancelRun := context.WithCancel(d.browserCtx)
	stop := context.AfterFunc(ctx, cancelRun)

	var cancelTimeout context.CancelFunc = func() {}
	if timeout > 0 {
		runCtx, cancelTimeout = context.WithTimeout(runCtx, timeout)
	}

	return runCtx, func() {
		stop()
		cancelTimeout()
		cancelRun()
	}
}

// toSelector maps a locator onto a chromedp selector and query option.
func toSelector(loc Locator) (string, chromedp.QueryOption, error) {
	switch loc.By {
	case ByID:
		return loc.Value, chromedp.ByID, nil
	case ByCSS:
		return loc.Value, chromedp.ByQueryAll, nil
	case ByXPath:
		return loc.Value, chromedp.BySearch, nil
	default:
		return "", nil, fmt.Errorf("unknown locator strategy: %s", loc.By)
	}
}

// chromeElement is an Element pinned to a node's full XPath. The
// XPath stays valid as long as the page is not re-rendered; the
// pipeline locates elements immediately before using them.
type chromeElement struct {
	driver *ChromeDriver
	xpath  string
}

// Text returns the element's visible text.
func (e *chromeElement) Text(ctx context.Context) (string, error) {
	var text string
	if err := e.run(ctx, chromedp.Text(e.xpath, &text, chromedp.BySearch)); err != nil {
		return "", err
	}
	return text, nil
}

// HTML returns the element's inner markup.
func (e *chromeElement) HTML(ctx context.Context) (string, error) {
	var html string
	if err := e.run(ctx, chromedp.InnerHTML(e.xpath, &html, chromedp.BySearch)); err != nil {
		return "", err
	}
	return html, nil
}

// Attribute returns the named attribute's value.
func (e *chromeElement) Attribute(ctx context.Context, name string) (string, error) {
	var value string
	var ok bool
	if err := e.run(ctx, chromedp.AttributeValue(e.xpath, name, &value, &ok, chromedp.BySearch)); err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}
	return value, nil
}

// Click clicks the element.
func (e *chromeElement) Click(ctx context.Context) error {
	return e.run(ctx, chromedp.Click(e.xpath, chromedp.BySearch))
}

// Clear empties an input element.
func (e *chromeElement) Clear(ctx context.Context) error {
	return e.run(ctx, chromedp.Clear(e.xpath, chromedp.BySearch))
}

// Type sends the given text to an input element.
func (e *chromeElement) Type(ctx context.Context, text string) error {
	return e.run(ctx, chromedp.SendKeys(e.xpath, text, chromedp.BySearch))
}

// Find locates a descendant by a relative XPath locator (".//...").
func (e *chromeElement) Find(ctx context.Context, loc Locator) (Element, error) {
	if loc.By != ByXPath || !strings.HasPrefix(loc.Value, ".") {
		return nil, fmt.Errorf("scoped lookup requires a relative XPath locator, got %s %q", loc.By, loc.Value)
	}

	absolute := e.xpath + strings.TrimPrefix(loc.Value, ".")
	return e.driver.Locate(ctx, XPath(absolute), e.driver.elementTimeout)
}

// run executes a chromedp action against the element's page with the
// driver's element timeout.
func (e *chromeElement) run(ctx context.Context, action chromedp.Action) error {
	runCtx, cancel := e.driver.boundedCtx(ctx, e.driver.elementTimeout)
	defer cancel()

	if err := chromedp.Run(runCtx, action); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %s", ErrElementNotFound, e.xpath)
		}
		return fmt.Errorf("element action failed: %w", err)
	}
	return nil
}
