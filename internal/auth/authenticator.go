// Package auth implements the marketplace login flow, including the
// bounded multi-factor challenge.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/netly-dev/gobid/internal/browser"
	"github.com/netly-dev/gobid/internal/logger"
	"github.com/netly-dev/gobid/internal/marketplace"
)

// Error types for the auth package.
var (
	// ErrLoginFailed is returned when the login flow cannot complete.
	ErrLoginFailed = errors.New("login failed")

	// ErrMFAExhausted is returned when the multi-factor challenge is
	// required but no valid code got through within the attempt bound.
	ErrMFAExhausted = errors.New("multi-factor attempts exhausted")
)

const (
	// mfaCodeLength is the required code length.
	mfaCodeLength = 6

	// mfaProbeTimeout bounds the check for the MFA input's presence.
	mfaProbeTimeout = 3 * time.Second
)

// CodeProvider supplies a multi-factor code on demand. The default
// provider reads from stdin; a GUI front-end can plug its own.
type CodeProvider func() (string, error)

// Authenticator logs a marketplace account in through the browser.
type Authenticator struct {
	driver        browser.Driver
	adapter       marketplace.Adapter
	codeProvider  CodeProvider
	locateTimeout time.Duration
	settleDelay   time.Duration
	maxTries      int
	logger        logger.Interface
}

// NewAuthenticator creates an authenticator for one marketplace.
// settleDelay is the time the page gets to react after each submit;
// zero disables the wait.
func NewAuthenticator(
	driver browser.Driver,
	adapter marketplace.Adapter,
	codeProvider CodeProvider,
	locateTimeout time.Duration,
	settleDelay time.Duration,
	maxTries int,
	log logger.Interface,
) *Authenticator {
	if maxTries < 1 {
		maxTries = 1
	}
	return &Authenticator{
		driver:        driver,
		adapter:       adapter,
		codeProvider:  codeProvider,
		locateTimeout: locateTimeout,
		settleDelay:   settleDelay,
		maxTries:      maxTries,
		logger: log.WithComponent("authenticator").
			WithMarketplace(adapter.Name().String()),
	}
}

// Login performs the credential entry and, when required, the
// multi-factor challenge. A failure is fatal to the whole run: no
// per-project recovery is possible without a session.
func (a *Authenticator) Login(ctx context.Context) error {
	creds := a.adapter.Credentials()
	selectors := a.adapter.Login()

	a.logger.Info("Starting login", "url", a.adapter.LoginURL())
	if err := a.driver.Load(ctx, a.adapter.LoginURL()); err != nil {
		return fmt.Errorf("%w: %v", ErrLoginFailed, err)
	}

	if err := a.fill(ctx, selectors.EmailInput, creds.Email); err != nil {
		return fmt.Errorf("%w: email field: %v", ErrLoginFailed, err)
	}
	if err := a.fill(ctx, selectors.PasswordInput, creds.Password); err != nil {
		return fmt.Errorf("%w: password field: %v", ErrLoginFailed, err)
	}

	button, err := a.driver.Locate(ctx, selectors.LoginButton, a.locateTimeout)
	if err != nil {
		return fmt.Errorf("%w: login button: %v", ErrLoginFailed, err)
	}
	if err := button.Click(ctx); err != nil {
		return fmt.Errorf("%w: login button: %v", ErrLoginFailed, err)
	}
	a.logger.Info("Credentials submitted")

	settle(ctx, a.settleDelay)

	if err := a.completeMFA(ctx); err != nil {
		return err
	}

	a.logger.Info("Login successful")
	return nil
}

// completeMFA handles the multi-factor challenge when the page
// presents one. Absence of the code input means no challenge.
func (a *Authenticator) completeMFA(ctx context.Context) error {
	if !a.adapter.RequiresMFA() {
		return nil
	}

	selectors := a.adapter.MFA()
	if _, err := a.driver.Locate(ctx, selectors.CodeInput, mfaProbeTimeout); err != nil {
		if errors.Is(err, browser.ErrElementNotFound) {
			a.logger.Debug("No multi-factor challenge presented")
			return nil
		}
		return fmt.Errorf("%w: %v", ErrLoginFailed, err)
	}

	a.logger.Info("Multi-factor challenge presented", "max_tries", a.maxTries)

	for attempt := 1; attempt <= a.maxTries; attempt++ {
		code, err := a.codeProvider()
		if err != nil {
			return fmt.Errorf("%w: code provider: %v", ErrMFAExhausted, err)
		}
		if !validCode(code) {
			a.logger.Warn("Invalid code format, must be 6 digits",
				"attempt", attempt)
			continue
		}

		if err := a.submitCode(ctx, selectors, code); err != nil {
			a.logger.Warn("Failed to submit code",
				"attempt", attempt, "error", err)
			continue
		}

		settle(ctx, a.settleDelay)

		// The error alert only appears on a rejected code.
		if _, err := a.driver.Locate(ctx, selectors.ErrorAlert, mfaProbeTimeout); err != nil {
			if errors.Is(err, browser.ErrElementNotFound) {
				a.logger.Info("Multi-factor challenge passed", "attempt", attempt)
				return nil
			}
			return fmt.Errorf("%w: %v", ErrLoginFailed, err)
		}

		a.logger.Warn("Code rejected", "attempt", attempt)
	}

	return ErrMFAExhausted
}

// submitCode fills and submits one multi-factor code.
func (a *Authenticator) submitCode(ctx context.Context, selectors marketplace.MFASelectors, code string) error {
	if err := a.fill(ctx, selectors.CodeInput, code); err != nil {
		return err
	}

	button, err := a.driver.Locate(ctx, selectors.SubmitButton, a.locateTimeout)
	if err != nil {
		return err
	}
	return button.Click(ctx)
}

// fill locates an input, clears it, and types the given text.
func (a *Authenticator) fill(ctx context.Context, loc browser.Locator, text string) error {
	input, err := a.driver.Locate(ctx, loc, a.locateTimeout)
	if err != nil {
		return err
	}
	if err := input.Clear(ctx); err != nil {
		return err
	}
	return input.Type(ctx, text)
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

// validCode reports whether the code is exactly six decimal digits.
func validCode(code string) bool {
	if len(code) != mfaCodeLength {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
