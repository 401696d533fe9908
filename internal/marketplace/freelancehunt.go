package marketplace

import (
	"fmt"

	"github.com/netly-dev/gobid/internal/browser"
	"github.com/netly-dev/gobid/internal/config"
	"github.com/netly-dev/gobid/internal/domain"
)

func init() {
	Register(domain.MarketplaceFreelancehunt, NewFreelancehunt)
}

// Freelancehunt is the freelancehunt.com adapter.
type Freelancehunt struct {
	cfg config.MarketplaceConfig
}

// NewFreelancehunt creates the freelancehunt adapter.
func NewFreelancehunt(cfg config.MarketplaceConfig) Adapter {
	return &Freelancehunt{cfg: cfg}
}

// Name identifies the marketplace.
func (f *Freelancehunt) Name() domain.Marketplace {
	return domain.MarketplaceFreelancehunt
}

// LoginURL returns the login page URL.
func (f *Freelancehunt) LoginURL() string {
	return f.cfg.LoginURL
}

// ListingURL returns the listing page URL for the given page number.
// The configured projects URL already carries a query string.
func (f *Freelancehunt) ListingURL(page int) string {
	return fmt.Sprintf("%s&page=%d", f.cfg.ProjectsURL, page)
}

// Credentials returns the account credentials.
func (f *Freelancehunt) Credentials() Credentials {
	return Credentials{Email: f.cfg.Email, Password: f.cfg.Password}
}

// RequiresMFA reports whether login may present a multi-factor challenge.
func (f *Freelancehunt) RequiresMFA() bool {
	return true
}

// Listing returns the listing page locators.
func (f *Freelancehunt) Listing() ListingSelectors {
	return ListingSelectors{
		Rows:  browser.XPath("//tbody/tr"),
		Title: browser.XPath(".//a[contains(@class,'visitable')]"),
		Price: browser.XPath(".//div[contains(@class,'price')]"),
		Bids:  browser.XPath(".//*[self::span or self::small][contains(., 'став')]"),
	}
}

// Project returns the detail page locators.
func (f *Freelancehunt) Project() ProjectSelectors {
	return ProjectSelectors{
		Description:     browser.ID("project-description"),
		PlaceBidButton:  browser.ID("add-bid"),
		MessageInput:    browser.ID("comment-0"),
		DaysInput:       browser.ID("days_to_deliver-0"),
		PriceInput:      browser.ID("amount-0"),
		SubmitBidButton: browser.XPath("//button[@id='add-0' or @id='btn-submit-0']"),
		AlreadyBid: browser.XPath(
			"//*[contains(@class, 'alert-info') and contains(., 'Ви вже зробили ставку на цей проєкт')]"),
		NoMoreBids: browser.XPath(
			"//*[contains(@class, 'alert-info') and contains(., 'Ставки на проєкт не приймаються.')]"),
		TooManyBids: browser.XPath(
			"//*[contains(@class, 'alert-info') and contains(., " +
				"'Ви додали занадто багато ставок за останню добу, почекайте трохи перед додаванням нової ставки.')]"),
		FormError: browser.XPath(
			"//*[contains(@class, 'alert-error') and contains(., 'Будь ласка, виправте помилки у формі нижче.')]"),
		FormErrorText: browser.XPath("//*[contains(@class, 'error-text')]"),
	}
}

// Login returns the login page locators.
func (f *Freelancehunt) Login() LoginSelectors {
	return LoginSelectors{
		EmailInput:    browser.CSS("input[type='text'].form-control"),
		PasswordInput: browser.CSS("input[type='password'].form-control"),
		LoginButton:   browser.CSS("button.btn-auth"),
	}
}

// MFA returns the multi-factor locators.
func (f *Freelancehunt) MFA() MFASelectors {
	return MFASelectors{
		CodeInput:    browser.CSS(".form-control"),
		SubmitButton: browser.CSS(".ladda-button"),
		ErrorAlert:   browser.CSS(".alert-error"),
	}
}
