package marketplace

import (
	"fmt"

	"github.com/netly-dev/gobid/internal/browser"
	"github.com/netly-dev/gobid/internal/config"
	"github.com/netly-dev/gobid/internal/domain"
)

func init() {
	Register(domain.MarketplaceFreelancer, NewFreelancer)
}

// Freelancer is the freelancer.com adapter.
type Freelancer struct {
	cfg config.MarketplaceConfig
}

// NewFreelancer creates the freelancer adapter.
func NewFreelancer(cfg config.MarketplaceConfig) Adapter {
	return &Freelancer{cfg: cfg}
}

// Name identifies the marketplace.
func (f *Freelancer) Name() domain.Marketplace {
	return domain.MarketplaceFreelancer
}

// LoginURL returns the login page URL.
func (f *Freelancer) LoginURL() string {
	return f.cfg.LoginURL
}

// ListingURL returns the listing page URL for the given page number.
func (f *Freelancer) ListingURL(page int) string {
	return fmt.Sprintf("%s&page=%d", f.cfg.ProjectsURL, page)
}

// Credentials returns the account credentials.
func (f *Freelancer) Credentials() Credentials {
	return Credentials{Email: f.cfg.Email, Password: f.cfg.Password}
}

// RequiresMFA reports whether login may present a multi-factor
// challenge. Freelancer logins do not present one.
func (f *Freelancer) RequiresMFA() bool {
	return false
}

// Listing returns the listing page locators.
func (f *Freelancer) Listing() ListingSelectors {
	return ListingSelectors{
		Rows:  browser.XPath("//ng-trigger[contains(@class,'ng-trigger-slideInHorizontalAnimation')]/div"),
		Title: browser.XPath(".//h2[contains(@class,'text-color-inherit text-mid Title-text')]"),
		Price: browser.XPath(".//div[contains(@class,'price')]"),
		Bids:  browser.XPath(".//*[self::span or self::small][contains(., 'став')]"),
	}
}

// Project returns the detail page locators.
func (f *Freelancer) Project() ProjectSelectors {
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
func (f *Freelancer) Login() LoginSelectors {
	return LoginSelectors{
		EmailInput:    browser.CSS("input[type='text'].form-control"),
		PasswordInput: browser.CSS("input[type='password'].form-control"),
		LoginButton:   browser.CSS("button.btn-auth"),
	}
}

// MFA returns the multi-factor locators.
func (f *Freelancer) MFA() MFASelectors {
	return MFASelectors{}
}
