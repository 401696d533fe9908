package marketplace_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netly-dev/gobid/internal/config"
	"github.com/netly-dev/gobid/internal/domain"
	"github.com/netly-dev/gobid/internal/marketplace"
)

func TestRegistry_New(t *testing.T) {
	t.Parallel()

	t.Run("builds the freelancehunt adapter", func(t *testing.T) {
		t.Parallel()

		adapter, err := marketplace.New(domain.MarketplaceFreelancehunt, config.MarketplaceConfig{
			LoginURL:    "https://freelancehunt.com/profile/login",
			ProjectsURL: "https://freelancehunt.com/projects?skills[]=1",
			Email:       "dev@netly.pp.ua",
			Password:    "secret",
		})
		require.NoError(t, err)

		assert.Equal(t, domain.MarketplaceFreelancehunt, adapter.Name())
		assert.Equal(t, "https://freelancehunt.com/profile/login", adapter.LoginURL())
		assert.True(t, adapter.RequiresMFA())

		creds := adapter.Credentials()
		assert.Equal(t, "dev@netly.pp.ua", creds.Email)
		assert.Equal(t, "secret", creds.Password)
	})

	t.Run("builds the freelancer adapter", func(t *testing.T) {
		t.Parallel()

		adapter, err := marketplace.New(domain.MarketplaceFreelancer, config.MarketplaceConfig{
			LoginURL:    "https://www.freelancer.com/login",
			ProjectsURL: "https://www.freelancer.com/search/projects?q=web",
		})
		require.NoError(t, err)

		assert.Equal(t, domain.MarketplaceFreelancer, adapter.Name())
		assert.False(t, adapter.RequiresMFA())
	})

	t.Run("unknown marketplace is an error", func(t *testing.T) {
		t.Parallel()

		_, err := marketplace.New("upwork", config.MarketplaceConfig{})
		require.ErrorIs(t, err, marketplace.ErrUnknownMarketplace)
	})
}

func TestRegistry_Supported(t *testing.T) {
	t.Parallel()

	supported := marketplace.Supported()
	assert.Contains(t, supported, domain.MarketplaceFreelancehunt)
	assert.Contains(t, supported, domain.MarketplaceFreelancer)
}

func TestListingURL_Pagination(t *testing.T) {
	t.Parallel()

	adapter, err := marketplace.New(domain.MarketplaceFreelancehunt, config.MarketplaceConfig{
		ProjectsURL: "https://freelancehunt.com/projects?skills[]=1",
	})
	require.NoError(t, err)

	assert.Equal(t,
		"https://freelancehunt.com/projects?skills[]=1&page=2",
		adapter.ListingURL(2))
}
