package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netly-dev/gobid/internal/config"
	"github.com/netly-dev/gobid/internal/domain"
)

func validConfig() *config.Config {
	return &config.Config{
		AI: config.AIConfig{
			APIKey:   "sk-or-test",
			MaxTries: 3,
		},
		Bid: config.BidConfig{
			DefaultPrice:    5000,
			DefaultCurrency: "UAH",
			DefaultDays:     1,
		},
		Marketplaces: map[domain.Marketplace]config.MarketplaceConfig{
			domain.MarketplaceFreelancehunt: {
				LoginURL:    "https://freelancehunt.com/profile/login",
				ProjectsURL: "https://freelancehunt.com/projects?skills[]=1",
				Email:       "dev@netly.pp.ua",
				Password:    "secret",
			},
		},
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	t.Run("valid configuration passes", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, validConfig().Validate(domain.MarketplaceFreelancehunt))
	})

	t.Run("unknown marketplace fails", func(t *testing.T) {
		t.Parallel()
		err := validConfig().Validate("upwork")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown marketplace")
	})

	t.Run("missing credentials fail", func(t *testing.T) {
		t.Parallel()

		cfg := validConfig()
		mp := cfg.Marketplaces[domain.MarketplaceFreelancehunt]
		mp.Password = ""
		cfg.Marketplaces[domain.MarketplaceFreelancehunt] = mp

		require.Error(t, cfg.Validate(domain.MarketplaceFreelancehunt))
	})

	t.Run("missing listing URL fails", func(t *testing.T) {
		t.Parallel()

		cfg := validConfig()
		mp := cfg.Marketplaces[domain.MarketplaceFreelancehunt]
		mp.ProjectsURL = ""
		cfg.Marketplaces[domain.MarketplaceFreelancehunt] = mp

		require.Error(t, cfg.Validate(domain.MarketplaceFreelancehunt))
	})

	t.Run("missing API key fails", func(t *testing.T) {
		t.Parallel()

		cfg := validConfig()
		cfg.AI.APIKey = ""
		require.Error(t, cfg.Validate(domain.MarketplaceFreelancehunt))
	})

	t.Run("zero retry bound fails", func(t *testing.T) {
		t.Parallel()

		cfg := validConfig()
		cfg.AI.MaxTries = 0
		require.Error(t, cfg.Validate(domain.MarketplaceFreelancehunt))
	})
}
