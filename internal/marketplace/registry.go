package marketplace

import (
	"errors"
	"fmt"

	"github.com/netly-dev/gobid/internal/config"
	"github.com/netly-dev/gobid/internal/domain"
)

// ErrUnknownMarketplace is returned when no adapter is registered for
// the requested marketplace.
var ErrUnknownMarketplace = errors.New("unknown marketplace")

// factories maps marketplace identifiers to adapter constructors.
// Adapters register themselves in init.
var factories = map[domain.Marketplace]Factory{}

// Register installs an adapter factory for a marketplace. Panics on a
// duplicate registration: that is a programming error.
func Register(name domain.Marketplace, factory Factory) {
	if _, exists := factories[name]; exists {
		panic(fmt.Sprintf("marketplace %q registered twice", name))
	}
	factories[name] = factory
}

// New builds the adapter for the given marketplace.
func New(name domain.Marketplace, cfg config.MarketplaceConfig) (Adapter, error) {
	factory, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMarketplace, name)
	}
	return factory(cfg), nil
}

// Supported lists the registered marketplaces.
func Supported() []domain.Marketplace {
	names := make([]domain.Marketplace, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	return names
}
