package geolocation

import (
	"github.com/lumamarket/LocalMarketDiscovery/internal/domain/providers"
	"github.com/lumamarket/LocalMarketDiscovery/pkg/config"
)

// NewFromConfig selects the geolocation provider named by configuration.
// Unknown provider names fall back to the mock so a misconfigured
// environment still boots.
func NewFromConfig(cfg config.GeocoderConfig, cache providers.CacheProvider) providers.GeolocationProvider {
	switch cfg.Provider {
	case "nominatim":
		return NewNominatimProvider(cfg.BaseURL, cfg.UserAgent, cache)
	default:
		return NewMockGeolocationProvider()
	}
}
