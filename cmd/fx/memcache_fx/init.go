package memcache_fx

import (
	"go.uber.org/fx"

	"gifty/internal/models/response_models"
	"gifty/pkg/maps"
	mem "gifty/pkg/memcache"
)

const maxCachedEntries = 10_000

var Module = fx.Provide(
	provideSuggestionCache,
	provideImageCache,
	provideGeocodeCache,
)

func provideSuggestionCache() mem.Store[[]response_models.GiftSuggestion] {
	return mem.New[[]response_models.GiftSuggestion](mem.WithMaxEntries(maxCachedEntries))
}

func provideImageCache() mem.Store[response_models.ProductImage] {
	return mem.New[response_models.ProductImage](mem.WithMaxEntries(maxCachedEntries))
}

func provideGeocodeCache() mem.Store[maps.LatLng] {
	return mem.New[maps.LatLng](mem.WithMaxEntries(maxCachedEntries))
}
