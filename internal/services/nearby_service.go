package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/multierr"

	"gifty/internal/models/response_models"
	"gifty/pkg/logger"
	"gifty/pkg/maps"
	"gifty/pkg/memcache"
	"gifty/pkg/metrics"
	"gifty/pkg/utils"
	"gifty/pkg/validation"
)

// PlacesClient is the part of the maps client the store finder needs.
type PlacesClient interface {
	Geocode(ctx context.Context, address string) (maps.Place, error)
	SearchText(ctx context.Context, req maps.SearchRequest) ([]maps.Place, error)
}

type NearbyServiceInterface interface {
	Find(ctx context.Context, location, gift string) (*response_models.NearbyStoresResponse, error)
}

type NearbyOptions struct {
	RadiusMeters float64
	StoreTypes   []string
	GeocodeTTL   time.Duration
}

type NearbyService struct {
	places  PlacesClient
	geocode memcache.Store[maps.LatLng]
	opts    NearbyOptions
	metrics *metrics.SuggestionMetrics
	log     *logger.Logger
}

// NewNearbyService accepts a nil client; Find then fails with utils.ErrFeatureDisabled.
func NewNearbyService(places PlacesClient, geocode memcache.Store[maps.LatLng], opts NearbyOptions, m *metrics.SuggestionMetrics, log *logger.Logger) NearbyServiceInterface {
	if opts.RadiusMeters <= 0 {
		opts.RadiusMeters = 5000
	}
	if len(opts.StoreTypes) == 0 {
		opts.StoreTypes = []string{"shopping_mall", "store", "department_store", "electronics_store", "home_goods_store"}
	}
	return &NearbyService{places: places, geocode: geocode, opts: opts, metrics: m, log: log}
}

// Find searches every configured store type around the location. A type that fails is
// skipped; the call fails only when all of them do.
func (s *NearbyService) Find(ctx context.Context, location, gift string) (*response_models.NearbyStoresResponse, error) {
	location = strings.TrimSpace(location)
	gift = strings.TrimSpace(gift)
	fields := map[string]string{}
	if location == "" {
		fields["location"] = "is required"
	}
	if gift == "" {
		fields["gift"] = "is required"
	}
	if len(fields) > 0 {
		return nil, &validation.Error{Fields: fields}
	}
	if s.places == nil {
		return nil, utils.ErrFeatureDisabled
	}

	center, err := s.resolve(ctx, location)
	if err != nil {
		return nil, err
	}

	var errs error
	nearest := map[string]response_models.NearbyStore{}
	for _, storeType := range s.opts.StoreTypes {
		places, err := s.places.SearchText(ctx, maps.SearchRequest{
			Query:        gift,
			IncludedType: storeType,
			Center:       &center,
			RadiusMeters: s.opts.RadiusMeters,
		})
		s.metrics.IncExternal("places", err)
		if err != nil {
			s.log.Zerolog(ctx).Warn().Err(err).Str("type", storeType).Msg("store search failed")
			errs = multierr.Append(errs, err)
			continue
		}
		for _, p := range places {
			if p.Name == "" || p.FormattedAddress == "" {
				continue
			}
			meters := maps.DistanceMeters(center, p.Location)
			if meters > s.opts.RadiusMeters {
				continue
			}
			if existing, ok := nearest[p.Name]; ok && existing.DistanceMeter <= meters {
				continue
			}
			nearest[p.Name] = response_models.NearbyStore{
				PlaceID:       p.ID,
				Name:          p.Name,
				Address:       p.FormattedAddress,
				Rating:        p.Rating,
				Type:          storeType,
				Distance:      maps.FormatKilometers(meters),
				DistanceMeter: meters,
				DirectionsURL: maps.DirectionsURL(location, p.FormattedAddress, p.ID),
			}
		}
	}
	if errs != nil && len(multierr.Errors(errs)) == len(s.opts.StoreTypes) {
		return nil, errs
	}

	stores := make([]response_models.NearbyStore, 0, len(nearest))
	for _, store := range nearest {
		stores = append(stores, store)
	}
	sort.Slice(stores, func(i, j int) bool {
		if stores[i].DistanceMeter == stores[j].DistanceMeter {
			return stores[i].Name < stores[j].Name
		}
		return stores[i].DistanceMeter < stores[j].DistanceMeter
	})
	return &response_models.NearbyStoresResponse{Location: location, Gift: gift, Stores: stores}, nil
}

func (s *NearbyService) resolve(ctx context.Context, location string) (maps.LatLng, error) {
	key := strings.ToLower(location)
	if c, ok := s.geocode.Get(key); ok {
		return c, nil
	}
	place, err := s.places.Geocode(ctx, location)
	s.metrics.IncExternal("geocode", err)
	if err != nil {
		return maps.LatLng{}, err
	}
	s.geocode.Set(key, place.Location, s.opts.GeocodeTTL)
	return place.Location, nil
}
