package services

import (
	"context"
	"strings"
	"time"

	"gifty/internal/models/response_models"
	"gifty/pkg/imagesearch"
	"gifty/pkg/memcache"
	"gifty/pkg/metrics"
	"gifty/pkg/utils"
	"gifty/pkg/validation"
)

const (
	imageResultLimit    = 10
	noImagesFoundReason = "No product images found"
)

type ImageServiceInterface interface {
	Find(ctx context.Context, giftName string) (*response_models.ProductImage, error)
}

type ImageService struct {
	searcher imagesearch.Searcher
	cache    memcache.Store[response_models.ProductImage]
	ttl      time.Duration
	metrics  *metrics.SuggestionMetrics
}

// NewImageService accepts a nil searcher; Find then fails with utils.ErrFeatureDisabled.
func NewImageService(searcher imagesearch.Searcher, cache memcache.Store[response_models.ProductImage], ttl time.Duration, m *metrics.SuggestionMetrics) ImageServiceInterface {
	return &ImageService{searcher: searcher, cache: cache, ttl: ttl, metrics: m}
}

// Find returns the highest resolution product photo for the gift. An empty result is not an
// error: the response carries the reason instead.
func (s *ImageService) Find(ctx context.Context, giftName string) (*response_models.ProductImage, error) {
	giftName = strings.TrimSpace(giftName)
	if giftName == "" {
		return nil, validation.Field("q", "is required")
	}
	if s.searcher == nil {
		return nil, utils.ErrFeatureDisabled
	}

	query := giftName + " product photo"
	if cached, ok := s.cache.Get(query); ok {
		return &cached, nil
	}

	images, err := s.searcher.Search(ctx, query, imageResultLimit)
	s.metrics.IncExternal("custom_search", err)
	if err != nil {
		return nil, err
	}

	result := response_models.ProductImage{Title: giftName, Error: noImagesFoundReason}
	if best, ok := largest(images); ok {
		result = response_models.ProductImage{Title: best.Title, ImageURL: best.Link}
		if result.Title == "" {
			result.Title = giftName
		}
	}
	s.cache.Set(query, result, s.ttl)
	return &result, nil
}

// largest keeps the first image among equals.
func largest(images []imagesearch.Image) (imagesearch.Image, bool) {
	var best imagesearch.Image
	found := false
	for _, img := range images {
		if img.Link == "" {
			continue
		}
		if !found || img.Pixels() > best.Pixels() {
			best = img
			found = true
		}
	}
	return best, found
}
