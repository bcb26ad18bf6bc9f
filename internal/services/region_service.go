package services

import (
	"context"
	"encoding/json"
	"errors"

	"gifty/internal/repositories"
	"gifty/pkg/region"
	"gifty/pkg/utils"
)

type RegionServiceInterface interface {
	Get(ctx context.Context, sessionID string) (region.Settings, error)
	Set(ctx context.Context, sessionID, value string) (region.Settings, error)
}

type RegionService struct {
	slots    repositories.SlotStore
	fallback region.Region
}

func NewRegionService(slots repositories.SlotStore, fallback region.Region) RegionServiceInterface {
	if !fallback.Valid() {
		fallback = region.Default
	}
	return &RegionService{slots: slots, fallback: fallback}
}

// Get returns the session's region, or the configured default when none (or garbage) is stored.
func (s *RegionService) Get(ctx context.Context, sessionID string) (region.Settings, error) {
	raw, err := s.slots.Get(ctx, sessionID, repositories.SlotRegion)
	if errors.Is(err, utils.ErrSlotNotFound) {
		return region.For(s.fallback), nil
	}
	if err != nil {
		return region.Settings{}, err
	}

	var stored string
	if json.Unmarshal(raw, &stored) != nil {
		return region.For(s.fallback), nil
	}
	r, err := region.Parse(stored)
	if err != nil {
		return region.For(s.fallback), nil
	}
	return region.For(r), nil
}

func (s *RegionService) Set(ctx context.Context, sessionID, value string) (region.Settings, error) {
	r, err := region.Parse(value)
	if err != nil {
		return region.Settings{}, err
	}
	raw, _ := json.Marshal(r.String())
	if err := s.slots.Put(ctx, sessionID, repositories.SlotRegion, raw); err != nil {
		return region.Settings{}, err
	}
	return region.For(r), nil
}
