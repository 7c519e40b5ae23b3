package cache

import (
	"context"
	"time"

	"github.com/emrgen/notes/internal/model"
	gocache "github.com/patrickmn/go-cache"
)

var _ ProfileCache = (*MemoryProfileCache)(nil)

// MemoryProfileCache keeps profiles in process memory.
type MemoryProfileCache struct {
	cache *gocache.Cache
}

func NewMemoryProfileCache(ttl time.Duration) *MemoryProfileCache {
	return &MemoryProfileCache{cache: gocache.New(ttl, 2*ttl)}
}

func (m *MemoryProfileCache) GetProfile(ctx context.Context, id string) (*model.Profile, error) {
	v, ok := m.cache.Get(profileKey(id))
	if !ok {
		return nil, nil
	}

	// hand out a copy so callers can't mutate the cached value
	profile := *v.(*model.Profile)
	return &profile, nil
}

func (m *MemoryProfileCache) SetProfile(ctx context.Context, profile *model.Profile) error {
	clone := *profile
	m.cache.SetDefault(profileKey(profile.ID), &clone)
	return nil
}

func (m *MemoryProfileCache) DeleteProfile(ctx context.Context, id string) error {
	m.cache.Delete(profileKey(id))
	return nil
}
