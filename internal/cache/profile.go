package cache

import (
	"context"
	"time"

	"github.com/emrgen/notes/internal/model"
)

const DefaultTTL = time.Hour

// ProfileCache is a read-through cache for profiles.
// Get returns nil without error on a miss.
type ProfileCache interface {
	// GetProfile gets a profile from the cache.
	GetProfile(ctx context.Context, id string) (*model.Profile, error)
	// SetProfile sets a profile in the cache.
	SetProfile(ctx context.Context, profile *model.Profile) error
	// DeleteProfile evicts a profile from the cache.
	DeleteProfile(ctx context.Context, id string) error
}

func profileKey(id string) string {
	return "profile:" + id
}
