package cache

import (
	"context"

	"github.com/emrgen/notes/internal/model"
)

var _ ProfileCache = Nop{}

type Nop struct{}

func NewNop() Nop {
	return Nop{}
}

func (Nop) GetProfile(ctx context.Context, id string) (*model.Profile, error) {
	return nil, nil
}

func (Nop) SetProfile(ctx context.Context, profile *model.Profile) error {
	return nil
}

func (Nop) DeleteProfile(ctx context.Context, id string) error {
	return nil
}
