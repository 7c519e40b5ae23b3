package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/emrgen/notes/internal/compress"
	"github.com/emrgen/notes/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProfile() *model.Profile {
	return &model.Profile{
		ID:      uuid.New().String(),
		Title:   "Dana",
		Content: "Name: Dana",
	}
}

func exerciseCache(t *testing.T, c ProfileCache) {
	ctx := context.TODO()
	profile := testProfile()

	got, err := c.GetProfile(ctx, profile.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, c.SetProfile(ctx, profile))

	got, err = c.GetProfile(ctx, profile.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, profile.Title, got.Title)
	assert.Equal(t, profile.Content, got.Content)

	require.NoError(t, c.DeleteProfile(ctx, profile.ID))

	got, err = c.GetProfile(ctx, profile.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryProfileCache(t *testing.T) {
	exerciseCache(t, NewMemoryProfileCache(time.Minute))
}

func TestMemoryProfileCache_ReturnsCopy(t *testing.T) {
	c := NewMemoryProfileCache(time.Minute)
	profile := testProfile()
	require.NoError(t, c.SetProfile(context.TODO(), profile))

	got, err := c.GetProfile(context.TODO(), profile.ID)
	require.NoError(t, err)
	got.Title = "changed"

	again, err := c.GetProfile(context.TODO(), profile.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dana", again.Title)
}

func TestNop(t *testing.T) {
	c := NewNop()
	require.NoError(t, c.SetProfile(context.TODO(), testProfile()))
	got, err := c.GetProfile(context.TODO(), "any")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisProfileCache(t *testing.T) {
	addr := os.Getenv("NOTES_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("NOTES_TEST_REDIS_ADDR not set")
	}

	client := NewRedis(addr, "", 0)
	defer client.Close()

	exerciseCache(t, NewRedisProfileCache(client, compress.NewGZip(), time.Minute))
}
