package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/emrgen/notes/internal/compress"
	"github.com/emrgen/notes/internal/model"
	redis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var _ ProfileCache = (*RedisProfileCache)(nil)

// RedisProfileCache stores JSON encoded profiles, compressed with the configured encoder.
type RedisProfileCache struct {
	client  *redis.Client
	encoder compress.Compress
	ttl     time.Duration
}

func NewRedis(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
		Protocol: 2, // Connection protocol
	})
}

func NewRedisProfileCache(client *redis.Client, encoder compress.Compress, ttl time.Duration) *RedisProfileCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisProfileCache{client: client, encoder: encoder, ttl: ttl}
}

func (r *RedisProfileCache) GetProfile(ctx context.Context, id string) (*model.Profile, error) {
	res := r.client.Get(ctx, profileKey(id))
	if res.Err() != nil {
		if errors.Is(res.Err(), redis.Nil) {
			return nil, nil
		}
		return nil, res.Err()
	}

	buf, err := res.Bytes()
	if err != nil {
		return nil, err
	}

	data, err := r.encoder.Decode(buf)
	if err != nil {
		// a corrupted entry is treated as a miss and evicted
		logrus.Warnf("dropping undecodable cache entry %s: %v", id, err)
		_ = r.DeleteProfile(ctx, id)
		return nil, nil
	}

	profile := &model.Profile{}
	if err = json.Unmarshal(data, profile); err != nil {
		return nil, err
	}

	return profile, nil
}

func (r *RedisProfileCache) SetProfile(ctx context.Context, profile *model.Profile) error {
	marshal, err := profile.MarshalBinary()
	if err != nil {
		return err
	}

	data, err := r.encoder.Encode(marshal)
	if err != nil {
		return err
	}

	return r.client.Set(ctx, profileKey(profile.ID), data, r.ttl).Err()
}

func (r *RedisProfileCache) DeleteProfile(ctx context.Context, id string) error {
	return r.client.Del(ctx, profileKey(id)).Err()
}
