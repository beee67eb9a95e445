package utils

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

const (
	feedContentKeyPrefix = "feed_content:"
	DefaultFeedCacheTTL  = 10 * time.Minute
)

// RedisFeedStore caches the last materialized feed of every viewer so reads
// don't need to hit the database.
type RedisFeedStore struct {
	client *redis.Client
	ttl    time.Duration
}

func GetRedisFeedStore() (*RedisFeedStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     GetEnv("REDIS_ADDR", "localhost:6379"),
		Password: GetEnv("REDIS_PASSWORD", ""),
		DB:       GetEnvInt("REDIS_DB", 0),
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, errors.Wrap(err, "fail to connect to redis")
	}
	return NewRedisFeedStore(client, GetEnvDuration("FEED_CACHE_TTL", DefaultFeedCacheTTL)), nil
}

func NewRedisFeedStore(client *redis.Client, ttl time.Duration) *RedisFeedStore {
	return &RedisFeedStore{client: client, ttl: ttl}
}

func feedContentKey(viewerId string) string {
	return feedContentKeyPrefix + viewerId
}

// SetFeedContent replaces the cached feed of viewerId.
func (r *RedisFeedStore) SetFeedContent(ctx context.Context, viewerId string, freetIds []string) error {
	if freetIds == nil {
		freetIds = []string{}
	}
	bytes, err := json.Marshal(freetIds)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, feedContentKey(viewerId), bytes, r.ttl).Err(); err != nil {
		return errors.Wrapf(err, "fail to cache feed of viewer %s", viewerId)
	}
	return nil
}

// GetFeedContent returns the cached feed, the boolean is false on cache miss.
func (r *RedisFeedStore) GetFeedContent(ctx context.Context, viewerId string) ([]string, bool, error) {
	val, err := r.client.Get(ctx, feedContentKey(viewerId)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "fail to read cached feed of viewer %s", viewerId)
	}
	var freetIds []string
	if err := json.Unmarshal(val, &freetIds); err != nil {
		return nil, false, err
	}
	return freetIds, true, nil
}

func (r *RedisFeedStore) InvalidateFeedContent(ctx context.Context, viewerId string) error {
	return r.client.Del(ctx, feedContentKey(viewerId)).Err()
}
