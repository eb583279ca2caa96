package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"skybook/internal/config"
	"skybook/internal/domain"
)

// FlightCache is a best-effort read cache for flight search results. Misses
// and transport errors both read as cache misses; the database stays the
// source of truth.
type FlightCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewFlightCache(cfg config.RedisConfig) *FlightCache {
	return &FlightCache{
		client: redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		ttl:    cfg.FlightsCacheTTL,
	}
}

func (c *FlightCache) GetSearch(ctx context.Context, source, destination string, date time.Time) ([]domain.Flight, error) {
	data, err := c.client.Get(ctx, searchKey(source, destination, date)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var flights []domain.Flight
	if err := json.Unmarshal(data, &flights); err != nil {
		return nil, err
	}
	return flights, nil
}

func (c *FlightCache) SetSearch(ctx context.Context, source, destination string, date time.Time, flights []domain.Flight) error {
	payload, err := json.Marshal(flights)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, searchKey(source, destination, date), payload, c.ttl).Err()
}

// Invalidate drops all cached search results; called after admin flight
// mutations and seat-count changes.
func (c *FlightCache) Invalidate(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, "cache:flights:*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func searchKey(source, destination string, date time.Time) string {
	day := ""
	if !date.IsZero() {
		day = date.Format("2006-01-02")
	}
	return fmt.Sprintf("cache:flights:%s:%s:%s",
		strings.ToLower(source), strings.ToLower(destination), day)
}
