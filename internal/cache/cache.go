// Package cache stores computed report responses in redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/segyhp/loan-reports/internal/domain"
	"github.com/segyhp/loan-reports/internal/filter"
	customError "github.com/segyhp/loan-reports/pkg/errors"
)

const (
	keyPrefix = "loan-reports:v2"

	// absentBound stands in for a start or end date the request did not give.
	absentBound = "-"
)

// Cache kinds.
const (
	KindCatalogue = "catalogue"
	KindDetail    = "detail"
)

// ReportCache is a JSON cache over redis. A nil *ReportCache, or one built
// without a client, misses on every Get and drops every Set.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

func New(client *redis.Client, ttl time.Duration) *ReportCache {
	return &ReportCache{client: client, ttl: ttl}
}

// Enabled reports whether the cache is backed by redis.
func (c *ReportCache) Enabled() bool {
	return c != nil && c.client != nil
}

// Get decodes the cached value at key into dest. It returns false on a miss.
func (c *ReportCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}
	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, customError.WrapCacheError(err)
	}
	if err := json.Unmarshal(val, dest); err != nil {
		return false, customError.WrapCacheError(err)
	}
	return true, nil
}

// Set stores value at key for the configured TTL.
func (c *ReportCache) Set(ctx context.Context, key string, value any) error {
	if !c.Enabled() {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return customError.WrapCacheError(err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return customError.WrapCacheError(err)
	}
	return nil
}

// Key identifies one response. Everything that changes the output is part of
// the key: the view, the report, the filters as given, the upcoming variant
// and the evaluation date. Absent bounds are keyed apart from explicit ones
// because the echoed filters and detail links differ.
func Key(kind, reportID string, f filter.Filters, variant filter.UpcomingVariant, today domain.Date) string {
	parts := []string{keyPrefix, kind}
	if reportID != "" {
		parts = append(parts, reportID)
	}
	parts = append(parts, boundKey(f.StartDate), boundKey(f.EndDate), string(variant), today.String())
	return strings.Join(parts, ":")
}

func boundKey(d *domain.Date) string {
	if d == nil {
		return absentBound
	}
	return d.String()
}
