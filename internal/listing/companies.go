package listing

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"jobmate/directory-service/pkg/logging"
)

// CompanySource yields the company filter options.
type CompanySource interface {
	CompanyOptions(ctx context.Context) ([]CompanyOption, error)
}

// StoreCompanies derives company options from the store on every call.
type StoreCompanies struct {
	Store Store
}

// CompanyOptions implements CompanySource.
func (s StoreCompanies) CompanyOptions(ctx context.Context) ([]CompanyOption, error) {
	start := time.Now()
	rows, err := s.Store.CompanyRows(ctx)
	observe("companies", start, err)
	if err != nil {
		return nil, &QueryError{Op: "companies", Err: err}
	}
	return DeriveCompanyOptions(rows), nil
}

// CompanyCacheKey holds the JSON-encoded option list.
const CompanyCacheKey = "listing:companies"

// kv is the subset of the Redis client the cache needs.
type kv interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// CompanyCache reads company options through Redis. Redis failures are
// logged and fall through to the store; they never fail a page load.
type CompanyCache struct {
	rdb    kv
	source StoreCompanies
	ttl    time.Duration
	log    *logging.Logger
}

// NewCompanyCache returns a configured CompanyCache.
func NewCompanyCache(rdb kv, store Store, ttl time.Duration, log *logging.Logger) *CompanyCache {
	return &CompanyCache{
		rdb:    rdb,
		source: StoreCompanies{Store: store},
		ttl:    ttl,
		log:    log.With("component", "company_cache"),
	}
}

// CompanyOptions implements CompanySource.
func (c *CompanyCache) CompanyOptions(ctx context.Context) ([]CompanyOption, error) {
	raw, err := c.rdb.Get(ctx, CompanyCacheKey).Bytes()
	switch {
	case err == nil:
		var opts []CompanyOption
		jerr := json.Unmarshal(raw, &opts)
		if jerr == nil {
			return opts, nil
		}
		c.log.Warn("discarding undecodable company cache entry", "err", jerr)
	case errors.Is(err, redis.Nil):
	default:
		c.log.Warn("company cache read failed", "err", err)
	}
	return c.Refresh(ctx)
}

// Refresh recomputes the options from the store and stores them in Redis.
func (c *CompanyCache) Refresh(ctx context.Context) ([]CompanyOption, error) {
	opts, err := c.source.CompanyOptions(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(opts)
	if err != nil {
		return opts, nil
	}
	if err := c.rdb.Set(ctx, CompanyCacheKey, payload, c.ttl).Err(); err != nil {
		c.log.Warn("company cache write failed", "err", err)
	}
	return opts, nil
}
