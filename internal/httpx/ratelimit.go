package httpx

import (
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"

	"jobmate/directory-service/pkg/logging"
)

// RateLimit limits requests per client IP. formatted uses limiter's
// "<limit>-<period>" syntax, e.g. "10-H". Counters live in Redis when rdb is
// non-nil, otherwise in process memory.
func RateLimit(formatted, prefix string, rdb *redis.Client, log *logging.Logger) (func(http.Handler) http.Handler, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, fmt.Errorf("rate %q: %w", formatted, err)
	}

	var store limiter.Store
	if rdb != nil {
		store, err = sredis.NewStoreWithOptions(rdb, limiter.StoreOptions{Prefix: prefix})
		if err != nil {
			log.Warn("redis rate limit store unavailable, falling back to memory", "err", err)
			store = nil
		}
	}
	if store == nil {
		store = memory.NewStoreWithOptions(limiter.StoreOptions{Prefix: prefix})
	}

	instance := limiter.New(store, rate, limiter.WithTrustForwardHeader(true))
	mw := stdlib.NewMiddleware(instance, stdlib.WithLimitReachedHandler(func(w http.ResponseWriter, r *http.Request) {
		JSONError(w, "Too many requests. Please try again later.", http.StatusTooManyRequests)
	}))
	return mw.Handler, nil
}
