// Package querycache memoises backend queries per user. Entries live in
// Redis for the stale time, identical in-flight queries share one backend
// call, and mutations drop the entries they affect instead of writing
// into the cache.
package querycache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mansoorceksport/mealturn/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/singleflight"
)

const keyPrefix = "query:"

// PublicScope holds queries whose result does not depend on the caller
const PublicScope = "public"

// AdminScope holds admin listings shared by every admin
const AdminScope = "admin"

// Key identifies a query. Scope is a user id, PublicScope or AdminScope.
type Key struct {
	Scope string
	Parts []string
}

// For builds a key scoped to one user
func For(userID string, parts ...string) Key {
	return Key{Scope: userID, Parts: parts}
}

// Public builds a key shared by every visitor
func Public(parts ...string) Key {
	return Key{Scope: PublicScope, Parts: parts}
}

// Admin builds a key shared by every admin
func Admin(parts ...string) Key {
	return Key{Scope: AdminScope, Parts: parts}
}

func (k Key) String() string {
	return keyPrefix + k.Scope + ":" + strings.Join(k.Parts, ":")
}

// Cache is the query cache
type Cache struct {
	store      *Store
	group      singleflight.Group
	staleTime  time.Duration
	retryDelay time.Duration
	logger     zerolog.Logger
	hits       metric.Int64Counter
	misses     metric.Int64Counter
}

// New creates a query cache on client keeping results for staleTime
func New(client *redis.Client, staleTime time.Duration, logger zerolog.Logger) *Cache {
	meter := otel.Meter("mealturn-querycache")
	hits, _ := meter.Int64Counter("querycache.hits")
	misses, _ := meter.Int64Counter("querycache.misses")

	return &Cache{
		store:      NewStore(client),
		staleTime:  staleTime,
		retryDelay: 300 * time.Millisecond,
		logger:     logger.With().Str("component", "querycache").Logger(),
		hits:       hits,
		misses:     misses,
	}
}

// SetRetryDelay changes the pause before a failed query is retried
func (c *Cache) SetRetryDelay(d time.Duration) {
	c.retryDelay = d
}

// Fetch returns the cached result of key, running fn on a miss. Concurrent
// callers of the same key wait for a single fn call. A failed fn is retried
// once unless the backend rejected the session.
func Fetch[T any](ctx context.Context, c *Cache, key Key, fn func(ctx context.Context) (T, error)) (T, error) {
	k := key.String()
	attrs := metric.WithAttributes(attribute.String("query.scope", scopeLabel(key.Scope)))

	var cached T
	err := c.store.Get(ctx, k, &cached)
	if err == nil {
		c.hits.Add(ctx, 1, attrs)
		return cached, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		c.logger.Warn().Err(err).Str("key", k).Msg("query cache read failed")
	}
	c.misses.Add(ctx, 1, attrs)

	v, err, shared := c.group.Do(k, func() (interface{}, error) {
		result, err := c.run(ctx, k, func(ctx context.Context) (interface{}, error) {
			return fn(ctx)
		})
		if err != nil {
			return nil, err
		}
		if err := c.store.Set(ctx, k, result, c.staleTime); err != nil {
			c.logger.Warn().Err(err).Str("key", k).Msg("query cache write failed")
		}
		return result, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	if shared {
		c.logger.Debug().Str("key", k).Msg("query shared with in-flight call")
	}

	result, ok := v.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("query %s returned %T", k, v)
	}
	return result, nil
}

func (c *Cache) run(ctx context.Context, key string, fn func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	result, err := fn(ctx)
	if err == nil || errors.Is(err, domain.ErrUnauthorized) {
		return result, err
	}

	c.logger.Debug().Err(err).Str("key", key).Msg("query failed, retrying once")
	select {
	case <-ctx.Done():
		return nil, err
	case <-time.After(c.retryDelay):
	}
	return fn(ctx)
}

// Invalidate drops cached queries of a scope whose first key part is one
// of names. No names drops the whole scope.
func (c *Cache) Invalidate(ctx context.Context, scope string, names ...string) error {
	prefixes := make([]string, 0, len(names))
	if len(names) == 0 {
		prefixes = append(prefixes, keyPrefix+scope+":")
	}
	for _, name := range names {
		prefixes = append(prefixes, keyPrefix+scope+":"+name)
	}

	var errs []error
	for _, prefix := range prefixes {
		if _, err := c.store.DeletePrefix(ctx, prefix); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// scopeLabel keeps user ids out of metric cardinality
func scopeLabel(scope string) string {
	if scope == PublicScope || scope == AdminScope {
		return scope
	}
	return "user"
}
