// Package respcache caches recommendation responses in the key-value store.
package respcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/kailas-cloud/libsearch/internal/db"
	"github.com/kailas-cloud/libsearch/internal/domain"
	"github.com/kailas-cloud/libsearch/internal/domain/recommendation"
)

var cacheKeyPrefix = domain.KeyPrefix + "rec_cache:"

// Recommender is the decorated operation.
type Recommender interface {
	Recommend(ctx context.Context, topic string, count int) ([]recommendation.Resource, error)
}

// store is the consumer interface for the response cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedRecommender serves repeated topic lookups from the store.
type CachedRecommender struct {
	inner      Recommender
	store      store
	name       string
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator. name separates key spaces of different recommenders.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner Recommender,
	s store,
	name string,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedRecommender {
	return &CachedRecommender{
		inner:      inner,
		store:      s,
		name:       name,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Recommend returns a cached response or calls the inner recommender.
// Empty results are not cached so a recovering provider is picked up on the next call.
func (c *CachedRecommender) Recommend(ctx context.Context, topic string, count int) ([]recommendation.Resource, error) {
	key := c.cacheKey(topic, count)

	if res, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return res, nil
	}

	c.incCache("miss")

	res, err := c.inner.Recommend(ctx, topic, count)
	if err != nil {
		return nil, fmt.Errorf("recommend: %w", err)
	}

	if len(res) > 0 {
		c.putToCache(ctx, key, res)
	}
	return res, nil
}

func (c *CachedRecommender) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

// cacheKey folds case, surrounding space and Unicode composition only. Accents and
// non-Latin scripts stay part of the key since providers see the topic verbatim.
func (c *CachedRecommender) cacheKey(topic string, count int) string {
	id := strings.ToLower(strings.TrimSpace(norm.NFC.String(topic)))
	h := sha256.Sum256([]byte(id + "|" + strconv.Itoa(count)))
	return cacheKeyPrefix + c.name + ":" + hex.EncodeToString(h[:])
}

func (c *CachedRecommender) getFromCache(ctx context.Context, key string) ([]recommendation.Resource, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached recommendations", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}

	var res []recommendation.Resource
	if err := json.Unmarshal(data, &res); err != nil {
		c.logger.Warn("Failed to parse cached recommendations", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return res, true
}

func (c *CachedRecommender) putToCache(ctx context.Context, key string, res []recommendation.Resource) {
	data, err := json.Marshal(res)
	if err != nil {
		c.logger.Warn("Failed to encode recommendations", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache recommendations", zap.String("key", key), zap.Error(err))
	}
}
