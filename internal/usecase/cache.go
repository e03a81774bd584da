package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rail-fusion/internal/domain"
	"github.com/rail-fusion/internal/domain/repository"
)

// Префиксы ключей кеша запросов, CacheKeyPrefix сбрасывается после каждого запуска
const (
	CacheKeyPrefix    = "railfusion:"
	segmentsKeyPrefix = CacheKeyPrefix + "segments:"
	stationsKeyPrefix = CacheKeyPrefix + "stations:"
	chartsKeyPrefix   = CacheKeyPrefix + "charts:"
	runsKeyPrefix     = CacheKeyPrefix + "runs:"
)

func segmentsKey(f domain.SegmentFilter) string {
	codes := append([]string(nil), f.LineCodes...)
	sort.Strings(codes)
	return fmt.Sprintf("%s%s:%s", segmentsKeyPrefix, strings.Join(codes, ","), optInt(f.MinSpeed))
}

func stationYearsKey(f domain.StationYearFilter) string {
	codes := append([]string(nil), f.StationCodes...)
	sort.Strings(codes)
	years := append([]int(nil), f.Years...)
	sort.Ints(years)
	return fmt.Sprintf("%s%s:%v:%s:%s:%d",
		stationsKeyPrefix, strings.Join(codes, ","), years, f.Region, optInt(f.MinTravelers), f.Limit)
}

func optInt(v *int64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprint(*v)
}

// queryCache - кеш JSON ответов, ошибки Redis не прерывают запрос
type queryCache struct {
	repo   repository.CacheRepository
	ttl    time.Duration
	logger *zap.Logger
}

func (c *queryCache) get(ctx context.Context, key string, dst interface{}) bool {
	if c.repo == nil {
		return false
	}
	data, err := c.repo.Get(ctx, key)
	if err != nil {
		c.logger.Warn("Failed to read query cache", zap.String("key", key), zap.Error(err))
		return false
	}
	if data == nil {
		return false
	}
	if raw, ok := dst.(*[]byte); ok {
		*raw = data
		return true
	}
	if err := json.Unmarshal(data, dst); err != nil {
		c.logger.Warn("Failed to decode cached value", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (c *queryCache) set(ctx context.Context, key string, value interface{}) {
	if c.repo == nil {
		return
	}
	data, ok := value.([]byte)
	if !ok {
		var err error
		if data, err = json.Marshal(value); err != nil {
			c.logger.Warn("Failed to encode value for cache", zap.String("key", key), zap.Error(err))
			return
		}
	}
	if err := c.repo.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to write query cache", zap.String("key", key), zap.Error(err))
	}
}
