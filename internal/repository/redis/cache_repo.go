package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/DRSN-tech/ecospark-backend/internal/cfg"
	"github.com/DRSN-tech/ecospark-backend/internal/repository/redis/converter"
	"github.com/DRSN-tech/ecospark-backend/pkg/clients"
	"github.com/DRSN-tech/ecospark-backend/pkg/e"
	"github.com/DRSN-tech/ecospark-backend/pkg/logger"
	"github.com/jimlawless/whereami"
)

const embeddingKeyPrefix = "embedding:"

// CacheRepo кэширует векторы эмбеддингов в Redis.
type CacheRepo struct {
	client *clients.RedisClient
	conv   converter.EmbeddingConverter
	cfg    *cfg.RedisCfg
	logger logger.Logger
}

func NewCacheRepo(client *clients.RedisClient, conv converter.EmbeddingConverter,
	cfg *cfg.RedisCfg, logger logger.Logger) *CacheRepo {
	return &CacheRepo{
		client: client,
		conv:   conv,
		cfg:    cfg,
		logger: logger,
	}
}

// GetMany возвращает закэшированные векторы по ключам. Промахи в результат не попадают.
func (r *CacheRepo) GetMany(ctx context.Context, keys []string) (map[string][]float32, error) {
	if len(keys) == 0 {
		return map[string][]float32{}, nil
	}

	redisKeys := r.buildEmbeddingKeys(keys)

	values, err := r.client.Client.MGet(ctx, redisKeys...).Result()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	result := make(map[string][]float32, len(values))
	for i, val := range values {
		data, err := redisValueToBytes(val, redisKeys[i])
		if err != nil {
			r.logger.Warnf("%v", e.Wrap(whereami.WhereAmI(), err))
		}

		if data == nil {
			continue // cache miss
		}

		var model converter.EmbeddingRedisModel
		if err := json.Unmarshal(data, &model); err != nil {
			r.logger.Warnf("Redis unmarshal failed: %v", e.Wrap(whereami.WhereAmI(), err))
			continue
		}

		vector, ok := r.conv.ToVector(&model)
		if !ok {
			r.logger.Warnf("Corrupted embedding in cache: key=%s dim=%d len=%d", redisKeys[i], model.Dim, len(model.Vector))
			if err := r.client.Client.Del(ctx, redisKeys[i]).Err(); err != nil {
				r.logger.Warnf("Redis del failed: %v", e.Wrap(whereami.WhereAmI(), err))
			}
			continue // cache miss
		}
		result[keys[i]] = vector
	}

	return result, nil
}

// SetMany кэширует векторы с TTL одним pipeline.
func (r *CacheRepo) SetMany(ctx context.Context, vectors map[string][]float32) error {
	if len(vectors) == 0 {
		return nil
	}

	pipeline := r.client.Client.Pipeline()
	for key, vector := range vectors {
		data, err := json.Marshal(r.conv.ToRedisModel(vector))
		if err != nil {
			r.logger.Warnf("Failed to marshal embedding for caching (key: %s): %v", key, e.Wrap(whereami.WhereAmI(), err))
			continue
		}

		pipeline.Set(ctx, r.embeddingKey(key), data, r.cfg.EmbeddingCacheTTL)
	}

	if _, err := pipeline.Exec(ctx); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (r *CacheRepo) buildEmbeddingKeys(keys []string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = r.embeddingKey(k)
	}

	return out
}

func (r *CacheRepo) embeddingKey(key string) string {
	return embeddingKeyPrefix + key
}

// redisValueToBytes конвертирует значение из Redis в []byte.
// Поддерживает string и []byte, возвращает ошибку для неизвестных типов.
func redisValueToBytes(val interface{}, key string) ([]byte, error) {
	switch v := val.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	case nil:
		return nil, nil // cache miss
	default:
		return nil, fmt.Errorf("unexpected Redis value type for key %s: %T", key, val)
	}
}
