package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"escalas/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type CacheService interface {
	// Church caching
	GetChurch(ctx context.Context, churchID uuid.UUID) (*models.Church, error)
	SetChurch(ctx context.Context, church *models.Church, ttl time.Duration) error
	DeleteChurch(ctx context.Context, churchID uuid.UUID) error

	// Dashboard stats caching
	GetDashboardStats(ctx context.Context, churchID uuid.UUID) (map[string]interface{}, error)
	SetDashboardStats(ctx context.Context, churchID uuid.UUID, stats map[string]interface{}, ttl time.Duration) error

	// Cache invalidation
	InvalidateChurchCache(ctx context.Context, churchID uuid.UUID) error

	// Rate limiting
	IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error)

	// Generic string operations for token management
	SetString(ctx context.Context, key string, value string, ttl time.Duration) error
	GetString(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	// Accept redis://host:port and rediss://host:port forms too
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	}

	return &redisCacheService{client: client}
}

func (r *redisCacheService) GetChurch(ctx context.Context, churchID uuid.UUID) (*models.Church, error) {
	key := fmt.Sprintf("escalas:church:%s", churchID.String())
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var church models.Church
	if err := json.Unmarshal(data, &church); err != nil {
		return nil, err
	}
	return &church, nil
}

func (r *redisCacheService) SetChurch(ctx context.Context, church *models.Church, ttl time.Duration) error {
	key := fmt.Sprintf("escalas:church:%s", church.ID.String())
	data, err := json.Marshal(church)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) DeleteChurch(ctx context.Context, churchID uuid.UUID) error {
	key := fmt.Sprintf("escalas:church:%s", churchID.String())
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) GetDashboardStats(ctx context.Context, churchID uuid.UUID) (map[string]interface{}, error) {
	key := fmt.Sprintf("escalas:stats:%s", churchID.String())
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var stats map[string]interface{}
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *redisCacheService) SetDashboardStats(ctx context.Context, churchID uuid.UUID, stats map[string]interface{}, ttl time.Duration) error {
	key := fmt.Sprintf("escalas:stats:%s", churchID.String())
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) InvalidateChurchCache(ctx context.Context, churchID uuid.UUID) error {
	patterns := []string{
		fmt.Sprintf("escalas:church:%s", churchID.String()),
		fmt.Sprintf("escalas:stats:%s", churchID.String()),
	}

	for _, pattern := range patterns {
		keys, err := r.client.Keys(ctx, pattern).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *redisCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	cacheKey := fmt.Sprintf("escalas:ratelimit:%s", key)
	count, err := r.client.Incr(ctx, cacheKey).Result()
	if err != nil {
		return true, err
	}

	// Set expiry on first request
	if count == 1 {
		r.client.Expire(ctx, cacheKey, window)
	}

	return count > int64(limit), nil
}

func (r *redisCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisCacheService) GetString(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil // cache miss
		}
		return "", err
	}
	return val, nil
}

func (r *redisCacheService) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}
