package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Domenick1991/gymbooking/config"
	"github.com/Domenick1991/gymbooking/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client     *redis.Client
	classesTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, classesTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:     redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		classesTTL: classesTTL,
	}
}

func (c *RedisCache) GetClasses(ctx context.Context) ([]domain.Class, error) {
	data, err := c.client.Get(ctx, classesKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var classes []domain.Class
	if err := json.Unmarshal(data, &classes); err != nil {
		return nil, err
	}
	return classes, nil
}

func (c *RedisCache) SetClasses(ctx context.Context, classes []domain.Class) error {
	payload, err := json.Marshal(classes)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, classesKey(), payload, c.classesTTL).Err()
}

func (c *RedisCache) InvalidateClasses(ctx context.Context) error {
	return c.client.Del(ctx, classesKey()).Err()
}

// PlaceHold reserves the freed seat of a class for a promoted waitlist user.
// Only one hold per class is kept; a second promotion while a hold is live
// degrades to first come, first served.
func (c *RedisCache) PlaceHold(ctx context.Context, classID int64, userID string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, holdKey(classID), userID, ttl).Result()
}

// GetHold returns the user a live hold belongs to, or "" when none exists.
func (c *RedisCache) GetHold(ctx context.Context, classID int64) (string, error) {
	userID, err := c.client.Get(ctx, holdKey(classID)).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", err
	}
	return userID, nil
}

func (c *RedisCache) ReleaseHold(ctx context.Context, classID int64) error {
	return c.client.Del(ctx, holdKey(classID)).Err()
}

func classesKey() string {
	return "cache:classes"
}

func holdKey(classID int64) string {
	return fmt.Sprintf("hold:class:%d", classID)
}
