package repository

import (
	"context"
	"errors"
	"time"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartRepository persists serialized carts by key. Values are opaque to the repository;
// decoding and recovery from corrupt values belong to the caller.
type CartRepository interface {
	Load(ctx context.Context, key string) (value string, found bool, err error)
	Save(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

type cartRepository struct {
	db *gorm.DB
}

// NewCartRepository stores carts as rows in the kv_entries table.
func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) Load(ctx context.Context, key string) (string, bool, error) {
	logger.Debug("Loading cart from database", map[string]interface{}{
		"key": key,
	})

	var entry model.KVEntry
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		logger.Error("Failed to load cart from database", err, map[string]interface{}{
			"key": key,
		})
		return "", false, err
	}
	return entry.Value, true, nil
}

func (r *cartRepository) Save(ctx context.Context, key, value string) error {
	entry := model.KVEntry{Key: key, Value: value, UpdatedAt: time.Now()}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		logger.Error("Failed to save cart to database", err, map[string]interface{}{
			"key": key,
		})
		return err
	}

	logger.Debug("Cart saved to database", map[string]interface{}{
		"key":   key,
		"bytes": len(value),
	})
	return nil
}

func (r *cartRepository) Delete(ctx context.Context, key string) error {
	if err := r.db.WithContext(ctx).Where("key = ?", key).Delete(&model.KVEntry{}).Error; err != nil {
		logger.Error("Failed to delete cart from database", err, map[string]interface{}{
			"key": key,
		})
		return err
	}
	return nil
}

type redisCartRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCartRepository stores carts as plain string keys. A zero ttl keeps carts forever.
func NewRedisCartRepository(client *redis.Client, ttl time.Duration) CartRepository {
	return &redisCartRepository{client: client, ttl: ttl}
}

func (r *redisCartRepository) Load(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		logger.Error("Failed to load cart from Redis", err, map[string]interface{}{
			"key": key,
		})
		return "", false, err
	}
	return val, true, nil
}

func (r *redisCartRepository) Save(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, key, value, r.ttl).Err(); err != nil {
		logger.Error("Failed to save cart to Redis", err, map[string]interface{}{
			"key": key,
		})
		return err
	}
	return nil
}

func (r *redisCartRepository) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		logger.Error("Failed to delete cart from Redis", err, map[string]interface{}{
			"key": key,
		})
		return err
	}
	return nil
}
