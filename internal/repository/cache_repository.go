package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"property-tracker/config"
	"property-tracker/internal/model"
	"property-tracker/internal/util"

	"github.com/redis/go-redis/v9"
)

type CacheRepository struct {
	client *config.RedisClient
	ttl    time.Duration
}

func NewCacheRepository(rdb *config.RedisClient, ttl time.Duration) *CacheRepository {
	return &CacheRepository{rdb, ttl}
}

func (r *CacheRepository) SetProperty(ctx context.Context, property *model.Property) error {
	data, err := json.Marshal(property)
	if err != nil {
		return util.LogError("ошибка сериализации объекта", err)
	}

	cmd := r.client.Client.Set(ctx, r.key(property.UUID), data, r.ttl)
	if err = cmd.Err(); err != nil {
		return util.LogError("ошибка сохранения в Redis", err)
	}
	if cmd.Val() != "OK" {
		return fmt.Errorf("неожиданный ответ Redis: %s", cmd.Val())
	}

	return nil
}

func (r *CacheRepository) GetProperty(ctx context.Context, uuid string) (*model.Property, error) {
	val, err := r.client.Client.Get(ctx, r.key(uuid)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil // нет в кэше
	} else if err != nil {
		return nil, util.LogError("ошибка получения объекта из Redis", err)
	}

	var property model.Property
	if err := json.Unmarshal([]byte(val), &property); err != nil {
		return nil, util.LogError("ошибка десериализации объекта из кэша", err)
	}
	return &property, nil
}

func (r *CacheRepository) DeleteProperty(ctx context.Context, uuid string) error {
	if err := r.client.Client.Del(ctx, r.key(uuid)).Err(); err != nil {
		return util.LogError("ошибка удаления объекта из Redis", err)
	}
	return nil
}

func (r *CacheRepository) key(uuid string) string {
	return fmt.Sprintf("property:%s", uuid)
}
