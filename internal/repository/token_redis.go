package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"property-tracker/config"
	"property-tracker/internal/model"
	"property-tracker/internal/util"

	"github.com/redis/go-redis/v9"
)

// RedisTokenStore : хранилище refresh-токенов в Redis.
// Запись живёт ещё сутки после истечения, чтобы Validate успевал вернуть
// причину expired, а не not found; после выселения токен всё равно отклоняется.
type RedisTokenStore struct {
	client *config.RedisClient
}

const (
	redisTokenGrace = 24 * time.Hour

	// redisTxAttempts : сколько раз перечитывать ключ после срыва WATCH
	redisTxAttempts = 3
)

// watchRetry : повторяет оптимистическую транзакцию при срыве WATCH.
// Любой другой исход, включая успех, возвращается сразу.
func watchRetry(attempts int, watch func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		err = watch()
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return err
}

func NewRedisTokenStore(client *config.RedisClient) *RedisTokenStore {
	return &RedisTokenStore{client: client}
}

func (s *RedisTokenStore) Save(ctx context.Context, token string, record *model.RefreshToken) error {
	data, err := json.Marshal(record)
	if err != nil {
		return util.LogError("ошибка сериализации refresh токена", err)
	}

	ttl := time.Until(record.ExpireAt) + redisTokenGrace
	if err := s.client.Client.Set(ctx, s.key(token), data, ttl).Err(); err != nil {
		return util.LogError("ошибка сохранения refresh токена в Redis", err)
	}

	return nil
}

func (s *RedisTokenStore) Validate(ctx context.Context, token string) (*model.RefreshTokenValidation, error) {
	record, err := s.get(ctx, token)
	if err != nil {
		return nil, err
	}

	return validateRecord(record, time.Now().UTC()), nil
}

// Revoke : идемпотентный отзыв под WATCH, чтобы конкурентная запись
// того же ключа не потерялась. Срыв WATCH (например, гонка с Rotate)
// перечитывается, как и в Rotate, а не отдаётся вызывающему как ошибка.
func (s *RedisTokenStore) Revoke(ctx context.Context, token string) error {
	key := s.key(token)

	err := watchRetry(redisTxAttempts, func() error {
		return s.client.Client.Watch(ctx, func(tx *redis.Tx) error {
			val, err := tx.Get(ctx, key).Result()
			if errors.Is(err, redis.Nil) {
				return nil // неизвестный токен — no-op
			}
			if err != nil {
				return err
			}

			var record model.RefreshToken
			if err := json.Unmarshal([]byte(val), &record); err != nil {
				return err
			}
			record.Revoked = true

			data, err := json.Marshal(&record)
			if err != nil {
				return err
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, data, redis.KeepTTL)
				return nil
			})
			return err
		}, key)
	})

	if err != nil {
		return util.LogError("не удалось отозвать refresh токен в Redis", err)
	}
	return nil
}

// Rotate : оптимистическая транзакция WATCH по ключу старого токена.
// Если конкурентный Rotate успел первым, транзакция срывается и повторная
// проверка возвращает revoked.
func (s *RedisTokenStore) Rotate(ctx context.Context, oldToken string, newToken string, record *model.RefreshToken) (*model.RefreshTokenValidation, error) {
	oldKey := s.key(oldToken)
	var result *model.RefreshTokenValidation

	err := watchRetry(redisTxAttempts, func() error {
		return s.client.Client.Watch(ctx, func(tx *redis.Tx) error {
			val, err := tx.Get(ctx, oldKey).Result()
			if errors.Is(err, redis.Nil) {
				result = &model.RefreshTokenValidation{Valid: false, Reason: model.ReasonNotFound}
				return nil
			}
			if err != nil {
				return err
			}

			var old model.RefreshToken
			if err := json.Unmarshal([]byte(val), &old); err != nil {
				return err
			}

			result = validateRecord(&old, time.Now().UTC())
			if !result.Valid {
				return nil
			}

			old.Revoked = true
			oldData, err := json.Marshal(&old)
			if err != nil {
				return err
			}
			newData, err := json.Marshal(record)
			if err != nil {
				return err
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, s.key(newToken), newData, time.Until(record.ExpireAt)+redisTokenGrace)
				pipe.Set(ctx, oldKey, oldData, redis.KeepTTL)
				return nil
			})
			return err
		}, oldKey)
	})

	if err != nil {
		return nil, util.LogError("не удалось выполнить ротацию refresh токена в Redis", err)
	}
	return result, nil
}

func (s *RedisTokenStore) get(ctx context.Context, token string) (*model.RefreshToken, error) {
	val, err := s.client.Client.Get(ctx, s.key(token)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	} else if err != nil {
		return nil, util.LogError("ошибка получения refresh токена из Redis", err)
	}

	var record model.RefreshToken
	if err := json.Unmarshal([]byte(val), &record); err != nil {
		return nil, util.LogError("ошибка десериализации refresh токена", err)
	}
	return &record, nil
}

func (s *RedisTokenStore) key(token string) string {
	return "refresh:" + token
}
