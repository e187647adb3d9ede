package repository_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"property-tracker/internal/model"
	"property-tracker/internal/repository"

	"github.com/stretchr/testify/assert"
)

func activeRecord() *model.RefreshToken {
	now := time.Now().UTC()
	return &model.RefreshToken{
		UserUUID:  "user-123",
		Email:     "mads@example.com",
		ExpireAt:  now.Add(time.Hour),
		CreatedAt: now,
	}
}

func TestMemoryTokenStore_Validate(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryTokenStore()

	result, err := store.Validate(ctx, "unknown-token")
	assert.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, model.ReasonNotFound, result.Reason)

	assert.NoError(t, store.Save(ctx, "good-token", activeRecord()))

	result, err = store.Validate(ctx, "good-token")
	assert.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, "user-123", result.UserUUID)
	assert.Equal(t, "mads@example.com", result.Email)
}

// истечение ровно в ExpireAt уже считается просроченным
func TestMemoryTokenStore_ExpiryBoundary(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryTokenStore()

	expired := activeRecord()
	expired.ExpireAt = time.Now().UTC().Add(-time.Millisecond)
	assert.NoError(t, store.Save(ctx, "expired-token", expired))

	result, err := store.Validate(ctx, "expired-token")
	assert.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, model.ReasonExpired, result.Reason)
}

func TestMemoryTokenStore_RevokeIdempotent(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryTokenStore()

	assert.NoError(t, store.Save(ctx, "token", activeRecord()))

	assert.NoError(t, store.Revoke(ctx, "token"))
	assert.NoError(t, store.Revoke(ctx, "token"))
	// неизвестный токен тоже не ошибка
	assert.NoError(t, store.Revoke(ctx, "never-existed"))

	result, err := store.Validate(ctx, "token")
	assert.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, model.ReasonRevoked, result.Reason)
}

// отзыв перекрывает истечение: отозванный и просроченный токен даёт revoked
func TestMemoryTokenStore_RevokedBeatsExpired(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryTokenStore()

	record := activeRecord()
	record.ExpireAt = time.Now().UTC().Add(-time.Hour)
	record.Revoked = true
	assert.NoError(t, store.Save(ctx, "token", record))

	result, err := store.Validate(ctx, "token")
	assert.NoError(t, err)
	assert.Equal(t, model.ReasonRevoked, result.Reason)
}

func TestMemoryTokenStore_Rotate(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryTokenStore()

	assert.NoError(t, store.Save(ctx, "old-token", activeRecord()))

	result, err := store.Rotate(ctx, "old-token", "new-token", activeRecord())
	assert.NoError(t, err)
	assert.True(t, result.Valid)

	// старый отозван, новый действует
	oldResult, err := store.Validate(ctx, "old-token")
	assert.NoError(t, err)
	assert.Equal(t, model.ReasonRevoked, oldResult.Reason)

	newResult, err := store.Validate(ctx, "new-token")
	assert.NoError(t, err)
	assert.True(t, newResult.Valid)

	// повторная ротация того же токена отклоняется
	result, err = store.Rotate(ctx, "old-token", "another-token", activeRecord())
	assert.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, model.ReasonRevoked, result.Reason)

	anotherResult, err := store.Validate(ctx, "another-token")
	assert.NoError(t, err)
	assert.Equal(t, model.ReasonNotFound, anotherResult.Reason)
}

// конкурентные ротации одного токена выпускают ровно одного преемника
func TestMemoryTokenStore_ConcurrentRotate(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryTokenStore()

	assert.NoError(t, store.Save(ctx, "old-token", activeRecord()))

	const workers = 32
	var wg sync.WaitGroup
	results := make([]*model.RefreshTokenValidation, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, err := store.Rotate(ctx, "old-token", fmt.Sprintf("new-token-%d", i), activeRecord())
			assert.NoError(t, err)
			results[i] = result
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, result := range results {
		if result.Valid {
			winners++
		}
	}
	assert.Equal(t, 1, winners)
}
