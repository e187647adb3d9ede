package repository

import (
	"context"
	"sync"
	"time"

	"property-tracker/internal/model"
)

// MemoryTokenStore : хранилище refresh-токенов в памяти процесса.
// Записи переживают только время жизни процесса, см. конфигурацию token_store.
type MemoryTokenStore struct {
	mu      sync.RWMutex
	records map[string]*model.RefreshToken
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{
		records: make(map[string]*model.RefreshToken),
	}
}

func (s *MemoryTokenStore) Save(_ context.Context, token string, record *model.RefreshToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// копия: запись принадлежит хранилищу, вызывающий не должен её менять
	stored := *record
	s.records[token] = &stored
	return nil
}

func (s *MemoryTokenStore) Validate(_ context.Context, token string) (*model.RefreshTokenValidation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return validateRecord(s.records[token], time.Now().UTC()), nil
}

// Revoke : идемпотентен, неизвестный токен — no-op
func (s *MemoryTokenStore) Revoke(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if record, ok := s.records[token]; ok {
		record.Revoked = true
	}
	return nil
}

// Rotate : проверка старого токена, сохранение нового и отзыв старого
// под одной блокировкой. Конкурентный Rotate того же токена увидит revoked.
func (s *MemoryTokenStore) Rotate(_ context.Context, oldToken string, newToken string, record *model.RefreshToken) (*model.RefreshTokenValidation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := validateRecord(s.records[oldToken], time.Now().UTC())
	if !result.Valid {
		return result, nil
	}

	stored := *record
	s.records[newToken] = &stored
	s.records[oldToken].Revoked = true

	return result, nil
}

// validateRecord : единый порядок проверок для всех хранилищ:
// not found > revoked > expired, истечение ровно в now считается просроченным
func validateRecord(record *model.RefreshToken, now time.Time) *model.RefreshTokenValidation {
	switch {
	case record == nil:
		return &model.RefreshTokenValidation{Valid: false, Reason: model.ReasonNotFound}
	case record.Revoked:
		return &model.RefreshTokenValidation{Valid: false, Reason: model.ReasonRevoked}
	case !record.ExpireAt.After(now):
		return &model.RefreshTokenValidation{Valid: false, Reason: model.ReasonExpired}
	default:
		return &model.RefreshTokenValidation{
			Valid:    true,
			UserUUID: record.UserUUID,
			Email:    record.Email,
		}
	}
}
