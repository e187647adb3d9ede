package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"property-tracker/config"
	"property-tracker/internal/model"
	"property-tracker/internal/util"
)

// PostgresTokenStore : хранилище refresh-токенов в таблице refresh_tokens
type PostgresTokenStore struct {
	*config.Database
}

func NewPostgresTokenStore(database *config.Database) *PostgresTokenStore {
	return &PostgresTokenStore{database}
}

// Save : сохраняет новую запись refresh-токена
func (s *PostgresTokenStore) Save(ctx context.Context, token string, record *model.RefreshToken) error {
	query := `INSERT INTO refresh_tokens (token, user_uuid, email, expire_at, revoked, created_at)
				VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.DB.ExecContext(ctx, query,
		token,
		record.UserUUID,
		record.Email,
		record.ExpireAt,
		record.Revoked,
		record.CreatedAt,
	)

	if err != nil {
		return util.LogError("ошибка вставки refresh токена в БД", err)
	}

	return nil
}

// Validate : проверяет запись по токену
// Порядок причин отказа: not found > revoked > expired
func (s *PostgresTokenStore) Validate(ctx context.Context, token string) (*model.RefreshTokenValidation, error) {
	query := `SELECT user_uuid, email, expire_at, revoked, created_at FROM refresh_tokens WHERE token = $1`

	record := &model.RefreshToken{}
	err := s.DB.QueryRowContext(ctx, query, token).Scan(
		&record.UserUUID,
		&record.Email,
		&record.ExpireAt,
		&record.Revoked,
		&record.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &model.RefreshTokenValidation{Valid: false, Reason: model.ReasonNotFound}, nil
		}
		return nil, util.LogError("ошибка при выполнении запроса", err)
	}

	return validateRecord(record, time.Now().UTC()), nil
}

// Revoke : изменяет поле revoked, делая его равным true.
// Идемпотентен: уже отозванный или неизвестный токен — no-op, не ошибка.
func (s *PostgresTokenStore) Revoke(ctx context.Context, token string) error {
	query := `UPDATE refresh_tokens SET revoked = TRUE WHERE token = $1`

	if _, err := s.DB.ExecContext(ctx, query, token); err != nil {
		return util.LogError("не удалось отозвать refresh токен", err)
	}

	return nil
}

// Rotate : ротация пары токенов в одной транзакции.
// Старая запись берётся под FOR UPDATE, поэтому два конкурентных Rotate
// сериализуются и второй получает revoked.
func (s *PostgresTokenStore) Rotate(ctx context.Context, oldToken string, newToken string, record *model.RefreshToken) (*model.RefreshTokenValidation, error) {
	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, util.LogError("не удалось открыть транзакцию", err)
	}
	defer tx.Rollback()

	old := &model.RefreshToken{}
	err = tx.QueryRowContext(ctx,
		`SELECT user_uuid, email, expire_at, revoked, created_at FROM refresh_tokens WHERE token = $1 FOR UPDATE`,
		oldToken,
	).Scan(&old.UserUUID, &old.Email, &old.ExpireAt, &old.Revoked, &old.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return &model.RefreshTokenValidation{Valid: false, Reason: model.ReasonNotFound}, nil
	}
	if err != nil {
		return nil, util.LogError("ошибка при выполнении запроса", err)
	}

	result := validateRecord(old, time.Now().UTC())
	if !result.Valid {
		return result, nil
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO refresh_tokens (token, user_uuid, email, expire_at, revoked, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
		newToken, record.UserUUID, record.Email, record.ExpireAt, record.Revoked, record.CreatedAt,
	)
	if err != nil {
		return nil, util.LogError("ошибка вставки нового refresh токена", err)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE refresh_tokens SET revoked = TRUE WHERE token = $1`, oldToken); err != nil {
		return nil, util.LogError("не удалось отозвать старый refresh токен", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, util.LogError("не удалось зафиксировать транзакцию", err)
	}

	return result, nil
}
