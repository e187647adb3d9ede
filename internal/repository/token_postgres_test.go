package repository_test

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"property-tracker/config"
	"property-tracker/internal/model"
	"property-tracker/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
)

func newMockStore(t *testing.T) (*repository.PostgresTokenStore, sqlmock.Sqlmock) {
	db, mockSQL, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	return repository.NewPostgresTokenStore(&config.Database{DB: sqlxDB}), mockSQL
}

func tokenColumns() []string {
	return []string{"user_uuid", "email", "expire_at", "revoked", "created_at"}
}

func TestPostgresTokenStore_Save(t *testing.T) {
	store, mockSQL := newMockStore(t)
	now := time.Now().UTC()

	record := &model.RefreshToken{
		UserUUID:  "user-123",
		Email:     "mads@example.com",
		ExpireAt:  now.Add(time.Hour),
		CreatedAt: now,
	}

	mockSQL.ExpectExec(regexp.QuoteMeta("INSERT INTO refresh_tokens")).
		WithArgs("token", "user-123", "mads@example.com", record.ExpireAt, false, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, store.Save(context.Background(), "token", record))
	assert.NoError(t, mockSQL.ExpectationsWereMet())
}

func TestPostgresTokenStore_Validate(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name         string
		setupMock    func(mockSQL sqlmock.Sqlmock)
		expectValid  bool
		expectReason string
	}{
		{
			name: "not found",
			setupMock: func(mockSQL sqlmock.Sqlmock) {
				mockSQL.ExpectQuery(regexp.QuoteMeta("SELECT user_uuid, email, expire_at, revoked, created_at FROM refresh_tokens WHERE token = $1")).
					WithArgs("token").
					WillReturnError(sql.ErrNoRows)
			},
			expectReason: model.ReasonNotFound,
		},
		{
			name: "revoked",
			setupMock: func(mockSQL sqlmock.Sqlmock) {
				mockSQL.ExpectQuery(regexp.QuoteMeta("SELECT user_uuid, email, expire_at, revoked, created_at FROM refresh_tokens WHERE token = $1")).
					WithArgs("token").
					WillReturnRows(sqlmock.NewRows(tokenColumns()).
						AddRow("user-123", "mads@example.com", now.Add(time.Hour), true, now))
			},
			expectReason: model.ReasonRevoked,
		},
		{
			name: "expired",
			setupMock: func(mockSQL sqlmock.Sqlmock) {
				mockSQL.ExpectQuery(regexp.QuoteMeta("SELECT user_uuid, email, expire_at, revoked, created_at FROM refresh_tokens WHERE token = $1")).
					WithArgs("token").
					WillReturnRows(sqlmock.NewRows(tokenColumns()).
						AddRow("user-123", "mads@example.com", now.Add(-time.Hour), false, now))
			},
			expectReason: model.ReasonExpired,
		},
		{
			name: "valid",
			setupMock: func(mockSQL sqlmock.Sqlmock) {
				mockSQL.ExpectQuery(regexp.QuoteMeta("SELECT user_uuid, email, expire_at, revoked, created_at FROM refresh_tokens WHERE token = $1")).
					WithArgs("token").
					WillReturnRows(sqlmock.NewRows(tokenColumns()).
						AddRow("user-123", "mads@example.com", now.Add(time.Hour), false, now))
			},
			expectValid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mockSQL := newMockStore(t)
			tt.setupMock(mockSQL)

			result, err := store.Validate(context.Background(), "token")

			assert.NoError(t, err)
			assert.Equal(t, tt.expectValid, result.Valid)
			if tt.expectReason != "" {
				assert.Equal(t, tt.expectReason, result.Reason)
			}
			assert.NoError(t, mockSQL.ExpectationsWereMet())
		})
	}
}

func TestPostgresTokenStore_Revoke(t *testing.T) {
	store, mockSQL := newMockStore(t)

	// нулевое число затронутых строк не ошибка, отзыв идемпотентен
	mockSQL.ExpectExec(regexp.QuoteMeta("UPDATE refresh_tokens SET revoked = TRUE WHERE token = $1")).
		WithArgs("token").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, store.Revoke(context.Background(), "token"))
	assert.NoError(t, mockSQL.ExpectationsWereMet())
}

func TestPostgresTokenStore_Rotate(t *testing.T) {
	store, mockSQL := newMockStore(t)
	now := time.Now().UTC()

	record := &model.RefreshToken{
		UserUUID:  "user-123",
		Email:     "mads@example.com",
		ExpireAt:  now.Add(time.Hour),
		CreatedAt: now,
	}

	mockSQL.ExpectBegin()
	mockSQL.ExpectQuery(regexp.QuoteMeta("SELECT user_uuid, email, expire_at, revoked, created_at FROM refresh_tokens WHERE token = $1 FOR UPDATE")).
		WithArgs("old-token").
		WillReturnRows(sqlmock.NewRows(tokenColumns()).
			AddRow("user-123", "mads@example.com", now.Add(time.Hour), false, now))
	mockSQL.ExpectExec(regexp.QuoteMeta("INSERT INTO refresh_tokens")).
		WithArgs("new-token", "user-123", "mads@example.com", record.ExpireAt, false, now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mockSQL.ExpectExec(regexp.QuoteMeta("UPDATE refresh_tokens SET revoked = TRUE WHERE token = $1")).
		WithArgs("old-token").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mockSQL.ExpectCommit()

	result, err := store.Rotate(context.Background(), "old-token", "new-token", record)

	assert.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, "user-123", result.UserUUID)
	assert.NoError(t, mockSQL.ExpectationsWereMet())
}

func TestPostgresTokenStore_RotateRejectsRevoked(t *testing.T) {
	store, mockSQL := newMockStore(t)
	now := time.Now().UTC()

	mockSQL.ExpectBegin()
	mockSQL.ExpectQuery(regexp.QuoteMeta("SELECT user_uuid, email, expire_at, revoked, created_at FROM refresh_tokens WHERE token = $1 FOR UPDATE")).
		WithArgs("old-token").
		WillReturnRows(sqlmock.NewRows(tokenColumns()).
			AddRow("user-123", "mads@example.com", now.Add(time.Hour), true, now))
	mockSQL.ExpectRollback()

	result, err := store.Rotate(context.Background(), "old-token", "new-token", &model.RefreshToken{})

	assert.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, model.ReasonRevoked, result.Reason)
	assert.NoError(t, mockSQL.ExpectationsWereMet())
}
