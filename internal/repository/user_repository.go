package repository

import (
	"context"

	"property-tracker/config"
	"property-tracker/internal/model"
	"property-tracker/internal/util"

	"github.com/jmoiron/sqlx"
)

type UserRepository struct {
	*config.Database
}

func NewUserRepository(database *config.Database) *UserRepository {
	return &UserRepository{database}
}

// CreateUser : сохраняет нового пользователя
func (r *UserRepository) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	query := `
	INSERT INTO users (uuid, email, username, password_hash, role)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING uuid, email, username, role, created_at
	`

	createdUser := &model.User{}
	err := r.DB.QueryRowxContext(ctx, query, user.UUID, user.Email, user.Username, user.PasswordHash, user.Role).
		Scan(&createdUser.UUID, &createdUser.Email, &createdUser.Username, &createdUser.Role, &createdUser.CreatedAt)

	if err != nil {
		return nil, util.LogError("[UserRepo] ошибка вставки данных в БД", err)
	}

	return createdUser, nil
}

// FindByUUID : ищет пользователя по UUID
func (r *UserRepository) FindByUUID(ctx context.Context, uuid string) (*model.User, error) {
	query := `SELECT uuid, email, username, password_hash, role, created_at FROM users WHERE uuid = $1`
	var user model.User
	err := sqlx.GetContext(ctx, r.DB, &user, query, uuid)
	if err != nil {
		return nil, util.LogError("[UserRepo] не удалось найти пользователя в БД", err)
	}
	return &user, nil
}

// FindByEmail : ищет пользователя по email
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT uuid, email, username, password_hash, role, created_at FROM users WHERE email = $1`
	var user model.User
	err := sqlx.GetContext(ctx, r.DB, &user, query, email)
	if err != nil {
		return nil, util.LogError("[UserRepo] не удалось найти пользователя по email", err)
	}
	return &user, nil
}

// EmailExists : проверяет, занят ли email
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`
	err := sqlx.GetContext(ctx, r.DB, &exists, query, email)
	if err != nil {
		return false, util.LogError("[UserRepo] ошибка проверки существования email", err)
	}
	return exists, nil
}
