package ports

import (
	"context"

	"property-tracker/internal/model"
	"property-tracker/internal/security"
)

// RefreshTokenStore : хранилище refresh-токенов, единственный разделяемый
// изменяемый ресурс подсистемы аутентификации. Реализации обязаны быть
// безопасными при конкурентных вызовах над одним и тем же токеном.
type RefreshTokenStore interface {
	// Save сохраняет новую запись под непрозрачным токеном
	Save(ctx context.Context, token string, record *model.RefreshToken) error

	// Validate проверяет токен, причины отказа в порядке приоритета:
	// not found > revoked > expired (expire_at <= now считается просроченным)
	Validate(ctx context.Context, token string) (*model.RefreshTokenValidation, error)

	// Revoke отзывает токен, идемпотентен: повторный отзыв и неизвестный
	// токен не являются ошибкой
	Revoke(ctx context.Context, token string) error

	// Rotate атомарно проверяет старый токен, сохраняет новую запись и
	// отзывает старую. Два конкурентных Rotate одного токена не должны
	// выпустить двух преемников.
	Rotate(ctx context.Context, oldToken string, newToken string, record *model.RefreshToken) (*model.RefreshTokenValidation, error)
}

type JWTServiceInterface interface {
	GenerateAccessToken(userUUID string, email string, role string) (string, error)
	GenerateRefreshToken(userUUID string, email string) (string, *model.RefreshToken, error)
	ParseAccessToken(tokenStr string) (*security.Claims, error)
}
