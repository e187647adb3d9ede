package model

import "time"

// RefreshToken : серверная запись refresh-токена.
// Ключом записи служит сам непрозрачный токен, он в структуре не хранится.
// Запись после создания меняется только флагом Revoked, обратного перехода нет.
type RefreshToken struct {
	UserUUID  string    `db:"user_uuid" json:"user_uuid"`
	Email     string    `db:"email" json:"email"`
	ExpireAt  time.Time `db:"expire_at" json:"expire_at"`
	Revoked   bool      `db:"revoked" json:"revoked"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Причины отказа валидации refresh-токена.
// Приоритет проверок: not found > revoked > expired.
const (
	ReasonNotFound = "refresh token not found"
	ReasonRevoked  = "token revoked"
	ReasonExpired  = "token expired"
)

// RefreshTokenValidation : результат проверки refresh-токена хранилищем
type RefreshTokenValidation struct {
	Valid    bool
	UserUUID string
	Email    string
	Reason   string
}

// TokensPair содержит пару access и refresh токенов
// swagger:model
type TokensPair struct {
	// Access токен (JWT)
	// example: eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9...
	AccessToken string `json:"accessToken"`

	// Refresh токен (для получения новой пары)
	// example: vcSi0369y1I62wOpxZFpgZ...
	RefreshToken string `json:"refreshToken"`

	// Срок действия refresh токена
	RefreshExpireAt time.Time `json:"refreshTokenExpiry"`
}
