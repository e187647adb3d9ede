package requestresponse

import "time"

// LoginRequest : тело запроса на аутентификацию
type LoginRequest struct {
	Email    string `json:"email" example:"alice@example.com"`
	Password string `json:"password" example:"P@ssw0rd123"`
}

// LoginResponse : ответ на успешную аутентификацию
type LoginResponse struct {
	AccessToken        string    `json:"accessToken" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	RefreshToken       string    `json:"refreshToken" example:"vcSi0369y1I62wOpxZFpgZ"`
	RefreshTokenExpiry time.Time `json:"refreshTokenExpiry"`
	UserID             string    `json:"userId" example:"b6a1e1c4-4b1d-4f1e-8b29-1234567890ab"`
	Email              string    `json:"email" example:"alice@example.com"`
	Role               string    `json:"role" example:"User"`
}

// RegisterRequest : тело запроса регистрации
type RegisterRequest struct {
	Email    string `json:"email" example:"alice@example.com"`
	Username string `json:"username" example:"alice"`
	Password string `json:"password" example:"P@ssw0rd!"`
}

// RegisterResponse : успешный ответ регистрации
type RegisterResponse struct {
	ID        string    `json:"id" example:"b6a1e1c4-4b1d-4f1e-8b29-1234567890ab"`
	Email     string    `json:"email" example:"alice@example.com"`
	Username  string    `json:"username" example:"alice"`
	Role      string    `json:"role" example:"User"`
	CreatedAt time.Time `json:"createdAt"`
}

// VerifyResponse : диагностический ответ по действующему access-токену
type VerifyResponse struct {
	UserID    string    `json:"userId" example:"b6a1e1c4-4b1d-4f1e-8b29-1234567890ab"`
	Email     string    `json:"email" example:"alice@example.com"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// RefreshTokenRequest : запрос на обновление пары токенов
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" example:"vcSi0369y1I62wOpxZFpgZ"`
}

// RefreshTokenResponse : ответ на успешное обновление
type RefreshTokenResponse struct {
	AccessToken  string    `json:"accessToken" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	RefreshToken string    `json:"refreshToken" example:"vcSi0369y1I62wOpxZFpgZ"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// LogoutRequest : запрос на отзыв refresh-токена
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken" example:"vcSi0369y1I62wOpxZFpgZ"`
}

// LogoutResponse : ответ на завершение сессии
type LogoutResponse struct {
	Revoked bool `json:"revoked" example:"true"`
}

// ErrorDetail : детальная информация об ошибке
type ErrorDetail struct {
	Code int    `json:"code" example:"401"`
	Text string `json:"text" example:"invalid credentials"`
}

// ErrorResponse : стандартная структура ошибки
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}
