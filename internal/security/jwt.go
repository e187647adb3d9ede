package security

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"property-tracker/config"
	"property-tracker/internal/model"
	"property-tracker/internal/util"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type contextKey string

const (
	UserContextKey contextKey = "user"

	// refreshTokenBytes : длина случайной части refresh-токена
	refreshTokenBytes = 64
)

// Claims : фиксированный набор claims access-токена.
// Subject несёт UUID пользователя, ID (jti) — уникальный идентификатор выпуска.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type JWTService struct {
	cfg        *config.JWTConfig
	secretKey  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewJWTService декодирует ключ подписи из base64.
// Ошибка здесь фатальна: без ключа процесс стартовать не должен.
func NewJWTService(cfg *config.JWTConfig) (*JWTService, error) {
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("ключ подписи не задан в конфигурации")
	}

	secretKey, err := base64.StdEncoding.DecodeString(cfg.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("ключ подписи не является корректным base64: %w", err)
	}

	return &JWTService{
		cfg:        cfg,
		secretKey:  secretKey,
		accessTTL:  time.Duration(cfg.AccessTokenTTLMin) * time.Minute,
		refreshTTL: time.Duration(cfg.RefreshTokenTTLDays) * 24 * time.Hour,
	}, nil
}

// GenerateAccessToken : выпускает подписанный access-токен.
// Токен нигде не сохраняется, роль добавляется только если она не пустая.
func (service *JWTService) GenerateAccessToken(userUUID string, email string, role string) (string, error) {
	now := time.Now().UTC()

	claims := Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userUUID,
			ID:        uuid.New().String(),
			Issuer:    service.cfg.Issuer,
			Audience:  jwt.ClaimStrings{service.cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(service.accessTTL)),
		},
	}

	jwtToken := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	accessToken, err := jwtToken.SignedString(service.secretKey)
	if err != nil {
		return "", util.LogError("ошибка подписи токена", err)
	}

	return accessToken, nil
}

// GenerateRefreshToken : выпускает непрозрачный refresh-токен и его серверную запись.
// Случайная часть обязана идти из CSPRNG, предсказуемый токен равен обходу авторизации.
func (service *JWTService) GenerateRefreshToken(userUUID string, email string) (string, *model.RefreshToken, error) {
	tokenBytes := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", nil, util.LogError("ошибка генерации refresh токена", err)
	}

	// base64url без паддинга, токен отдаётся клиенту как есть
	refreshTokenStr := base64.RawURLEncoding.EncodeToString(tokenBytes)

	now := time.Now().UTC()
	record := &model.RefreshToken{
		UserUUID:  userUUID,
		Email:     email,
		ExpireAt:  now.Add(service.refreshTTL),
		Revoked:   false,
		CreatedAt: now,
	}

	return refreshTokenStr, record, nil
}

// ParseAccessToken : проверяет подпись, издателя, аудиторию и срок действия
func (service *JWTService) ParseAccessToken(jwtTokenStr string) (*Claims, error) {
	var claims = &Claims{}

	jwtToken, err := jwt.ParseWithClaims(jwtTokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Header["alg"] != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("неверный способ подписи токена: %v", token.Header["alg"])
		}
		return service.secretKey, nil
	},
		jwt.WithIssuer(service.cfg.Issuer),
		jwt.WithAudience(service.cfg.Audience),
		jwt.WithExpirationRequired(),
	)

	if err != nil || !jwtToken.Valid {
		return nil, util.LogError("невалидный токен", err)
	}

	return claims, nil
}

func JWTMiddleware(jwtService *JWTService) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authorizationHeader := request.Header.Get("Authorization")
			if !strings.HasPrefix(authorizationHeader, "Bearer ") {
				http.Error(writer, "unauthorized", http.StatusUnauthorized)
				return
			}

			token := strings.TrimPrefix(authorizationHeader, "Bearer ")

			claims, err := jwtService.ParseAccessToken(token)
			if err != nil {
				log.Printf("невалидный токен: %v", err)
				http.Error(writer, "unauthorized", http.StatusUnauthorized)
				return
			}

			req := request.WithContext(context.WithValue(request.Context(), UserContextKey, claims))
			next.ServeHTTP(writer, req)
		})
	}
}

func GetClaimsFromContext(ctx context.Context) (*Claims, error) {
	claims, ok := ctx.Value(UserContextKey).(*Claims)
	if !ok || claims == nil {
		return nil, fmt.Errorf("пользователь не авторизован")
	}
	return claims, nil
}
