package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"unicode"

	"property-tracker/internal/model"
	"property-tracker/internal/ports"
	"property-tracker/internal/security"
	"property-tracker/internal/util"

	"github.com/google/uuid"
)

var (
	// ErrInvalidCredentials : единый исход для отсутствующего пользователя
	// и неверного пароля, различие остаётся только в серверных логах
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrWeakPassword       = errors.New("password must be at least 8 characters with upper and lower case letters and a digit")
)

const defaultRole = "User"

type AuthenticationService struct {
	tokenStore     ports.RefreshTokenStore
	jwtService     ports.JWTServiceInterface
	userRepository ports.UserRepository
}

func NewAuthenticationService(
	tokenStore ports.RefreshTokenStore,
	jwtService ports.JWTServiceInterface,
	userRepository ports.UserRepository,
) *AuthenticationService {
	return &AuthenticationService{
		tokenStore:     tokenStore,
		jwtService:     jwtService,
		userRepository: userRepository,
	}
}

// Login : проверка пароля, выпуск пары токенов и сохранение refresh-записи
func (s *AuthenticationService) Login(ctx context.Context, email string, password string) (*model.TokensPair, *model.User, error) {
	user, err := s.userRepository.FindByEmail(ctx, email)
	if err != nil {
		log.Printf("[AuthService] пользователь %s не найден: %v", email, err)
		return nil, nil, ErrInvalidCredentials
	}

	if !security.CheckPassword(password, user.PasswordHash) {
		log.Printf("[AuthService] неверный пароль для %s", email)
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(ctx, user.UUID, user.Email, user.Role)
	if err != nil {
		return nil, nil, err
	}

	log.Printf("[AuthService] пользователь %s вошёл в систему", email)
	return tokens, user, nil
}

// Register : регистрирует пользователя, пароль хэшируется до сохранения
// и нигде не логируется
func (s *AuthenticationService) Register(ctx context.Context, email string, username string, password string) (*model.User, error) {
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	exists, err := s.userRepository.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("[AuthService] ошибка проверки email: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("[AuthService] не удалось создать хэш пароля: %w", err)
	}

	user := &model.User{
		UUID:         uuid.New().String(),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		Role:         defaultRole,
	}

	created, err := s.userRepository.CreateUser(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("[AuthService] ошибка создания пользователя: %w", err)
	}

	return created, nil
}

// Verify : диагностическая проверка access-токена.
// Авторизация запросов выполняется в middleware, здесь только разбор claims.
func (s *AuthenticationService) Verify(_ context.Context, accessToken string) (*security.Claims, error) {
	claims, err := s.jwtService.ParseAccessToken(accessToken)
	if err != nil {
		log.Printf("[AuthService] verify отклонён: %v", err)
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// Refresh : обмен refresh-токена на новую пару.
// Порядок ротации: новая запись сохраняется до отзыва старой, оба шага
// выполняются атомарно хранилищем.
func (s *AuthenticationService) Refresh(ctx context.Context, refreshToken string) (*model.TokensPair, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("%w: refresh token is required", ErrTokenInvalid)
	}

	result, err := s.tokenStore.Validate(ctx, refreshToken)
	if err != nil {
		return nil, util.LogError("[AuthService] не удалось провалидировать refresh токен", err)
	}
	if !result.Valid {
		log.Printf("[AuthService] refresh отклонён: %s", result.Reason)
		return nil, fmt.Errorf("%w: %s", ErrTokenInvalid, result.Reason)
	}

	accessToken, err := s.jwtService.GenerateAccessToken(result.UserUUID, result.Email, "")
	if err != nil {
		return nil, util.LogError("[AuthService] ошибка генерации access токена", err)
	}

	newRefreshToken, record, err := s.jwtService.GenerateRefreshToken(result.UserUUID, result.Email)
	if err != nil {
		return nil, util.LogError("[AuthService] ошибка генерации refresh токена", err)
	}

	// Rotate повторяет проверку под своей блокировкой: если конкурентный
	// refresh успел первым, второй получает revoked и пару не выпускает
	rotated, err := s.tokenStore.Rotate(ctx, refreshToken, newRefreshToken, record)
	if err != nil {
		return nil, util.LogError("[AuthService] не удалось выполнить ротацию", err)
	}
	if !rotated.Valid {
		log.Printf("[AuthService] ротация отклонена: %s", rotated.Reason)
		return nil, fmt.Errorf("%w: %s", ErrTokenInvalid, rotated.Reason)
	}

	return &model.TokensPair{
		AccessToken:     accessToken,
		RefreshToken:    newRefreshToken,
		RefreshExpireAt: record.ExpireAt,
	}, nil
}

// Logout : отзывает refresh-токен, повторный вызов безвреден
func (s *AuthenticationService) Logout(ctx context.Context, refreshToken string) error {
	if err := s.tokenStore.Revoke(ctx, refreshToken); err != nil {
		return fmt.Errorf("[AuthService] не удалось отозвать токен: %w", err)
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return ErrWeakPassword
	}

	var hasUpper, hasLower, hasDigit bool
	for _, c := range password {
		switch {
		case unicode.IsUpper(c):
			hasUpper = true
		case unicode.IsLower(c):
			hasLower = true
		case unicode.IsDigit(c):
			hasDigit = true
		}
	}

	if !hasUpper || !hasLower || !hasDigit {
		return ErrWeakPassword
	}
	return nil
}

func (s *AuthenticationService) issueTokens(ctx context.Context, userUUID, email, role string) (*model.TokensPair, error) {
	accessToken, err := s.jwtService.GenerateAccessToken(userUUID, email, role)
	if err != nil {
		return nil, util.LogError("[AuthService] ошибка генерации access токена", err)
	}

	refreshToken, record, err := s.jwtService.GenerateRefreshToken(userUUID, email)
	if err != nil {
		return nil, util.LogError("[AuthService] ошибка генерации refresh токена", err)
	}

	if err := s.tokenStore.Save(ctx, refreshToken, record); err != nil {
		return nil, util.LogError("[AuthService] ошибка сохранения refresh токена", err)
	}

	return &model.TokensPair{
		AccessToken:     accessToken,
		RefreshToken:    refreshToken,
		RefreshExpireAt: record.ExpireAt,
	}, nil
}
