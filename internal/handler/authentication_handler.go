package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"property-tracker/internal/model/requestresponse"
	"property-tracker/internal/ports"
	"property-tracker/internal/service"
)

type AuthenticationHandler struct {
	ports.AuthenticationService
}

func NewAuthenticationHandler(authenticationService *service.AuthenticationService) *AuthenticationHandler {
	return &AuthenticationHandler{authenticationService}
}

// Login godoc
// @Summary Аутентификация пользователя
// @Description Выдаёт access и refresh токены по email и паролю
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body requestresponse.LoginRequest true "Тело запроса"
// @Success 200 {object} requestresponse.LoginResponse "Успешная аутентификация"
// @Failure 400 {object} requestresponse.ErrorResponse "Некорректный JSON или пустые поля"
// @Failure 401 {object} requestresponse.ErrorResponse "Неверные учётные данные"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/auth/login [post]
func (h *AuthenticationHandler) Login(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	var req requestresponse.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorResponse(w, 400, "некорректный JSON")
		return
	}

	if req.Email == "" || req.Password == "" {
		sendErrorResponse(w, 400, "email и password обязательны")
		return
	}

	tokens, user, err := h.AuthenticationService.Login(ctx, req.Email, req.Password)
	if err != nil {
		log.Println(err)
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			// единый ответ для неизвестного email и неверного пароля
			sendErrorResponse(w, 401, "invalid credentials")
		default:
			sendErrorResponse(w, 500, "внутренняя ошибка сервера")
		}
		return
	}

	resp := requestresponse.LoginResponse{
		AccessToken:        tokens.AccessToken,
		RefreshToken:       tokens.RefreshToken,
		RefreshTokenExpiry: tokens.RefreshExpireAt,
		UserID:             user.UUID,
		Email:              user.Email,
		Role:               user.Role,
	}

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(resp)
}

// Register godoc
// @Summary Регистрация пользователя
// @Description Создаёт нового пользователя, пароль сохраняется только в виде хэша
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body requestresponse.RegisterRequest true "Тело запроса"
// @Success 201 {object} requestresponse.RegisterResponse "Пользователь создан"
// @Failure 400 {object} requestresponse.ErrorResponse "Некорректные данные или email занят"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/auth/register [post]
func (h *AuthenticationHandler) Register(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	var req requestresponse.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorResponse(w, 400, "некорректный JSON")
		return
	}

	if req.Email == "" || !strings.Contains(req.Email, "@") {
		sendErrorResponse(w, 400, "некорректный email")
		return
	}
	if len(req.Username) < 3 {
		sendErrorResponse(w, 400, "username должен быть не меньше 3 символов")
		return
	}

	user, err := h.AuthenticationService.Register(ctx, req.Email, req.Username, req.Password)
	if err != nil {
		log.Println(err)
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			sendErrorResponse(w, 400, "email already registered")
		case errors.Is(err, service.ErrWeakPassword):
			sendErrorResponse(w, 400, err.Error())
		default:
			sendErrorResponse(w, 500, "внутренняя ошибка сервера")
		}
		return
	}

	resp := requestresponse.RegisterResponse{
		ID:        user.UUID,
		Email:     user.Email,
		Username:  user.Username,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}

	w.WriteHeader(201)
	json.NewEncoder(w).Encode(resp)
}

// Verify godoc
// @Summary Проверка access-токена
// @Description Диагностический разбор действующего access-токена
// @Tags Authentication
// @Produce json
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.VerifyResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Router /api/auth/verify [get]
func (h *AuthenticationHandler) Verify(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		sendErrorResponse(w, 401, "пустой или неверный заголовок Authorization")
		return
	}

	claims, err := h.AuthenticationService.Verify(ctx, strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		sendErrorResponse(w, 401, "невалидный токен")
		return
	}

	resp := requestresponse.VerifyResponse{
		UserID:    claims.Subject,
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt.Time,
	}

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(resp)
}

// Refresh godoc
// @Summary Обновление токенов
// @Description Меняет refresh-токен на новую пару, предъявленный токен отзывается
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body requestresponse.RefreshTokenRequest true "Тело запроса"
// @Success 200 {object} requestresponse.RefreshTokenResponse "Новые access и refresh токены"
// @Failure 400 {object} requestresponse.ErrorResponse "Неверный JSON"
// @Failure 401 {object} requestresponse.ErrorResponse "Невалидный refresh-токен"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/auth/refresh [post]
func (h *AuthenticationHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	var req requestresponse.RefreshTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorResponse(w, 400, "неверный JSON")
		return
	}

	tokens, err := h.AuthenticationService.Refresh(ctx, req.RefreshToken)
	if err != nil {
		log.Println(err)
		switch {
		case errors.Is(err, service.ErrTokenInvalid):
			sendErrorResponse(w, 401, err.Error())
		default:
			sendErrorResponse(w, 500, "внутренняя ошибка сервера")
		}
		return
	}

	resp := requestresponse.RefreshTokenResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresAt:    tokens.RefreshExpireAt,
	}

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(resp)
}

// Logout godoc
// @Summary Завершение сессии
// @Description Отзывает refresh-токен, повторный отзыв безвреден
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body requestresponse.LogoutRequest true "Тело запроса"
// @Success 200 {object} requestresponse.LogoutResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/auth/logout [post]
func (h *AuthenticationHandler) Logout(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	var req requestresponse.LogoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorResponse(w, 400, "неверный JSON")
		return
	}
	if req.RefreshToken == "" {
		sendErrorResponse(w, 400, "refresh token обязателен")
		return
	}

	if err := h.AuthenticationService.Logout(ctx, req.RefreshToken); err != nil {
		log.Println(err)
		sendErrorResponse(w, 500, "внутренняя ошибка сервера")
		return
	}

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(requestresponse.LogoutResponse{Revoked: true})
}

func sendErrorResponse(w http.ResponseWriter, code int, text string) {
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(requestresponse.ErrorResponse{
		Error: requestresponse.ErrorDetail{Code: code, Text: text},
	})
}
