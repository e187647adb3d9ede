package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"property-tracker/internal/model"
	"property-tracker/internal/security"
	srv "property-tracker/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUUID(ctx context.Context, uuid string) (*model.User, error) {
	args := m.Called(ctx, uuid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

type MockJWTService struct {
	mock.Mock
}

func (m *MockJWTService) GenerateAccessToken(userUUID string, email string, role string) (string, error) {
	args := m.Called(userUUID, email, role)
	return args.String(0), args.Error(1)
}

func (m *MockJWTService) GenerateRefreshToken(userUUID string, email string) (string, *model.RefreshToken, error) {
	args := m.Called(userUUID, email)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*model.RefreshToken), args.Error(2)
}

func (m *MockJWTService) ParseAccessToken(token string) (*security.Claims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*security.Claims), args.Error(1)
}

type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) Save(ctx context.Context, token string, record *model.RefreshToken) error {
	args := m.Called(ctx, token, record)
	return args.Error(0)
}

func (m *MockTokenStore) Validate(ctx context.Context, token string) (*model.RefreshTokenValidation, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RefreshTokenValidation), args.Error(1)
}

func (m *MockTokenStore) Revoke(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockTokenStore) Rotate(ctx context.Context, oldToken string, newToken string, record *model.RefreshToken) (*model.RefreshTokenValidation, error) {
	args := m.Called(ctx, oldToken, newToken, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RefreshTokenValidation), args.Error(1)
}

func TestAuthenticationService_Login(t *testing.T) {
	ctx := context.Background()

	passwordHash, err := security.HashPassword("Str0ngPassword")
	assert.NoError(t, err)

	existingUser := &model.User{
		UUID:         "user-123",
		Email:        "mads@example.com",
		Username:     "mads",
		PasswordHash: passwordHash,
		Role:         "User",
	}

	tests := []struct {
		name       string
		email      string
		password   string
		setupMocks func(u *MockUserRepository, j *MockJWTService, s *MockTokenStore)
		expectErr  error
	}{
		{
			name:     "unknown email",
			email:    "nobody@example.com",
			password: "Str0ngPassword",
			setupMocks: func(u *MockUserRepository, j *MockJWTService, s *MockTokenStore) {
				u.On("FindByEmail", ctx, "nobody@example.com").Return(nil, errors.New("sql: no rows in result set"))
			},
			expectErr: srv.ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			email:    "mads@example.com",
			password: "WrongPassword1",
			setupMocks: func(u *MockUserRepository, j *MockJWTService, s *MockTokenStore) {
				u.On("FindByEmail", ctx, "mads@example.com").Return(existingUser, nil)
			},
			expectErr: srv.ErrInvalidCredentials,
		},
		{
			name:     "success",
			email:    "mads@example.com",
			password: "Str0ngPassword",
			setupMocks: func(u *MockUserRepository, j *MockJWTService, s *MockTokenStore) {
				u.On("FindByEmail", ctx, "mads@example.com").Return(existingUser, nil)
				j.On("GenerateAccessToken", "user-123", "mads@example.com", "User").Return("access-token", nil)
				j.On("GenerateRefreshToken", "user-123", "mads@example.com").Return(
					"refresh-token",
					&model.RefreshToken{UserUUID: "user-123", Email: "mads@example.com", ExpireAt: time.Now().Add(time.Hour)},
					nil,
				)
				s.On("Save", ctx, "refresh-token", mock.Anything).Return(nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUserRepo := new(MockUserRepository)
			mockJWTService := new(MockJWTService)
			mockTokenStore := new(MockTokenStore)
			service := srv.NewAuthenticationService(mockTokenStore, mockJWTService, mockUserRepo)

			if tt.setupMocks != nil {
				tt.setupMocks(mockUserRepo, mockJWTService, mockTokenStore)
			}

			tokens, user, err := service.Login(ctx, tt.email, tt.password)

			if tt.expectErr != nil {
				assert.ErrorIs(t, err, tt.expectErr)
				assert.Nil(t, tokens)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "access-token", tokens.AccessToken)
				assert.Equal(t, "refresh-token", tokens.RefreshToken)
				assert.Equal(t, "user-123", user.UUID)
			}

			mockUserRepo.AssertExpectations(t)
			mockJWTService.AssertExpectations(t)
			mockTokenStore.AssertExpectations(t)
		})
	}
}

// оба отказа Login неразличимы снаружи, утечки существования email нет
func TestAuthenticationService_Login_NoEnumeration(t *testing.T) {
	ctx := context.Background()

	passwordHash, err := security.HashPassword("Str0ngPassword")
	assert.NoError(t, err)

	mockUserRepo := new(MockUserRepository)
	mockUserRepo.On("FindByEmail", ctx, "known@example.com").Return(&model.User{
		UUID:         "user-123",
		Email:        "known@example.com",
		PasswordHash: passwordHash,
	}, nil)
	mockUserRepo.On("FindByEmail", ctx, "unknown@example.com").Return(nil, errors.New("sql: no rows in result set"))

	service := srv.NewAuthenticationService(new(MockTokenStore), new(MockJWTService), mockUserRepo)

	_, _, errKnown := service.Login(ctx, "known@example.com", "WrongPassword1")
	_, _, errUnknown := service.Login(ctx, "unknown@example.com", "WrongPassword1")

	assert.ErrorIs(t, errKnown, srv.ErrInvalidCredentials)
	assert.ErrorIs(t, errUnknown, srv.ErrInvalidCredentials)
	assert.Equal(t, errKnown.Error(), errUnknown.Error())
}

func TestAuthenticationService_Register(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		email      string
		username   string
		password   string
		setupMocks func(u *MockUserRepository)
		expectErr  error
	}{
		{
			name:      "weak password",
			email:     "mads@example.com",
			username:  "mads",
			password:  "short",
			expectErr: srv.ErrWeakPassword,
		},
		{
			name:      "password without digit",
			email:     "mads@example.com",
			username:  "mads",
			password:  "NoDigitsHere",
			expectErr: srv.ErrWeakPassword,
		},
		{
			name:     "email taken",
			email:    "mads@example.com",
			username: "mads",
			password: "Str0ngPassword",
			setupMocks: func(u *MockUserRepository) {
				u.On("EmailExists", ctx, "mads@example.com").Return(true, nil)
			},
			expectErr: srv.ErrEmailTaken,
		},
		{
			name:     "success",
			email:    "mads@example.com",
			username: "mads",
			password: "Str0ngPassword",
			setupMocks: func(u *MockUserRepository) {
				u.On("EmailExists", ctx, "mads@example.com").Return(false, nil)
				u.On("CreateUser", ctx, mock.MatchedBy(func(user *model.User) bool {
					// в БД уходит bcrypt-хэш, не пароль
					return user.Email == "mads@example.com" &&
						user.PasswordHash != "Str0ngPassword" &&
						user.Role == "User" &&
						user.UUID != ""
				})).Return(&model.User{UUID: "user-123", Email: "mads@example.com", Username: "mads", Role: "User"}, nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUserRepo := new(MockUserRepository)
			service := srv.NewAuthenticationService(new(MockTokenStore), new(MockJWTService), mockUserRepo)

			if tt.setupMocks != nil {
				tt.setupMocks(mockUserRepo)
			}

			user, err := service.Register(ctx, tt.email, tt.username, tt.password)

			if tt.expectErr != nil {
				assert.ErrorIs(t, err, tt.expectErr)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "user-123", user.UUID)
			}

			mockUserRepo.AssertExpectations(t)
		})
	}
}

func TestAuthenticationService_Refresh(t *testing.T) {
	ctx := context.Background()

	validResult := &model.RefreshTokenValidation{Valid: true, UserUUID: "user-123", Email: "mads@example.com"}
	newRecord := &model.RefreshToken{UserUUID: "user-123", Email: "mads@example.com", ExpireAt: time.Now().Add(time.Hour)}

	tests := []struct {
		name         string
		refreshToken string
		setupMocks   func(j *MockJWTService, s *MockTokenStore)
		expectErr    error
		expectReason string
	}{
		{
			name:         "empty token",
			refreshToken: "",
			expectErr:    srv.ErrTokenInvalid,
		},
		{
			name:         "unknown token",
			refreshToken: "unknown-token",
			setupMocks: func(j *MockJWTService, s *MockTokenStore) {
				s.On("Validate", ctx, "unknown-token").Return(
					&model.RefreshTokenValidation{Valid: false, Reason: model.ReasonNotFound}, nil)
			},
			expectErr:    srv.ErrTokenInvalid,
			expectReason: model.ReasonNotFound,
		},
		{
			name:         "revoked token",
			refreshToken: "revoked-token",
			setupMocks: func(j *MockJWTService, s *MockTokenStore) {
				s.On("Validate", ctx, "revoked-token").Return(
					&model.RefreshTokenValidation{Valid: false, Reason: model.ReasonRevoked}, nil)
			},
			expectErr:    srv.ErrTokenInvalid,
			expectReason: model.ReasonRevoked,
		},
		{
			name:         "expired token",
			refreshToken: "expired-token",
			setupMocks: func(j *MockJWTService, s *MockTokenStore) {
				s.On("Validate", ctx, "expired-token").Return(
					&model.RefreshTokenValidation{Valid: false, Reason: model.ReasonExpired}, nil)
			},
			expectErr:    srv.ErrTokenInvalid,
			expectReason: model.ReasonExpired,
		},
		{
			name:         "lost rotation race",
			refreshToken: "old-token",
			setupMocks: func(j *MockJWTService, s *MockTokenStore) {
				s.On("Validate", ctx, "old-token").Return(validResult, nil)
				j.On("GenerateAccessToken", "user-123", "mads@example.com", "").Return("new-access", nil)
				j.On("GenerateRefreshToken", "user-123", "mads@example.com").Return("new-refresh", newRecord, nil)
				// конкурентный refresh успел первым
				s.On("Rotate", ctx, "old-token", "new-refresh", newRecord).Return(
					&model.RefreshTokenValidation{Valid: false, Reason: model.ReasonRevoked}, nil)
			},
			expectErr:    srv.ErrTokenInvalid,
			expectReason: model.ReasonRevoked,
		},
		{
			name:         "success",
			refreshToken: "old-token",
			setupMocks: func(j *MockJWTService, s *MockTokenStore) {
				s.On("Validate", ctx, "old-token").Return(validResult, nil)
				j.On("GenerateAccessToken", "user-123", "mads@example.com", "").Return("new-access", nil)
				j.On("GenerateRefreshToken", "user-123", "mads@example.com").Return("new-refresh", newRecord, nil)
				s.On("Rotate", ctx, "old-token", "new-refresh", newRecord).Return(validResult, nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockJWTService := new(MockJWTService)
			mockTokenStore := new(MockTokenStore)
			service := srv.NewAuthenticationService(mockTokenStore, mockJWTService, new(MockUserRepository))

			if tt.setupMocks != nil {
				tt.setupMocks(mockJWTService, mockTokenStore)
			}

			tokens, err := service.Refresh(ctx, tt.refreshToken)

			if tt.expectErr != nil {
				assert.ErrorIs(t, err, tt.expectErr)
				if tt.expectReason != "" {
					assert.Contains(t, err.Error(), tt.expectReason)
				}
				assert.Nil(t, tokens)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "new-access", tokens.AccessToken)
				assert.Equal(t, "new-refresh", tokens.RefreshToken)
				assert.Equal(t, newRecord.ExpireAt, tokens.RefreshExpireAt)
			}

			mockJWTService.AssertExpectations(t)
			mockTokenStore.AssertExpectations(t)
		})
	}
}

func TestAuthenticationService_Logout(t *testing.T) {
	ctx := context.Background()

	mockTokenStore := new(MockTokenStore)
	mockTokenStore.On("Revoke", ctx, "some-token").Return(nil)

	service := srv.NewAuthenticationService(mockTokenStore, new(MockJWTService), new(MockUserRepository))

	assert.NoError(t, service.Logout(ctx, "some-token"))
	// повторный logout того же токена тоже успешен
	assert.NoError(t, service.Logout(ctx, "some-token"))

	mockTokenStore.AssertExpectations(t)
}

func TestAuthenticationService_Verify(t *testing.T) {
	ctx := context.Background()

	mockJWTService := new(MockJWTService)
	mockJWTService.On("ParseAccessToken", "good-token").Return(&security.Claims{Email: "mads@example.com"}, nil)
	mockJWTService.On("ParseAccessToken", "bad-token").Return(nil, errors.New("невалидный токен"))

	service := srv.NewAuthenticationService(new(MockTokenStore), mockJWTService, new(MockUserRepository))

	claims, err := service.Verify(ctx, "good-token")
	assert.NoError(t, err)
	assert.Equal(t, "mads@example.com", claims.Email)

	claims, err = service.Verify(ctx, "bad-token")
	assert.ErrorIs(t, err, srv.ErrTokenInvalid)
	assert.Nil(t, claims)

	mockJWTService.AssertExpectations(t)
}
