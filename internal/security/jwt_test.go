package security_test

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"property-tracker/config"
	"property-tracker/internal/security"

	"github.com/stretchr/testify/assert"
)

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{
		SecretKey:           base64.StdEncoding.EncodeToString([]byte("test-secret-key-32-bytes-long!!!")),
		Issuer:              "property-tracker",
		Audience:            "property-tracker-api",
		AccessTokenTTLMin:   15,
		RefreshTokenTTLDays: 7,
	}
}

func TestNewJWTService(t *testing.T) {
	service, err := security.NewJWTService(testJWTConfig())
	assert.NoError(t, err)
	assert.NotNil(t, service)

	_, err = security.NewJWTService(&config.JWTConfig{})
	assert.Error(t, err)

	_, err = security.NewJWTService(&config.JWTConfig{SecretKey: "not-base64!!!"})
	assert.Error(t, err)
}

func TestJWTService_AccessTokenRoundTrip(t *testing.T) {
	service, err := security.NewJWTService(testJWTConfig())
	assert.NoError(t, err)

	token, err := service.GenerateAccessToken("user-123", "mads@example.com", "User")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := service.ParseAccessToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", claims.Subject)
	assert.Equal(t, "mads@example.com", claims.Email)
	assert.Equal(t, "User", claims.Role)
	assert.Equal(t, "property-tracker", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}

// каждый выпуск получает собственный jti
func TestJWTService_UniqueTokenID(t *testing.T) {
	service, err := security.NewJWTService(testJWTConfig())
	assert.NoError(t, err)

	first, err := service.GenerateAccessToken("user-123", "mads@example.com", "User")
	assert.NoError(t, err)
	second, err := service.GenerateAccessToken("user-123", "mads@example.com", "User")
	assert.NoError(t, err)

	firstClaims, err := service.ParseAccessToken(first)
	assert.NoError(t, err)
	secondClaims, err := service.ParseAccessToken(second)
	assert.NoError(t, err)

	assert.NotEqual(t, firstClaims.ID, secondClaims.ID)
}

func TestJWTService_RejectsTamperedToken(t *testing.T) {
	service, err := security.NewJWTService(testJWTConfig())
	assert.NoError(t, err)

	token, err := service.GenerateAccessToken("user-123", "mads@example.com", "User")
	assert.NoError(t, err)

	parts := strings.Split(token, ".")
	tampered := parts[0] + "." + parts[1] + ".AAAA" + parts[2][4:]

	_, err = service.ParseAccessToken(tampered)
	assert.Error(t, err)
}

func TestJWTService_RejectsWrongIssuerAndAudience(t *testing.T) {
	issuerCfg := testJWTConfig()
	issuerCfg.Issuer = "another-service"
	issuerService, err := security.NewJWTService(issuerCfg)
	assert.NoError(t, err)

	audienceCfg := testJWTConfig()
	audienceCfg.Audience = "another-api"
	audienceService, err := security.NewJWTService(audienceCfg)
	assert.NoError(t, err)

	service, err := security.NewJWTService(testJWTConfig())
	assert.NoError(t, err)

	wrongIssuer, err := issuerService.GenerateAccessToken("user-123", "mads@example.com", "User")
	assert.NoError(t, err)
	_, err = service.ParseAccessToken(wrongIssuer)
	assert.Error(t, err)

	wrongAudience, err := audienceService.GenerateAccessToken("user-123", "mads@example.com", "User")
	assert.NoError(t, err)
	_, err = service.ParseAccessToken(wrongAudience)
	assert.Error(t, err)
}

func TestJWTService_RejectsExpiredToken(t *testing.T) {
	cfg := testJWTConfig()
	cfg.AccessTokenTTLMin = -1
	expiredService, err := security.NewJWTService(cfg)
	assert.NoError(t, err)

	token, err := expiredService.GenerateAccessToken("user-123", "mads@example.com", "User")
	assert.NoError(t, err)

	service, err := security.NewJWTService(testJWTConfig())
	assert.NoError(t, err)

	_, err = service.ParseAccessToken(token)
	assert.Error(t, err)
}

func TestJWTService_GenerateRefreshToken(t *testing.T) {
	service, err := security.NewJWTService(testJWTConfig())
	assert.NoError(t, err)

	token, record, err := service.GenerateRefreshToken("user-123", "mads@example.com")
	assert.NoError(t, err)

	// 64 случайных байта в base64url без паддинга
	assert.Len(t, token, 86)
	assert.NotContains(t, token, "=")
	assert.NotContains(t, token, "+")
	assert.NotContains(t, token, "/")

	decoded, err := base64.RawURLEncoding.DecodeString(token)
	assert.NoError(t, err)
	assert.Len(t, decoded, 64)

	assert.Equal(t, "user-123", record.UserUUID)
	assert.Equal(t, "mads@example.com", record.Email)
	assert.False(t, record.Revoked)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), record.ExpireAt, time.Minute)

	second, _, err := service.GenerateRefreshToken("user-123", "mads@example.com")
	assert.NoError(t, err)
	assert.NotEqual(t, token, second)
}

func TestHashPassword(t *testing.T) {
	hash, err := security.HashPassword("Str0ngPassword")
	assert.NoError(t, err)
	assert.NotEqual(t, "Str0ngPassword", hash)

	assert.True(t, security.CheckPassword("Str0ngPassword", hash))
	assert.False(t, security.CheckPassword("WrongPassword1", hash))
}
