package ports

import (
	"context"

	"property-tracker/internal/model"
	"property-tracker/internal/security"
)

type AuthenticationService interface {
	Login(ctx context.Context, email, password string) (*model.TokensPair, *model.User, error)
	Register(ctx context.Context, email, username, password string) (*model.User, error)
	Verify(ctx context.Context, accessToken string) (*security.Claims, error)
	Refresh(ctx context.Context, refreshToken string) (*model.TokensPair, error)
	Logout(ctx context.Context, refreshToken string) error
}
