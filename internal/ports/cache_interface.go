package ports

import (
	"context"

	"property-tracker/internal/model"
)

// CacheRepository : Redis слой
type CacheRepository interface {
	SetProperty(ctx context.Context, property *model.Property) error
	GetProperty(ctx context.Context, uuid string) (*model.Property, error)
	DeleteProperty(ctx context.Context, uuid string) error
}
