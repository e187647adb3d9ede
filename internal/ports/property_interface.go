package ports

import (
	"context"

	"property-tracker/internal/model"
	"property-tracker/internal/model/requestresponse"
)

// Geocoder : прямое геокодирование адреса во внешнем сервисе.
// Возвращает nil без ошибки, если адрес не удалось распознать.
type Geocoder interface {
	GetCoordinates(ctx context.Context, address string) (*model.Coordinates, error)
}

// PropertyRepository : SQL слой
type PropertyRepository interface {
	Create(ctx context.Context, property *model.Property) (*model.Property, error)
	GetAll(ctx context.Context) ([]model.Property, error)
	GetByUUID(ctx context.Context, propertyUUID string) (*model.Property, error)
	Update(ctx context.Context, property *model.Property) error
	UpdatePhotoKey(ctx context.Context, propertyUUID string, photoKey string) error
	Delete(ctx context.Context, propertyUUID string) error
	Exists(ctx context.Context, propertyUUID string) (bool, error)
	CountTenants(ctx context.Context, propertyUUID string) (int, error)

	AddTenant(ctx context.Context, tenant *model.Tenant) (*model.Tenant, error)
	GetTenant(ctx context.Context, tenantUUID string) (*model.Tenant, error)
	UpdateTenant(ctx context.Context, tenant *model.Tenant) error
	SetTenantMoveOut(ctx context.Context, tenantUUID string) error
	ListTenants(ctx context.Context, propertyUUID string) ([]model.Tenant, error)

	AddPayment(ctx context.Context, payment *model.Payment) (*model.Payment, error)
	ListPayments(ctx context.Context, tenantUUID string) ([]model.Payment, error)
}

type PropertyService interface {
	ListProperties(ctx context.Context) ([]requestresponse.PropertyResponse, error)
	GetProperty(ctx context.Context, propertyUUID string) (*requestresponse.PropertyDetailResponse, error)
	CreateProperty(ctx context.Context, req *requestresponse.PropertyCreateRequest) (*requestresponse.PropertyResponse, error)
	UpdateProperty(ctx context.Context, propertyUUID string, req *requestresponse.PropertyUpdateRequest) error
	DeleteProperty(ctx context.Context, propertyUUID string) error
	PropertyPhotoUploadURL(ctx context.Context, propertyUUID string) (*requestresponse.PhotoUploadResponse, error)

	AddTenant(ctx context.Context, propertyUUID string, req *requestresponse.TenantCreateRequest) (*requestresponse.TenantResponse, error)
	ListTenants(ctx context.Context, propertyUUID string) ([]requestresponse.TenantResponse, error)
	UpdateTenant(ctx context.Context, tenantUUID string, req *requestresponse.TenantUpdateRequest) error
	MoveOutTenant(ctx context.Context, tenantUUID string) error
	RecordPayment(ctx context.Context, tenantUUID string, req *requestresponse.PaymentCreateRequest) (*requestresponse.PaymentResponse, error)
	ListPayments(ctx context.Context, tenantUUID string) ([]requestresponse.PaymentResponse, error)
}
