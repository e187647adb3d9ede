package repository

import (
	"context"
	"database/sql"
	"errors"

	"property-tracker/config"
	"property-tracker/internal/model"
	"property-tracker/internal/util"

	"github.com/jmoiron/sqlx"
)

var ErrNotFound = errors.New("запись не найдена")

type PropertyRepository struct {
	*config.Database
}

func NewPropertyRepository(database *config.Database) *PropertyRepository {
	return &PropertyRepository{database}
}

// Create : сохраняет новый объект недвижимости
func (r *PropertyRepository) Create(ctx context.Context, property *model.Property) (*model.Property, error) {
	query := `
		INSERT INTO properties (uuid, name, address, purchase_price, purchase_date, square_meters, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING uuid, name, address, purchase_price, purchase_date, square_meters, latitude, longitude, created_at
	`

	created := &model.Property{}
	err := r.DB.QueryRowxContext(ctx, query,
		property.UUID,
		property.Name,
		property.Address,
		property.PurchasePrice,
		property.PurchaseDate,
		property.SquareMeters,
		property.Latitude,
		property.Longitude,
	).StructScan(created)

	if err != nil {
		return nil, util.LogError("[PropertyRepo] ошибка вставки данных в БД", err)
	}

	return created, nil
}

// GetAll : выдаёт все объекты вместе с их арендаторами
func (r *PropertyRepository) GetAll(ctx context.Context) ([]model.Property, error) {
	query := `
		SELECT uuid, name, address, purchase_price, purchase_date, square_meters, latitude, longitude, photo_key, created_at
		FROM properties
		ORDER BY created_at ASC
	`

	properties := []model.Property{}
	if err := sqlx.SelectContext(ctx, r.DB, &properties, query); err != nil {
		return nil, util.LogError("[PropertyRepo] не удалось получить список объектов", err)
	}

	for i := range properties {
		tenants, err := r.ListTenants(ctx, properties[i].UUID)
		if err != nil {
			return nil, err
		}
		properties[i].Tenants = tenants
	}

	return properties, nil
}

// GetByUUID : возвращает объект с арендаторами и их платежами
func (r *PropertyRepository) GetByUUID(ctx context.Context, propertyUUID string) (*model.Property, error) {
	query := `
		SELECT uuid, name, address, purchase_price, purchase_date, square_meters, latitude, longitude, photo_key, created_at
		FROM properties
		WHERE uuid = $1
	`

	var property model.Property
	err := sqlx.GetContext(ctx, r.DB, &property, query, propertyUUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, util.LogError("[PropertyRepo] не удалось найти объект", err)
	}

	tenants, err := r.ListTenants(ctx, propertyUUID)
	if err != nil {
		return nil, err
	}
	for i := range tenants {
		payments, err := r.ListPayments(ctx, tenants[i].UUID)
		if err != nil {
			return nil, err
		}
		tenants[i].Payments = payments
	}
	property.Tenants = tenants

	return &property, nil
}

// Update : обновляет изменяемые поля объекта
func (r *PropertyRepository) Update(ctx context.Context, property *model.Property) error {
	query := `
		UPDATE properties
		SET name = $2, address = $3, purchase_price = $4, purchase_date = $5,
			square_meters = $6, latitude = $7, longitude = $8
		WHERE uuid = $1
	`

	result, err := r.DB.ExecContext(ctx, query,
		property.UUID,
		property.Name,
		property.Address,
		property.PurchasePrice,
		property.PurchaseDate,
		property.SquareMeters,
		property.Latitude,
		property.Longitude,
	)
	if err != nil {
		return util.LogError("[PropertyRepo] не удалось обновить объект", err)
	}

	return requireRowsAffected(result, "[PropertyRepo] объект для обновления не найден")
}

// UpdatePhotoKey : сохраняет ключ фотографии объекта в S3
func (r *PropertyRepository) UpdatePhotoKey(ctx context.Context, propertyUUID string, photoKey string) error {
	query := `UPDATE properties SET photo_key = $2 WHERE uuid = $1`
	result, err := r.DB.ExecContext(ctx, query, propertyUUID, photoKey)
	if err != nil {
		return util.LogError("[PropertyRepo] не удалось сохранить ключ фотографии", err)
	}
	return requireRowsAffected(result, "[PropertyRepo] объект для обновления не найден")
}

// Delete : удаляет объект по UUID
func (r *PropertyRepository) Delete(ctx context.Context, propertyUUID string) error {
	query := `DELETE FROM properties WHERE uuid = $1`
	result, err := r.DB.ExecContext(ctx, query, propertyUUID)
	if err != nil {
		return util.LogError("[PropertyRepo] не удалось удалить объект", err)
	}
	return requireRowsAffected(result, "[PropertyRepo] объект для удаления не найден")
}

// Exists : проверяет, существует ли объект
func (r *PropertyRepository) Exists(ctx context.Context, propertyUUID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM properties WHERE uuid = $1)`
	err := sqlx.GetContext(ctx, r.DB, &exists, query, propertyUUID)
	if err != nil {
		return false, util.LogError("[PropertyRepo] ошибка проверки существования объекта", err)
	}
	return exists, nil
}

// CountTenants : количество незавершивших аренду арендаторов объекта
func (r *PropertyRepository) CountTenants(ctx context.Context, propertyUUID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM tenants WHERE property_uuid = $1 AND move_out_date IS NULL`
	err := sqlx.GetContext(ctx, r.DB, &count, query, propertyUUID)
	if err != nil {
		return 0, util.LogError("[PropertyRepo] ошибка подсчёта арендаторов", err)
	}
	return count, nil
}

// AddTenant : заселяет арендатора в объект
func (r *PropertyRepository) AddTenant(ctx context.Context, tenant *model.Tenant) (*model.Tenant, error) {
	query := `
		INSERT INTO tenants (uuid, property_uuid, first_name, last_name, move_in_date, monthly_rent)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING uuid, property_uuid, first_name, last_name, move_in_date, move_out_date, monthly_rent
	`

	created := &model.Tenant{}
	err := r.DB.QueryRowxContext(ctx, query,
		tenant.UUID,
		tenant.PropertyUUID,
		tenant.FirstName,
		tenant.LastName,
		tenant.MoveInDate,
		tenant.MonthlyRent,
	).StructScan(created)

	if err != nil {
		return nil, util.LogError("[PropertyRepo] ошибка заселения арендатора", err)
	}

	return created, nil
}

// GetTenant : ищет арендатора по UUID
func (r *PropertyRepository) GetTenant(ctx context.Context, tenantUUID string) (*model.Tenant, error) {
	query := `
		SELECT uuid, property_uuid, first_name, last_name, move_in_date, move_out_date, monthly_rent
		FROM tenants
		WHERE uuid = $1
	`

	var tenant model.Tenant
	err := sqlx.GetContext(ctx, r.DB, &tenant, query, tenantUUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, util.LogError("[PropertyRepo] не удалось найти арендатора", err)
	}
	return &tenant, nil
}

// UpdateTenant : обновляет имя и арендную плату
func (r *PropertyRepository) UpdateTenant(ctx context.Context, tenant *model.Tenant) error {
	query := `
		UPDATE tenants
		SET first_name = $2, last_name = $3, monthly_rent = $4
		WHERE uuid = $1
	`
	result, err := r.DB.ExecContext(ctx, query, tenant.UUID, tenant.FirstName, tenant.LastName, tenant.MonthlyRent)
	if err != nil {
		return util.LogError("[PropertyRepo] не удалось обновить арендатора", err)
	}
	return requireRowsAffected(result, "[PropertyRepo] арендатор для обновления не найден")
}

// SetTenantMoveOut : фиксирует выезд арендатора текущей датой
func (r *PropertyRepository) SetTenantMoveOut(ctx context.Context, tenantUUID string) error {
	query := `UPDATE tenants SET move_out_date = NOW() WHERE uuid = $1 AND move_out_date IS NULL`
	result, err := r.DB.ExecContext(ctx, query, tenantUUID)
	if err != nil {
		return util.LogError("[PropertyRepo] не удалось зафиксировать выезд", err)
	}
	return requireRowsAffected(result, "[PropertyRepo] арендатор для выезда не найден")
}

// ListTenants : арендаторы объекта
func (r *PropertyRepository) ListTenants(ctx context.Context, propertyUUID string) ([]model.Tenant, error) {
	query := `
		SELECT uuid, property_uuid, first_name, last_name, move_in_date, move_out_date, monthly_rent
		FROM tenants
		WHERE property_uuid = $1
		ORDER BY move_in_date ASC
	`

	tenants := []model.Tenant{}
	if err := sqlx.SelectContext(ctx, r.DB, &tenants, query, propertyUUID); err != nil {
		return nil, util.LogError("[PropertyRepo] не удалось получить арендаторов", err)
	}
	return tenants, nil
}

// AddPayment : регистрирует платёж арендатора
func (r *PropertyRepository) AddPayment(ctx context.Context, payment *model.Payment) (*model.Payment, error) {
	query := `
		INSERT INTO payments (uuid, tenant_uuid, amount, payment_date)
		VALUES ($1, $2, $3, $4)
		RETURNING uuid, tenant_uuid, amount, payment_date
	`

	created := &model.Payment{}
	err := r.DB.QueryRowxContext(ctx, query,
		payment.UUID,
		payment.TenantUUID,
		payment.Amount,
		payment.PaymentDate,
	).StructScan(created)

	if err != nil {
		return nil, util.LogError("[PropertyRepo] ошибка регистрации платежа", err)
	}

	return created, nil
}

// ListPayments : платежи арендатора
func (r *PropertyRepository) ListPayments(ctx context.Context, tenantUUID string) ([]model.Payment, error) {
	query := `
		SELECT uuid, tenant_uuid, amount, payment_date
		FROM payments
		WHERE tenant_uuid = $1
		ORDER BY payment_date DESC
	`

	payments := []model.Payment{}
	if err := sqlx.SelectContext(ctx, r.DB, &payments, query, tenantUUID); err != nil {
		return nil, util.LogError("[PropertyRepo] не удалось получить платежи", err)
	}
	return payments, nil
}

func requireRowsAffected(result sql.Result, message string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return util.LogError("не удалось проверить число изменённых строк", err)
	}
	if rowsAffected == 0 {
		return util.LogError(message, ErrNotFound)
	}
	return nil
}
