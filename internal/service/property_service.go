package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"property-tracker/internal/model"
	"property-tracker/internal/model/requestresponse"
	"property-tracker/internal/ports"

	"github.com/google/uuid"
)

var (
	ErrAddressRequired = errors.New("address is required")
	ErrPropertyMissing = errors.New("property not found")
	ErrHasTenants      = errors.New("cannot delete property with active tenants")
	ErrInvalidRent     = errors.New("monthly rent must be a positive value")
	ErrInvalidAmount   = errors.New("payment amount must be a positive value")
)

type PropertyService struct {
	propertyRepo ports.PropertyRepository
	cacheRepo    ports.CacheRepository
	s3Storage    ports.S3Storage
	geocoder     ports.Geocoder
	presignTTL   time.Duration
}

func NewPropertyService(
	propertyRepo ports.PropertyRepository,
	cacheRepo ports.CacheRepository,
	s3Storage ports.S3Storage,
	geocoder ports.Geocoder,
	presignTTL time.Duration,
) *PropertyService {
	return &PropertyService{
		propertyRepo: propertyRepo,
		cacheRepo:    cacheRepo,
		s3Storage:    s3Storage,
		geocoder:     geocoder,
		presignTTL:   presignTTL,
	}
}

// ListProperties : список объектов с числом арендаторов и суммой аренды
func (s *PropertyService) ListProperties(ctx context.Context) ([]requestresponse.PropertyResponse, error) {
	properties, err := s.propertyRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("[PropertyService] не удалось получить объекты: %w", err)
	}

	responses := make([]requestresponse.PropertyResponse, 0, len(properties))
	for i := range properties {
		responses = append(responses, toPropertyResponse(&properties[i]))
	}
	return responses, nil
}

// GetProperty : объект с арендаторами и платежами, сначала из кэша
func (s *PropertyService) GetProperty(ctx context.Context, propertyUUID string) (*requestresponse.PropertyDetailResponse, error) {
	property, err := s.cacheRepo.GetProperty(ctx, propertyUUID)
	if err != nil {
		log.Printf("[PropertyService] кэш недоступен: %v", err)
	}

	if property == nil {
		property, err = s.propertyRepo.GetByUUID(ctx, propertyUUID)
		if err != nil {
			return nil, err
		}
		if cacheErr := s.cacheRepo.SetProperty(ctx, property); cacheErr != nil {
			log.Printf("[PropertyService] не удалось закэшировать объект: %v", cacheErr)
		}
	}

	detail := toPropertyDetail(property)

	if property.PhotoKey != nil {
		photoURL, err := s.s3Storage.GeneratePresignedGetURL(ctx, *property.PhotoKey, s.presignTTL)
		if err != nil {
			log.Printf("[PropertyService] не удалось получить ссылку на фотографию: %v", err)
		} else {
			detail.PhotoURL = photoURL
		}
	}

	return detail, nil
}

// CreateProperty : создание объекта с геокодированием адреса.
// Сбой геокодера не мешает созданию, координаты остаются пустыми.
func (s *PropertyService) CreateProperty(ctx context.Context, req *requestresponse.PropertyCreateRequest) (*requestresponse.PropertyResponse, error) {
	if strings.TrimSpace(req.Address) == "" {
		return nil, ErrAddressRequired
	}

	address := formatAddress(req.Address)

	property := &model.Property{
		UUID:          uuid.New().String(),
		Name:          req.Name,
		Address:       address,
		PurchasePrice: req.PurchasePrice,
		PurchaseDate:  req.PurchaseDate,
		SquareMeters:  req.SquareMeters,
	}
	if property.PurchaseDate.IsZero() {
		property.PurchaseDate = time.Now().UTC()
	}

	coordinates, err := s.geocoder.GetCoordinates(ctx, address)
	if err != nil {
		log.Printf("[PropertyService] геокодирование не удалось для %q: %v", address, err)
	}
	if coordinates != nil {
		property.Latitude = &coordinates.Latitude
		property.Longitude = &coordinates.Longitude
	}

	created, err := s.propertyRepo.Create(ctx, property)
	if err != nil {
		return nil, fmt.Errorf("[PropertyService] не удалось создать объект: %w", err)
	}

	response := toPropertyResponse(created)
	return &response, nil
}

// UpdateProperty : обновляет объект, при смене адреса геокодирует заново
func (s *PropertyService) UpdateProperty(ctx context.Context, propertyUUID string, req *requestresponse.PropertyUpdateRequest) error {
	if strings.TrimSpace(req.Address) == "" {
		return ErrAddressRequired
	}

	property, err := s.propertyRepo.GetByUUID(ctx, propertyUUID)
	if err != nil {
		return err
	}

	address := formatAddress(req.Address)
	if address != property.Address {
		coordinates, err := s.geocoder.GetCoordinates(ctx, address)
		if err != nil {
			log.Printf("[PropertyService] геокодирование не удалось для %q: %v", address, err)
		}
		property.Latitude = nil
		property.Longitude = nil
		if coordinates != nil {
			property.Latitude = &coordinates.Latitude
			property.Longitude = &coordinates.Longitude
		}
	}

	property.Name = req.Name
	property.Address = address
	property.PurchasePrice = req.PurchasePrice
	property.PurchaseDate = req.PurchaseDate
	property.SquareMeters = req.SquareMeters

	if err := s.propertyRepo.Update(ctx, property); err != nil {
		return err
	}

	s.invalidateCache(ctx, propertyUUID)
	return nil
}

// DeleteProperty : удаление запрещено, пока в объекте живут арендаторы
func (s *PropertyService) DeleteProperty(ctx context.Context, propertyUUID string) error {
	property, err := s.propertyRepo.GetByUUID(ctx, propertyUUID)
	if err != nil {
		return err
	}

	count, err := s.propertyRepo.CountTenants(ctx, propertyUUID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrHasTenants
	}

	if err := s.propertyRepo.Delete(ctx, propertyUUID); err != nil {
		return err
	}

	if property.PhotoKey != nil {
		if err := s.s3Storage.DeleteObject(ctx, *property.PhotoKey); err != nil {
			log.Printf("[PropertyService] не удалось удалить фотографию: %v", err)
		}
	}

	s.invalidateCache(ctx, propertyUUID)
	return nil
}

// PropertyPhotoUploadURL : pre-signed PUT для загрузки фотографии объекта
func (s *PropertyService) PropertyPhotoUploadURL(ctx context.Context, propertyUUID string) (*requestresponse.PhotoUploadResponse, error) {
	exists, err := s.propertyRepo.Exists(ctx, propertyUUID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("[PropertyService] объект %s не найден: %w", propertyUUID, ErrPropertyMissing)
	}

	photoKey := fmt.Sprintf("properties/%s/photo", propertyUUID)
	uploadURL, err := s.s3Storage.GeneratePresignedPutURL(ctx, photoKey, s.presignTTL)
	if err != nil {
		return nil, err
	}

	if err := s.propertyRepo.UpdatePhotoKey(ctx, propertyUUID, photoKey); err != nil {
		return nil, err
	}

	s.invalidateCache(ctx, propertyUUID)
	return &requestresponse.PhotoUploadResponse{UploadURL: uploadURL, PhotoKey: photoKey}, nil
}

// AddTenant : заселение арендатора
func (s *PropertyService) AddTenant(ctx context.Context, propertyUUID string, req *requestresponse.TenantCreateRequest) (*requestresponse.TenantResponse, error) {
	if req.MonthlyRent <= 0 {
		return nil, ErrInvalidRent
	}

	exists, err := s.propertyRepo.Exists(ctx, propertyUUID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("[PropertyService] объект %s не найден: %w", propertyUUID, ErrPropertyMissing)
	}

	tenant := &model.Tenant{
		UUID:         uuid.New().String(),
		PropertyUUID: propertyUUID,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		MoveInDate:   req.MoveInDate,
		MonthlyRent:  req.MonthlyRent,
	}
	if tenant.MoveInDate.IsZero() {
		tenant.MoveInDate = time.Now().UTC()
	}

	created, err := s.propertyRepo.AddTenant(ctx, tenant)
	if err != nil {
		return nil, err
	}

	s.invalidateCache(ctx, propertyUUID)
	response := toTenantResponse(created)
	return &response, nil
}

// ListTenants : арендаторы объекта, включая выехавших
func (s *PropertyService) ListTenants(ctx context.Context, propertyUUID string) ([]requestresponse.TenantResponse, error) {
	exists, err := s.propertyRepo.Exists(ctx, propertyUUID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("[PropertyService] объект %s не найден: %w", propertyUUID, ErrPropertyMissing)
	}

	tenants, err := s.propertyRepo.ListTenants(ctx, propertyUUID)
	if err != nil {
		return nil, err
	}

	responses := make([]requestresponse.TenantResponse, 0, len(tenants))
	for i := range tenants {
		responses = append(responses, toTenantResponse(&tenants[i]))
	}
	return responses, nil
}

// UpdateTenant : обновляет имя и арендную плату
func (s *PropertyService) UpdateTenant(ctx context.Context, tenantUUID string, req *requestresponse.TenantUpdateRequest) error {
	if req.MonthlyRent <= 0 {
		return ErrInvalidRent
	}

	tenant, err := s.propertyRepo.GetTenant(ctx, tenantUUID)
	if err != nil {
		return err
	}

	tenant.FirstName = req.FirstName
	tenant.LastName = req.LastName
	tenant.MonthlyRent = req.MonthlyRent

	if err := s.propertyRepo.UpdateTenant(ctx, tenant); err != nil {
		return err
	}

	s.invalidateCache(ctx, tenant.PropertyUUID)
	return nil
}

// MoveOutTenant : фиксирует выезд, история платежей сохраняется
func (s *PropertyService) MoveOutTenant(ctx context.Context, tenantUUID string) error {
	tenant, err := s.propertyRepo.GetTenant(ctx, tenantUUID)
	if err != nil {
		return err
	}

	if err := s.propertyRepo.SetTenantMoveOut(ctx, tenantUUID); err != nil {
		return err
	}

	s.invalidateCache(ctx, tenant.PropertyUUID)
	return nil
}

// RecordPayment : регистрирует платёж арендатора
func (s *PropertyService) RecordPayment(ctx context.Context, tenantUUID string, req *requestresponse.PaymentCreateRequest) (*requestresponse.PaymentResponse, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	tenant, err := s.propertyRepo.GetTenant(ctx, tenantUUID)
	if err != nil {
		return nil, err
	}

	payment := &model.Payment{
		UUID:        uuid.New().String(),
		TenantUUID:  tenantUUID,
		Amount:      req.Amount,
		PaymentDate: req.PaymentDate,
	}
	if payment.PaymentDate.IsZero() {
		payment.PaymentDate = time.Now().UTC()
	}

	created, err := s.propertyRepo.AddPayment(ctx, payment)
	if err != nil {
		return nil, err
	}

	s.invalidateCache(ctx, tenant.PropertyUUID)
	response := toPaymentResponse(created)
	return &response, nil
}

// ListPayments : платежи арендатора
func (s *PropertyService) ListPayments(ctx context.Context, tenantUUID string) ([]requestresponse.PaymentResponse, error) {
	if _, err := s.propertyRepo.GetTenant(ctx, tenantUUID); err != nil {
		return nil, err
	}

	payments, err := s.propertyRepo.ListPayments(ctx, tenantUUID)
	if err != nil {
		return nil, err
	}

	responses := make([]requestresponse.PaymentResponse, 0, len(payments))
	for i := range payments {
		responses = append(responses, toPaymentResponse(&payments[i]))
	}
	return responses, nil
}

func (s *PropertyService) invalidateCache(ctx context.Context, propertyUUID string) {
	if err := s.cacheRepo.DeleteProperty(ctx, propertyUUID); err != nil {
		log.Printf("[PropertyService] не удалось инвалидировать кэш: %v", err)
	}
}

// formatAddress : схлопывает лишние пробелы, адрес хранится в одном виде
func formatAddress(address string) string {
	return strings.Join(strings.Fields(address), " ")
}

func toPropertyResponse(property *model.Property) requestresponse.PropertyResponse {
	tenantCount := 0
	totalRent := 0.0
	for i := range property.Tenants {
		if property.Tenants[i].MoveOutDate == nil {
			tenantCount++
			totalRent += property.Tenants[i].MonthlyRent
		}
	}

	return requestresponse.PropertyResponse{
		UUID:             property.UUID,
		Name:             property.Name,
		Address:          property.Address,
		PurchasePrice:    property.PurchasePrice,
		SquareMeters:     property.SquareMeters,
		Latitude:         property.Latitude,
		Longitude:        property.Longitude,
		TenantCount:      tenantCount,
		TotalMonthlyRent: totalRent,
	}
}

func toPropertyDetail(property *model.Property) *requestresponse.PropertyDetailResponse {
	tenants := make([]requestresponse.TenantResponse, 0, len(property.Tenants))
	for i := range property.Tenants {
		tenants = append(tenants, toTenantResponse(&property.Tenants[i]))
	}

	return &requestresponse.PropertyDetailResponse{
		UUID:          property.UUID,
		Name:          property.Name,
		Address:       property.Address,
		PurchasePrice: property.PurchasePrice,
		PurchaseDate:  property.PurchaseDate,
		SquareMeters:  property.SquareMeters,
		Latitude:      property.Latitude,
		Longitude:     property.Longitude,
		Tenants:       tenants,
	}
}

func toTenantResponse(tenant *model.Tenant) requestresponse.TenantResponse {
	payments := make([]requestresponse.PaymentResponse, 0, len(tenant.Payments))
	for i := range tenant.Payments {
		payments = append(payments, toPaymentResponse(&tenant.Payments[i]))
	}

	return requestresponse.TenantResponse{
		UUID:         tenant.UUID,
		PropertyUUID: tenant.PropertyUUID,
		FirstName:    tenant.FirstName,
		LastName:     tenant.LastName,
		MoveInDate:   tenant.MoveInDate,
		MoveOutDate:  tenant.MoveOutDate,
		MonthlyRent:  tenant.MonthlyRent,
		Payments:     payments,
	}
}

func toPaymentResponse(payment *model.Payment) requestresponse.PaymentResponse {
	return requestresponse.PaymentResponse{
		UUID:        payment.UUID,
		TenantUUID:  payment.TenantUUID,
		Amount:      payment.Amount,
		PaymentDate: payment.PaymentDate,
	}
}
