package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"property-tracker/internal/model/requestresponse"
	"property-tracker/internal/ports"
	"property-tracker/internal/repository"
	"property-tracker/internal/security"
	"property-tracker/internal/service"

	"github.com/go-chi/chi/v5"
)

type PropertyHandler struct {
	ports.PropertyService
}

func NewPropertyHandler(propertyService *service.PropertyService) *PropertyHandler {
	return &PropertyHandler{propertyService}
}

// ListProperties godoc
// @Summary Список объектов недвижимости
// @Description Возвращает все объекты с числом арендаторов и суммарной арендной платой
// @Tags Properties
// @Produce json
// @Security BearerAuth
// @Success 200 {array} requestresponse.PropertyResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/properties [get]
func (h *PropertyHandler) ListProperties(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	properties, err := h.PropertyService.ListProperties(r.Context())
	if err != nil {
		log.Println(err)
		sendErrorResponse(w, 500, "внутренняя ошибка сервера")
		return
	}

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(properties)
}

// GetProperty godoc
// @Summary Объект недвижимости
// @Description Возвращает объект с арендаторами, платежами и ссылкой на фотографию
// @Tags Properties
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "UUID объекта"
// @Success 200 {object} requestresponse.PropertyDetailResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/properties/{uuid} [get]
func (h *PropertyHandler) GetProperty(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	propertyUUID := chi.URLParam(r, "uuid")

	property, err := h.PropertyService.GetProperty(r.Context(), propertyUUID)
	if err != nil {
		h.handlePropertyError(w, err)
		return
	}

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(property)
}

// CreateProperty godoc
// @Summary Создание объекта недвижимости
// @Description Создаёт объект, адрес геокодируется во внешнем сервисе
// @Tags Properties
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body requestresponse.PropertyCreateRequest true "Тело запроса"
// @Success 201 {object} requestresponse.PropertyResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/properties [post]
func (h *PropertyHandler) CreateProperty(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req requestresponse.PropertyCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorResponse(w, 400, "некорректный JSON")
		return
	}

	if claims, err := security.GetClaimsFromContext(r.Context()); err == nil {
		log.Printf("[PropertyHandler] пользователь %s создаёт объект %q", claims.Subject, req.Name)
	}

	property, err := h.PropertyService.CreateProperty(r.Context(), &req)
	if err != nil {
		h.handlePropertyError(w, err)
		return
	}

	w.WriteHeader(201)
	json.NewEncoder(w).Encode(property)
}

// UpdateProperty godoc
// @Summary Обновление объекта недвижимости
// @Description Обновляет объект, при смене адреса координаты пересчитываются
// @Tags Properties
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "UUID объекта"
// @Param body body requestresponse.PropertyUpdateRequest true "Тело запроса"
// @Success 204 "Объект обновлён"
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/properties/{uuid} [put]
func (h *PropertyHandler) UpdateProperty(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	propertyUUID := chi.URLParam(r, "uuid")

	var req requestresponse.PropertyUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorResponse(w, 400, "некорректный JSON")
		return
	}

	if err := h.PropertyService.UpdateProperty(r.Context(), propertyUUID, &req); err != nil {
		h.handlePropertyError(w, err)
		return
	}

	w.WriteHeader(204)
}

// DeleteProperty godoc
// @Summary Удаление объекта недвижимости
// @Description Удаляет объект, если в нём нет действующих арендаторов
// @Tags Properties
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "UUID объекта"
// @Success 204 "Объект удалён"
// @Failure 400 {object} requestresponse.ErrorResponse "В объекте есть арендаторы"
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/properties/{uuid} [delete]
func (h *PropertyHandler) DeleteProperty(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	propertyUUID := chi.URLParam(r, "uuid")

	if err := h.PropertyService.DeleteProperty(r.Context(), propertyUUID); err != nil {
		h.handlePropertyError(w, err)
		return
	}

	w.WriteHeader(204)
}

// PhotoUploadURL godoc
// @Summary Ссылка для загрузки фотографии
// @Description Выдаёт pre-signed PUT URL для загрузки фотографии объекта
// @Tags Properties
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "UUID объекта"
// @Success 200 {object} requestresponse.PhotoUploadResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/properties/{uuid}/photo-upload [post]
func (h *PropertyHandler) PhotoUploadURL(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	propertyUUID := chi.URLParam(r, "uuid")

	upload, err := h.PropertyService.PropertyPhotoUploadURL(r.Context(), propertyUUID)
	if err != nil {
		h.handlePropertyError(w, err)
		return
	}

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(upload)
}

// AddTenant godoc
// @Summary Заселение арендатора
// @Description Добавляет арендатора в объект недвижимости
// @Tags Tenants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "UUID объекта"
// @Param body body requestresponse.TenantCreateRequest true "Тело запроса"
// @Success 201 {object} requestresponse.TenantResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/properties/{uuid}/tenants [post]
func (h *PropertyHandler) AddTenant(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	propertyUUID := chi.URLParam(r, "uuid")

	var req requestresponse.TenantCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorResponse(w, 400, "некорректный JSON")
		return
	}

	tenant, err := h.PropertyService.AddTenant(r.Context(), propertyUUID, &req)
	if err != nil {
		h.handlePropertyError(w, err)
		return
	}

	w.WriteHeader(201)
	json.NewEncoder(w).Encode(tenant)
}

// ListTenants godoc
// @Summary Арендаторы объекта
// @Description Возвращает арендаторов объекта недвижимости, включая выехавших
// @Tags Tenants
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "UUID объекта"
// @Success 200 {array} requestresponse.TenantResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/properties/{uuid}/tenants [get]
func (h *PropertyHandler) ListTenants(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	propertyUUID := chi.URLParam(r, "uuid")

	tenants, err := h.PropertyService.ListTenants(r.Context(), propertyUUID)
	if err != nil {
		h.handlePropertyError(w, err)
		return
	}

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(tenants)
}

// UpdateTenant godoc
// @Summary Обновление арендатора
// @Description Обновляет имя и арендную плату арендатора
// @Tags Tenants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "UUID арендатора"
// @Param body body requestresponse.TenantUpdateRequest true "Тело запроса"
// @Success 204 "Арендатор обновлён"
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/tenants/{uuid} [put]
func (h *PropertyHandler) UpdateTenant(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	tenantUUID := chi.URLParam(r, "uuid")

	var req requestresponse.TenantUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorResponse(w, 400, "некорректный JSON")
		return
	}

	if err := h.PropertyService.UpdateTenant(r.Context(), tenantUUID, &req); err != nil {
		h.handlePropertyError(w, err)
		return
	}

	w.WriteHeader(204)
}

// MoveOutTenant godoc
// @Summary Выезд арендатора
// @Description Фиксирует дату выезда, история платежей сохраняется
// @Tags Tenants
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "UUID арендатора"
// @Success 204 "Выезд зафиксирован"
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/tenants/{uuid}/move-out [post]
func (h *PropertyHandler) MoveOutTenant(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	tenantUUID := chi.URLParam(r, "uuid")

	if err := h.PropertyService.MoveOutTenant(r.Context(), tenantUUID); err != nil {
		h.handlePropertyError(w, err)
		return
	}

	w.WriteHeader(204)
}

// RecordPayment godoc
// @Summary Регистрация платежа
// @Description Регистрирует платёж арендатора
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "UUID арендатора"
// @Param body body requestresponse.PaymentCreateRequest true "Тело запроса"
// @Success 201 {object} requestresponse.PaymentResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/tenants/{uuid}/payments [post]
func (h *PropertyHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	tenantUUID := chi.URLParam(r, "uuid")

	var req requestresponse.PaymentCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorResponse(w, 400, "некорректный JSON")
		return
	}

	payment, err := h.PropertyService.RecordPayment(r.Context(), tenantUUID, &req)
	if err != nil {
		h.handlePropertyError(w, err)
		return
	}

	w.WriteHeader(201)
	json.NewEncoder(w).Encode(payment)
}

// ListPayments godoc
// @Summary Платежи арендатора
// @Description Возвращает все платежи арендатора
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "UUID арендатора"
// @Success 200 {array} requestresponse.PaymentResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/tenants/{uuid}/payments [get]
func (h *PropertyHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	tenantUUID := chi.URLParam(r, "uuid")

	payments, err := h.PropertyService.ListPayments(r.Context(), tenantUUID)
	if err != nil {
		h.handlePropertyError(w, err)
		return
	}

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(payments)
}

func (h *PropertyHandler) handlePropertyError(w http.ResponseWriter, err error) {
	log.Println(err)
	switch {
	case errors.Is(err, service.ErrAddressRequired),
		errors.Is(err, service.ErrInvalidRent),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrHasTenants):
		sendErrorResponse(w, 400, err.Error())
	case errors.Is(err, service.ErrPropertyMissing),
		errors.Is(err, repository.ErrNotFound):
		sendErrorResponse(w, 404, "запись не найдена")
	default:
		sendErrorResponse(w, 500, "внутренняя ошибка сервера")
	}
}
