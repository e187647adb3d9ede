package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"property-tracker/config"
	"property-tracker/internal/model"
	"property-tracker/internal/util"
)

// GeocodingService : прямое геокодирование через Nominatim.
// Nominatim требует осмысленный User-Agent, иначе режет запросы.
type GeocodingService struct {
	client    *http.Client
	baseURL   string
	userAgent string
}

func NewGeocodingService(cfg *config.GeocodingConfig) (*GeocodingService, error) {
	timeout := 5 * time.Second
	if cfg.Timeout != "" {
		parsed, err := time.ParseDuration(cfg.Timeout)
		if err != nil {
			return nil, fmt.Errorf("некорректный таймаут геокодирования: %w", err)
		}
		timeout = parsed
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://nominatim.openstreetmap.org"
	}

	return &GeocodingService{
		client:    &http.Client{Timeout: timeout},
		baseURL:   baseURL,
		userAgent: cfg.UserAgent,
	}, nil
}

type geocodingResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// GetCoordinates : возвращает координаты адреса либо nil, если адрес
// не распознан. Ошибку возвращает только при сбое самого запроса.
func (s *GeocodingService) GetCoordinates(ctx context.Context, address string) (*model.Coordinates, error) {
	requestURL := fmt.Sprintf("%s/search?format=json&q=%s", s.baseURL, url.QueryEscape(address))

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, util.LogError("[Geocoding] не удалось создать запрос", err)
	}
	request.Header.Set("User-Agent", s.userAgent)

	response, err := s.client.Do(request)
	if err != nil {
		return nil, util.LogError("[Geocoding] ошибка запроса к Nominatim", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, util.LogError("[Geocoding] Nominatim вернул ошибку",
			fmt.Errorf("status %d", response.StatusCode))
	}

	var results []geocodingResult
	if err := json.NewDecoder(response.Body).Decode(&results); err != nil {
		return nil, util.LogError("[Geocoding] ошибка разбора ответа", err)
	}

	if len(results) == 0 {
		return nil, nil
	}

	latitude, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, util.LogError("[Geocoding] некорректная широта в ответе", err)
	}
	longitude, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, util.LogError("[Geocoding] некорректная долгота в ответе", err)
	}

	return &model.Coordinates{Latitude: latitude, Longitude: longitude}, nil
}
