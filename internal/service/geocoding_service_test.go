package service_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"property-tracker/config"
	srv "property-tracker/internal/service"

	"github.com/stretchr/testify/assert"
)

func TestGeocodingService_GetCoordinates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "property-tracker-test", r.Header.Get("User-Agent"))
		assert.Equal(t, "Vesterbrogade 12, København", r.URL.Query().Get("q"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"lat": "55.6712", "lon": "12.5537"}]`))
	}))
	defer server.Close()

	geocoder, err := srv.NewGeocodingService(&config.GeocodingConfig{
		BaseURL:   server.URL,
		UserAgent: "property-tracker-test",
	})
	assert.NoError(t, err)

	coordinates, err := geocoder.GetCoordinates(context.Background(), "Vesterbrogade 12, København")

	assert.NoError(t, err)
	assert.Equal(t, 55.6712, coordinates.Latitude)
	assert.Equal(t, 12.5537, coordinates.Longitude)
}

// нераспознанный адрес не ошибка: nil без координат
func TestGeocodingService_AddressNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	geocoder, err := srv.NewGeocodingService(&config.GeocodingConfig{BaseURL: server.URL})
	assert.NoError(t, err)

	coordinates, err := geocoder.GetCoordinates(context.Background(), "несуществующий адрес")

	assert.NoError(t, err)
	assert.Nil(t, coordinates)
}

func TestGeocodingService_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	geocoder, err := srv.NewGeocodingService(&config.GeocodingConfig{BaseURL: server.URL})
	assert.NoError(t, err)

	coordinates, err := geocoder.GetCoordinates(context.Background(), "Vesterbrogade 12")

	assert.Error(t, err)
	assert.Nil(t, coordinates)
}

func TestNewGeocodingService_InvalidTimeout(t *testing.T) {
	_, err := srv.NewGeocodingService(&config.GeocodingConfig{Timeout: "not-a-duration"})
	assert.Error(t, err)
}
