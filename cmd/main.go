package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"property-tracker/config"
	_ "property-tracker/docs"
	"property-tracker/internal/handler"
	"property-tracker/internal/ports"
	"property-tracker/internal/repository"
	"property-tracker/internal/security"
	"property-tracker/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	_ "github.com/lib/pq"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title Property-tracker
// @version 1.0
// @description REST API для учёта недвижимости, арендаторов и платежей

// @host localhost:8080

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	db, err := config.SetupDatabase(cfg.DatabaseConfig.DSN)
	if err != nil {
		log.Fatalf("Не удалось подключиться к БД: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Ошибка при закрытии БД: %v", err)
		}
	}()

	redisClient, err := config.SetupRedis(&cfg.RedisConfig)
	if err != nil {
		log.Fatalf("Ошибка подключения к Redis: %v", err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Printf("Ошибка при закрытии Redis: %v", err)
		}
	}()

	srv, router := config.SetupServer(cfg.ServerAddr)

	userRepo := repository.NewUserRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, time.Duration(cfg.TTL.PropertyCache)*time.Second)
	tokenStore := setupTokenStore(cfg.JWT.TokenStore, db, redisClient)

	jwtService, err := security.NewJWTService(&cfg.JWT)
	if err != nil {
		log.Fatalf("Ошибка инициализации JWT сервиса: %v", err)
	}

	s3Service, err := service.NewS3Service(ctx, &cfg.S3Config)
	if err != nil {
		log.Fatalf("Ошибка создания S3 сервиса: %v", err)
	}

	geocoder, err := service.NewGeocodingService(&cfg.Geocoding)
	if err != nil {
		log.Fatalf("Ошибка создания сервиса геокодирования: %v", err)
	}

	authService := service.NewAuthenticationService(tokenStore, jwtService, userRepo)
	propertyService := service.NewPropertyService(propertyRepo, cacheRepo, s3Service, geocoder, time.Duration(cfg.TTL.Presign)*time.Second)

	authHandler := handler.NewAuthenticationHandler(authService)
	propertyHandler := handler.NewPropertyHandler(propertyService)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	router.Get("/swagger/*", httpSwagger.WrapHandler)

	setupAuthRoutes(router, authHandler)
	setupPropertyRoutes(router, propertyHandler, jwtService)

	runServer(ctx, srv)
}

// setupTokenStore : хранилище refresh-токенов выбирается конфигурацией,
// по умолчанию postgres
func setupTokenStore(kind string, db *config.Database, redisClient *config.RedisClient) ports.RefreshTokenStore {
	switch kind {
	case "memory":
		log.Println("хранилище refresh-токенов: in-memory")
		return repository.NewMemoryTokenStore()
	case "redis":
		log.Println("хранилище refresh-токенов: redis")
		return repository.NewRedisTokenStore(redisClient)
	default:
		log.Println("хранилище refresh-токенов: postgres")
		return repository.NewPostgresTokenStore(db)
	}
}

func setupAuthRoutes(r chi.Router, h *handler.AuthenticationHandler) {
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/register", h.Register)
		r.Post("/refresh", h.Refresh)
		r.Post("/logout", h.Logout)
		r.Get("/verify", h.Verify)
	})
}

func setupPropertyRoutes(r chi.Router, h *handler.PropertyHandler, jwtService *security.JWTService) {
	r.Route("/api/properties", func(r chi.Router) {
		r.Use(security.JWTMiddleware(jwtService))

		r.Get("/", h.ListProperties)
		r.Post("/", h.CreateProperty)

		r.Route("/{uuid}", func(r chi.Router) {
			r.Get("/", h.GetProperty)
			r.Put("/", h.UpdateProperty)
			r.Delete("/", h.DeleteProperty)
			r.Post("/photo-upload", h.PhotoUploadURL)
			r.Post("/tenants", h.AddTenant)
			r.Get("/tenants", h.ListTenants)
		})
	})

	r.Route("/api/tenants/{uuid}", func(r chi.Router) {
		r.Use(security.JWTMiddleware(jwtService))

		r.Put("/", h.UpdateTenant)
		r.Post("/move-out", h.MoveOutTenant)
		r.Post("/payments", h.RecordPayment)
		r.Get("/payments", h.ListPayments)
	})
}

func runServer(ctx context.Context, server *http.Server) {
	serverErrors := make(chan error, 1)
	go func() {
		log.Println("сервер запущен на " + server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	signalChannel := make(chan os.Signal, 1)
	signal.Notify(signalChannel, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil {
			log.Fatalf("ошибка работы сервера: %v", err)
		}
	case sig := <-signalChannel:
		log.Printf("получен сигнал %v остановки работы сервера ", sig)
	}

	shutDownCtx, shutDownCancel := context.WithTimeout(ctx, 5*time.Second)
	defer shutDownCancel()

	if err := server.Shutdown(shutDownCtx); err != nil {
		log.Printf("ошибка при остановке сервера: %v", err)
	} else {
		log.Println("Сервер успешно остановлен")
	}
}
