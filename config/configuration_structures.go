package config

import "github.com/aws/aws-sdk-go-v2/service/s3"

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type S3Config struct {
	Bucket    string `yaml:"bucket"`
	Client    *s3.Client
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	Local     bool   `yaml:"local"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

// JWTConfig : параметры выпуска и проверки токенов
// SecretKey хранится в base64 и декодируется один раз при старте
type JWTConfig struct {
	SecretKey           string `yaml:"secret_key"`
	Issuer              string `yaml:"issuer"`
	Audience            string `yaml:"audience"`
	AccessTokenTTLMin   int    `yaml:"access_token_ttl_minutes"`
	RefreshTokenTTLDays int    `yaml:"refresh_token_ttl_days"`
	TokenStore          string `yaml:"token_store"` // memory | postgres | redis
}

type GeocodingConfig struct {
	BaseURL   string `yaml:"base_url"`
	UserAgent string `yaml:"user_agent"`
	Timeout   string `yaml:"timeout"`
}

type TTL struct {
	PropertyCache int `yaml:"property_cache"` // секунды
	Presign       int `yaml:"presign"`        // секунды
}
