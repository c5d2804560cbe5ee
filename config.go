package main

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	DatabaseDSN        string `envconfig:"DB_DSN" required:"true"`
	DatabaseMigrate    bool   `envconfig:"DB_AUTO_MIGRATE" default:"true"`
	Port               int    `envconfig:"PORT" default:"8081"`
	JWTSecret          string `envconfig:"JWT_SECRET" default:"dev-insecure-secret-change"`
	AccessTokenExpiry  int    `envconfig:"JWT_ACCESS_EXPIRY" default:"86400"`   // seconds
	RefreshTokenExpiry int    `envconfig:"JWT_REFRESH_EXPIRY" default:"2592000"` // seconds, 30 days
	UploadBase         string `envconfig:"UPLOAD_BASE" default:"uploads"`
	SignedURLTTL       int    `envconfig:"SIGNED_URL_TTL" default:"3600"` // seconds
}

// LoadConfig reads ./.env if present (without overriding variables already
// set) and then the environment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, err
	}
	return &c, nil
}
