package config

import (
	"os"
	"strconv"
)

type Config struct {
	AppPort           string
	AppBaseURL        string
	DBDSN             string
	JWTSecret         string
	SessionExpiryDays int
	UploadDir         string
	RedisAddr         string
	RedisPassword     string
	GoogleClientID    string
	GoogleSecret      string
	GoogleRedirect    string
	FrontendBaseURL   string
}

func Load() Config {
	// session cookie berlaku 5 hari
	expiry, _ := strconv.Atoi(get("SESSION_EXPIRY_DAYS", "5"))
	return Config{
		AppPort:           get("APP_PORT", "8080"),
		AppBaseURL:        get("APP_BASE_URL", ""),
		DBDSN:             must("DB_DSN"),
		JWTSecret:         must("JWT_SECRET"),
		SessionExpiryDays: expiry,
		UploadDir:         get("UPLOAD_DIR", "./uploads"),
		RedisAddr:         get("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     get("REDIS_PASSWORD", ""),
		GoogleClientID:    get("GOOGLE_CLIENT_ID", ""),
		GoogleSecret:      get("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirect:    get("GOOGLE_REDIRECT_URL", ""),
		FrontendBaseURL:   get("FRONTEND_BASE_URL", "http://localhost:3000"),
	}
}

func get(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("missing env: " + k)
	}
	return v
}
