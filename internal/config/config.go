package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config agrupa toda la configuración del servicio.
// Todo sale de env vars; .env es opcional (solo dev).
type Config struct {
	AppName string
	Port    string

	// DSN de Postgres. Vacío => repos in-memory (modo dev/handoff).
	DBDSN string

	// Secret para firmar/verificar JWT. Vacío => auth en modo dev
	// (headers X-Debug-*), sin emisión de tokens reales.
	JWTSecret   string
	TokenExpiry time.Duration

	LogLevel  string
	LogFormat string
}

// Load lee configuración desde env. No valida DSN ni secret:
// la ausencia de ambos es un modo soportado (dev in-memory).
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:     getEnv("APP_NAME", "enquiry-desk"),
		Port:        getEnv("PORT", "8080"),
		DBDSN:       getEnv("DB_DSN", ""),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		TokenExpiry: time.Duration(getEnvAsInt("TOKEN_EXPIRY_MINUTES", 60)) * time.Minute,
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
