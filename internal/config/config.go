package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port        string
	Environment string
	CORSOrigins string
	// Supabase (auth + persistence)
	SupabaseURL     string
	SupabaseDBURL   string
	SupabaseJWKSURL string // Constructed from SupabaseURL + /auth/v1/.well-known/jwks.json
	// WordPress credentials (Application Password auth)
	WordPressURL         string
	WordPressUser        string
	WordPressAppPassword string
	// n8n webhooks
	ChatWebhookURL  string
	AudioWebhookURL string
	// Outbound HTTP
	HTTPTimeoutSeconds int
	// Image normalization before media upload
	MaxImageWidth int
	JPEGQuality   int
}

func Load() *Config {
	supabaseURL := getEnv("SUPABASE_URL", "")

	// Construct JWKS URL from Supabase URL
	jwksURL := supabaseURL + "/auth/v1/.well-known/jwks.json"

	return &Config{
		Port:            getEnv("PORT", "8080"),
		Environment:     getEnv("ENVIRONMENT", "dev"),
		CORSOrigins:     getEnv("CORS_ORIGINS", "http://localhost:5173"),
		SupabaseURL:     supabaseURL,
		SupabaseDBURL:   getEnv("SUPABASE_DB_URL", ""),
		SupabaseJWKSURL: jwksURL,
		// WordPress
		WordPressURL:         getEnv("WORDPRESS_URL", ""),
		WordPressUser:        getEnv("WORDPRESS_USER", ""),
		WordPressAppPassword: getEnv("WORDPRESS_APP_PASSWORD", ""),
		// Webhooks
		ChatWebhookURL:  getEnv("WEBHOOK_CHAT_URL", ""),
		AudioWebhookURL: getEnv("WEBHOOK_AUDIO_URL", ""),
		// Outbound calls must never hang: conservative default, configurable
		HTTPTimeoutSeconds: getEnvInt("HTTP_TIMEOUT_SECONDS", 30),
		MaxImageWidth:      getEnvInt("MAX_IMAGE_WIDTH", 1920),
		JPEGQuality:        getEnvInt("JPEG_QUALITY", 80),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}
