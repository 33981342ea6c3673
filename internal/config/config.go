package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        string
	Environment string
	CORSOrigins string
	// TrustProxy honours X-Forwarded-For/X-Real-IP; only enable behind a reverse proxy
	TrustProxy bool
	// Record store: empty DatabaseURL selects the in-memory store
	DatabaseURL  string
	SeedDemoData bool
	// Summary cache: empty RedisURL disables caching
	RedisURL        string
	SummaryCacheTTL time.Duration
	// Auth: empty SupabaseURL leaves the API open
	SupabaseURL     string
	SupabaseJWKSURL string // Constructed from SupabaseURL + /auth/v1/.well-known/jwks.json
	// AI Configuration
	AIProvider      string // auto, anthropic, gemini, offline
	AnthropicAPIKey string
	AnthropicModel  string
	GeminiAPIKey    string
	GeminiModel     string
	AITimeout       time.Duration
	AIRatePerMinute int
	AIRateBurst     int
	// Logging
	LogDir      string
	LogMaxFiles int
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	supabaseURL := strings.TrimSuffix(getEnv("SUPABASE_URL", ""), "/")

	jwksURL := ""
	if supabaseURL != "" {
		jwksURL = supabaseURL + "/auth/v1/.well-known/jwks.json"
	}

	return &Config{
		Port:            getEnv("PORT", "8080"),
		Environment:     env,
		CORSOrigins:     getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TrustProxy:      getBool("TRUST_PROXY", false),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		SeedDemoData:    getBool("SEED_DEMO_DATA", true),
		RedisURL:        getEnv("REDIS_URL", ""),
		SummaryCacheTTL: getDuration("SUMMARY_CACHE_TTL", time.Hour),
		SupabaseURL:     supabaseURL,
		SupabaseJWKSURL: jwksURL,
		AIProvider:      strings.ToLower(getEnv("AI_PROVIDER", ProviderAuto)),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		AnthropicModel:  getEnv("ANTHROPIC_MODEL", "claude-haiku-4-5-20251001"),
		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		AITimeout:       getDuration("AI_TIMEOUT", 60*time.Second),
		AIRatePerMinute: getInt("AI_RATE_LIMIT_PER_MIN", 30),
		AIRateBurst:     getInt("AI_RATE_BURST", 5),
		LogDir:          getEnv("LOG_DIR", ""),
		LogMaxFiles:     getInt("LOG_MAX_FILES", 10),
	}
}

// AI provider names accepted by AI_PROVIDER
const (
	ProviderAuto      = "auto"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderOffline   = "offline"
)

// ResolveAIProvider picks the text-generation provider.
// "auto" prefers Anthropic, then Gemini, and falls back to offline when no
// credential is present. An explicit provider without its key is also offline.
func (c *Config) ResolveAIProvider() string {
	switch c.AIProvider {
	case ProviderAnthropic:
		if c.AnthropicAPIKey != "" {
			return ProviderAnthropic
		}
	case ProviderGemini:
		if c.GeminiAPIKey != "" {
			return ProviderGemini
		}
	case ProviderOffline:
	default:
		if c.AnthropicAPIKey != "" {
			return ProviderAnthropic
		}
		if c.GeminiAPIKey != "" {
			return ProviderGemini
		}
	}
	return ProviderOffline
}

// AuthEnabled reports whether API requests must carry a verified JWT
func (c *Config) AuthEnabled() bool {
	return c.SupabaseJWKSURL != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(defaultValue)))
	if err != nil {
		return defaultValue
	}
	return v
}

func getInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}
