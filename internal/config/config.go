package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Proveedores de identidad soportados.
const (
	AuthProviderFirebase = "firebase"
	AuthProviderLocal    = "local"
)

// Config centraliza la configuración leída del entorno.
type Config struct {
	Port         int
	DBDSN        string
	RedisURL     string
	AllowOrigins []string

	AuthProvider            string
	FirebaseCredentialsFile string
	FirebaseProjectID       string
	LocalJWTSecret          string
	LocalTokenTTL           time.Duration
	TokenCacheTTL           time.Duration

	StorageBucket     string
	UploadConcurrency int
	UploadTimeout     time.Duration

	Jobs JobsConfig

	RateLimitPublic RateLimitConfig
	RateLimitAuth   RateLimitConfig

	InitAdmin InitAdminConfig
}

// RateLimitConfig es un límite simple de token bucket.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// JobsConfig controla la cola de compensaciones.
type JobsConfig struct {
	Enabled                     bool
	MaxWorkers                  int
	CompletedJobRetentionPeriod time.Duration
}

// InitAdminConfig son los datos del primer administrador.
type InitAdminConfig struct {
	Nombre   string
	Email    string
	Password string
}

// Load lee variables de entorno (y .env si existe) aplicando defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil || port <= 0 {
		return nil, errors.New("PORT inválido")
	}
	cfg.Port = port

	cfg.DBDSN = strings.TrimSpace(getEnv("DB_DSN", ""))
	if cfg.DBDSN == "" {
		return nil, errors.New("DB_DSN obligatorio")
	}
	cfg.RedisURL = strings.TrimSpace(getEnv("REDIS_URL", ""))
	cfg.AllowOrigins = splitList(getEnv("ALLOW_ORIGINS", ""))

	cfg.AuthProvider = strings.ToLower(strings.TrimSpace(getEnv("AUTH_PROVIDER", AuthProviderFirebase)))
	switch cfg.AuthProvider {
	case AuthProviderFirebase:
		cfg.FirebaseCredentialsFile = strings.TrimSpace(getEnv("FIREBASE_CREDENTIALS_FILE", ""))
		cfg.FirebaseProjectID = strings.TrimSpace(getEnv("FIREBASE_PROJECT_ID", ""))
	case AuthProviderLocal:
		cfg.LocalJWTSecret = strings.TrimSpace(getEnv("LOCAL_JWT_SECRET", ""))
		if len(cfg.LocalJWTSecret) < 32 {
			return nil, errors.New("LOCAL_JWT_SECRET debe tener al menos 32 caracteres")
		}
	default:
		return nil, fmt.Errorf("AUTH_PROVIDER %q no soportado", cfg.AuthProvider)
	}

	if cfg.LocalTokenTTL, err = parseDurationEnv("LOCAL_TOKEN_TTL", time.Hour); err != nil {
		return nil, err
	}
	if cfg.TokenCacheTTL, err = parseDurationEnv("TOKEN_CACHE_TTL", time.Minute); err != nil {
		return nil, err
	}

	// Sin bucket la API arranca igual; las subidas fallan con error de configuración.
	cfg.StorageBucket = strings.TrimSpace(getEnv("GOOGLE_CLOUD_BUCKET_NAME", ""))
	if cfg.UploadConcurrency, err = parseIntEnv("UPLOAD_CONCURRENCY", 4); err != nil {
		return nil, err
	}
	if cfg.UploadTimeout, err = parseDurationEnv("UPLOAD_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}

	cfg.Jobs.Enabled = parseBoolEnv("JOBS_ENABLED", true)
	if cfg.Jobs.MaxWorkers, err = parseIntEnv("JOBS_MAX_WORKERS", 5); err != nil {
		return nil, err
	}
	if cfg.Jobs.CompletedJobRetentionPeriod, err = parseDurationEnv("JOBS_RETENTION", 24*time.Hour); err != nil {
		return nil, err
	}

	if cfg.RateLimitPublic, err = parseRateLimit("RATE_LIMIT_PUBLIC", RateLimitConfig{RequestsPerSecond: 10, Burst: 20}); err != nil {
		return nil, err
	}
	if cfg.RateLimitAuth, err = parseRateLimit("RATE_LIMIT_AUTH", RateLimitConfig{RequestsPerSecond: 20, Burst: 40}); err != nil {
		return nil, err
	}

	cfg.InitAdmin = InitAdminConfig{
		Nombre:   strings.TrimSpace(getEnv("INIT_ADMIN_NOMBRE", "Administrador")),
		Email:    strings.TrimSpace(getEnv("INIT_ADMIN_EMAIL", "")),
		Password: getEnv("INIT_ADMIN_PASSWORD", ""),
	}

	return cfg, nil
}

// Addr es la dirección de escucha del servidor.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func getEnv(key, def string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return def
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	val := strings.TrimSpace(getEnv(key, ""))
	if val == "" {
		return def, nil
	}
	dur, err := time.ParseDuration(val)
	if err != nil || dur < 0 {
		return 0, errors.New(key + " inválido")
	}
	return dur, nil
}

func parseIntEnv(key string, def int) (int, error) {
	val := strings.TrimSpace(getEnv(key, ""))
	if val == "" {
		return def, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil || n < 0 {
		return 0, errors.New(key + " inválido")
	}
	return n, nil
}

func parseBoolEnv(key string, def bool) bool {
	val, err := strconv.ParseBool(strings.TrimSpace(getEnv(key, "")))
	if err != nil {
		return def
	}
	return val
}

// parseRateLimit acepta "rps:burst", p. ej. "10:20". "0" deshabilita el límite.
func parseRateLimit(key string, def RateLimitConfig) (RateLimitConfig, error) {
	val := strings.TrimSpace(getEnv(key, ""))
	if val == "" {
		return def, nil
	}
	rpsRaw, burstRaw, hasBurst := strings.Cut(val, ":")
	rps, err := strconv.ParseFloat(rpsRaw, 64)
	if err != nil || rps < 0 {
		return RateLimitConfig{}, errors.New(key + " inválido")
	}
	out := RateLimitConfig{RequestsPerSecond: rps, Burst: def.Burst}
	if hasBurst {
		burst, err := strconv.Atoi(burstRaw)
		if err != nil || burst <= 0 {
			return RateLimitConfig{}, errors.New(key + " inválido")
		}
		out.Burst = burst
	}
	return out, nil
}
