package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Storage backend selectors for materialized game files.
const (
	StorageBackendLocal = "local"
	StorageBackendS3    = "s3"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Log      LogConfig
	Games    GamesConfig
	Imports  ImportsConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret            string
	Expiration        time.Duration
	RefreshExpiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// GamesConfig tunes catalog listing and leaderboard behaviour.
type GamesConfig struct {
	CacheEnabled   bool
	CacheTTL       time.Duration
	LeaderboardCap int
}

// ImportsConfig controls the bulk game import pipeline and file storage.
type ImportsConfig struct {
	MaxUploadBytes int64
	PreviewSize    int
	StorageBackend string
	LocalRoot      string
	PublicBaseURL  string
	S3Endpoint     string
	S3Bucket       string
	S3AccessKey    string
	S3SecretKey    string
	S3UseSSL       bool
	S3PublicURL    string
	StagingTTL     time.Duration
	JanitorPeriod  time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:            v.GetString("JWT_SECRET"),
		Expiration:        parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		RefreshExpiration: parseDuration(v.GetString("REFRESH_TOKEN_EXPIRATION"), 7*24*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	leaderboardCap := v.GetInt("GAMES_LEADERBOARD_CAP")
	if leaderboardCap <= 0 || leaderboardCap > 100 {
		leaderboardCap = 100
	}
	cfg.Games = GamesConfig{
		CacheEnabled:   v.GetBool("GAMES_CACHE_ENABLED"),
		CacheTTL:       parseDuration(v.GetString("GAMES_CACHE_TTL"), 5*time.Minute),
		LeaderboardCap: leaderboardCap,
	}

	maxUpload := v.GetInt64("IMPORTS_MAX_UPLOAD_BYTES")
	if maxUpload <= 0 {
		maxUpload = 50 * 1024 * 1024
	}
	previewSize := v.GetInt("IMPORTS_PREVIEW_SIZE")
	if previewSize <= 0 {
		previewSize = 20
	}
	cfg.Imports = ImportsConfig{
		MaxUploadBytes: maxUpload,
		PreviewSize:    previewSize,
		StorageBackend: strings.ToLower(v.GetString("IMPORTS_STORAGE_BACKEND")),
		LocalRoot:      v.GetString("IMPORTS_LOCAL_ROOT"),
		PublicBaseURL:  v.GetString("IMPORTS_PUBLIC_BASE_URL"),
		S3Endpoint:     v.GetString("IMPORTS_S3_ENDPOINT"),
		S3Bucket:       v.GetString("IMPORTS_S3_BUCKET"),
		S3AccessKey:    v.GetString("IMPORTS_S3_ACCESS_KEY"),
		S3SecretKey:    v.GetString("IMPORTS_S3_SECRET_KEY"),
		S3UseSSL:       v.GetBool("IMPORTS_S3_USE_SSL"),
		S3PublicURL:    v.GetString("IMPORTS_S3_PUBLIC_URL"),
		StagingTTL:     parseDuration(v.GetString("IMPORTS_STAGING_TTL"), time.Hour),
		JanitorPeriod:  parseDuration(v.GetString("IMPORTS_JANITOR_PERIOD"), 30*time.Minute),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "playshelf")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("REFRESH_TOKEN_EXPIRATION", "168h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("GAMES_CACHE_ENABLED", false)
	v.SetDefault("GAMES_CACHE_TTL", "5m")
	v.SetDefault("GAMES_LEADERBOARD_CAP", 100)

	v.SetDefault("IMPORTS_MAX_UPLOAD_BYTES", 50*1024*1024)
	v.SetDefault("IMPORTS_PREVIEW_SIZE", 20)
	v.SetDefault("IMPORTS_STORAGE_BACKEND", StorageBackendLocal)
	v.SetDefault("IMPORTS_LOCAL_ROOT", "./uploads/games")
	v.SetDefault("IMPORTS_PUBLIC_BASE_URL", "/games/files")
	v.SetDefault("IMPORTS_S3_ENDPOINT", "localhost:9000")
	v.SetDefault("IMPORTS_S3_BUCKET", "playshelf-games")
	v.SetDefault("IMPORTS_S3_ACCESS_KEY", "")
	v.SetDefault("IMPORTS_S3_SECRET_KEY", "")
	v.SetDefault("IMPORTS_S3_USE_SSL", false)
	v.SetDefault("IMPORTS_S3_PUBLIC_URL", "")
	v.SetDefault("IMPORTS_STAGING_TTL", "1h")
	v.SetDefault("IMPORTS_JANITOR_PERIOD", "30m")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
