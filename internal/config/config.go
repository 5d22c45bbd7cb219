package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Neo4j    Neo4jConfig
	Valkey   ValkeyConfig
	MinIO    MinIOConfig
	Linker   LinkerConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	MaxBodyBytes int64
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

type Neo4jConfig struct {
	URI      string
	User     string
	Password string
}

type ValkeyConfig struct {
	Addr     string
	Password string
	DB       int
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// LinkerConfig tunes the linking core and the run pipeline around it.
type LinkerConfig struct {
	Workers       int           // LINK_WORKERS, projects linked in parallel per pass
	ParseWorkers  int           // PARSE_WORKERS, files parsed in parallel by the extract stage
	CacheTTL      time.Duration // LINK_CACHE_TTL_SECS, raw document cache lifetime
	SkipGraph     bool          // LINK_SKIP_GRAPH
	SkipArtifacts bool          // LINK_SKIP_ARTIFACTS
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         getEnvInt("SERVER_PORT", 8080),
			ReadTimeout:  time.Duration(getEnvInt("SERVER_READ_TIMEOUT_SECS", 30)) * time.Second,
			WriteTimeout: time.Duration(getEnvInt("SERVER_WRITE_TIMEOUT_SECS", 120)) * time.Second,
			MaxBodyBytes: int64(getEnvInt("SERVER_MAX_BODY_MB", 64)) << 20,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "honeydew"),
			Password: getEnv("DB_PASSWORD", "honeydew"),
			Name:     getEnv("DB_NAME", "honeydew"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: int32(getEnvInt("DB_MAX_CONNS", 10)),
			MinConns: int32(getEnvInt("DB_MIN_CONNS", 2)),
		},
		Neo4j: Neo4jConfig{
			URI:      getEnv("NEO4J_URI", "bolt://localhost:7687"),
			User:     getEnv("NEO4J_USER", "neo4j"),
			Password: getEnv("NEO4J_PASSWORD", "honeydew"),
		},
		Valkey: ValkeyConfig{
			Addr:     getEnv("VALKEY_ADDR", "localhost:6379"),
			Password: getEnv("VALKEY_PASSWORD", ""),
			DB:       getEnvInt("VALKEY_DB", 0),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "honeydew"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "honeydew123"),
			Bucket:    getEnv("MINIO_BUCKET", "honeydew"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Linker: LinkerConfig{
			Workers:       getEnvInt("LINK_WORKERS", 1),
			ParseWorkers:  getEnvInt("PARSE_WORKERS", 8),
			CacheTTL:      time.Duration(getEnvInt("LINK_CACHE_TTL_SECS", 3600)) * time.Second,
			SkipGraph:     getEnvBool("LINK_SKIP_GRAPH", false),
			SkipArtifacts: getEnvBool("LINK_SKIP_ARTIFACTS", false),
		},
	}
	if cfg.Linker.Workers < 1 {
		return nil, fmt.Errorf("LINK_WORKERS must be at least 1, got %d", cfg.Linker.Workers)
	}
	if cfg.Linker.ParseWorkers < 1 {
		return nil, fmt.Errorf("PARSE_WORKERS must be at least 1, got %d", cfg.Linker.ParseWorkers)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
