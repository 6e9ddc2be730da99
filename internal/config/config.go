package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Storage backends for archived uploads.
const (
	StorageNone  = "none"
	StorageLocal = "local"
	StorageS3    = "s3"
)

type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Storage  StorageConfig  `koanf:"storage"`
	S3       S3Config       `koanf:"s3"`
	Worker   WorkerConfig   `koanf:"worker"`
	Log      LogConfig      `koanf:"log"`
	Metrics  MetricsConfig  `koanf:"metrics"`
}

type ServerConfig struct {
	Port        string `koanf:"port"`
	Env         string `koanf:"env"`
	CORSOrigins string `koanf:"cors_origins"`
}

type DatabaseConfig struct {
	Driver   string `koanf:"driver"`
	Host     string `koanf:"host"`
	Port     string `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	DBName   string `koanf:"name"`
	// Path is the sqlite file; ":memory:" keeps everything in process.
	Path string `koanf:"path"`
}

type StorageConfig struct {
	Backend     string `koanf:"backend"`
	UploadPath  string `koanf:"upload_path"`
	MaxFileSize int64  `koanf:"max_file_size"`
}

type S3Config struct {
	Bucket    string `koanf:"bucket"`
	Region    string `koanf:"region"`
	Endpoint  string `koanf:"endpoint"`
	AccessKey string `koanf:"access_key"`
	SecretKey string `koanf:"secret_key"`
	Prefix    string `koanf:"prefix"`
}

type WorkerConfig struct {
	Concurrency int `koanf:"concurrency"`
}

type LogConfig struct {
	Level string `koanf:"level"`
}

type MetricsConfig struct {
	Enabled bool `koanf:"enabled"`
}

// envKeys maps the environment variables understood by the service onto
// koanf paths. Variables not listed here are ignored.
var envKeys = map[string]string{
	"PORT":               "server.port",
	"ENV":                "server.env",
	"CORS_ORIGINS":       "server.cors_origins",
	"DB_DRIVER":          "database.driver",
	"DB_HOST":            "database.host",
	"DB_PORT":            "database.port",
	"DB_USER":            "database.user",
	"DB_PASSWORD":        "database.password",
	"DB_NAME":            "database.name",
	"DB_PATH":            "database.path",
	"STORAGE_BACKEND":    "storage.backend",
	"UPLOAD_PATH":        "storage.upload_path",
	"MAX_FILE_SIZE":      "storage.max_file_size",
	"S3_BUCKET":          "s3.bucket",
	"S3_REGION":          "s3.region",
	"S3_ENDPOINT":        "s3.endpoint",
	"S3_ACCESS_KEY":      "s3.access_key",
	"S3_SECRET_KEY":      "s3.secret_key",
	"S3_PREFIX":          "s3.prefix",
	"WORKER_CONCURRENCY": "worker.concurrency",
	"LOG_LEVEL":          "log.level",
	"METRICS_ENABLED":    "metrics.enabled",
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        "5000",
			Env:         "development",
			CORSOrigins: "*",
		},
		Database: DatabaseConfig{
			Driver:   DriverPostgres,
			Host:     "localhost",
			Port:     "5432",
			User:     "postgres",
			Password: "postgres",
			DBName:   "resume_analyzer",
			Path:     "resume_analyzer.db",
		},
		Storage: StorageConfig{
			Backend:     StorageNone,
			UploadPath:  "./uploads",
			MaxFileSize: 16 * 1024 * 1024,
		},
		S3: S3Config{
			Region: "auto",
			Prefix: "resumes/",
		},
		Worker: WorkerConfig{
			Concurrency: 3,
		},
		Log: LogConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Load layers defaults, an optional YAML file (CONFIG_FILE) and environment
// variables, in that order of precedence. A .env file in the working
// directory is loaded into the environment first when present.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	k := koanf.New(".")

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	envProvider := env.Provider("", ".", func(s string) string {
		return envKeys[strings.ToUpper(s)]
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("%w: server port must not be empty", ErrInvalidConfig)
	}

	switch c.Database.Driver {
	case DriverPostgres:
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("%w: DB_PATH is required for sqlite", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown database driver %q", ErrInvalidConfig, c.Database.Driver)
	}

	switch c.Storage.Backend {
	case StorageNone, StorageLocal:
	case StorageS3:
		if c.S3.Bucket == "" {
			return fmt.Errorf("%w: S3_BUCKET is required for the s3 backend", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown storage backend %q", ErrInvalidConfig, c.Storage.Backend)
	}

	if c.Storage.MaxFileSize <= 0 {
		return fmt.Errorf("%w: max file size must be positive", ErrInvalidConfig)
	}
	if c.Worker.Concurrency < 1 {
		return fmt.Errorf("%w: worker concurrency must be at least 1", ErrInvalidConfig)
	}
	return nil
}

func (c *Config) GetDatabaseDSN() string {
	if c.Database.Driver == DriverSQLite {
		return c.Database.Path
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}
