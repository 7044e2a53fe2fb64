package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/JesuSe7e/api-envio-ftp/internal/core/domain"
	"github.com/docker/go-units"
	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Env       Env
	Log       LogConfig
	Server    ServerConfig
	Remote    RemoteConfig
	Minio     MinioConfig
	Upload    UploadConfig
	RateLimit RateLimitConfig
	Breaker   BreakerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	NATS      NATSConfig
}

type Env struct {
	Env string `envconfig:"ENV" default:"DEV"`
}

type LogConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
}

type ServerConfig struct {
	Host           string        `envconfig:"SERVER_HOST" default:"localhost"`
	Port           string        `envconfig:"SERVER_PORT" default:"8080"`
	RequestTimeout time.Duration `envconfig:"SERVER_REQUEST_TIMEOUT" default:"2m"`
}

// RemoteConfig describes the remote file store and the backup naming convention.
// Variable names are kept from the first deployment of the service.
type RemoteConfig struct {
	Protocol           string        `envconfig:"REMOTE_PROTOCOL" default:"ftp" validate:"oneof=ftp sftp minio"`
	Host               string        `envconfig:"FTP_HOST" required:"true" validate:"required"`
	Port               int           `envconfig:"FTP_PORT" default:"0" validate:"min=0,max=65535"`
	User               string        `envconfig:"FTP_USER" required:"true"`
	Password           string        `envconfig:"FTP_PASS"`
	Secure             bool          `envconfig:"FTP_SECURE" default:"false"`
	Timeout            time.Duration `envconfig:"FTP_TIMEOUT" default:"30s"`
	BaseFolder         string        `envconfig:"FTP_PASTA"`
	Prefix             string        `envconfig:"FTP_PREFIXO" default:"backup_"`
	Extension          string        `envconfig:"FTP_EXT" default:"accdb" validate:"required,excludes=/"`
	MaxFiles           int           `envconfig:"FTP_MAX_ARQUIVOS" default:"2" validate:"min=1"`
	SerializePerClient bool          `envconfig:"FTP_SERIALIZE_PER_CLIENT" default:"true"`
	KnownHostsFile     string        `envconfig:"SFTP_KNOWN_HOSTS"`
}

// Credentials builds the session credentials for the remote store
func (c RemoteConfig) Credentials() domain.Credentials {
	return domain.Credentials{
		Host:     c.Host,
		Port:     c.Port,
		User:     c.User,
		Password: c.Password,
		Secure:   c.Secure,
		Timeout:  c.Timeout,
	}
}

// MinioConfig is only read when REMOTE_PROTOCOL=minio.
// FTP_HOST, FTP_USER and FTP_PASS then hold the endpoint, access key and secret key.
type MinioConfig struct {
	BucketName string `envconfig:"MINIO_BUCKET_NAME" default:"backups"`
	Region     string `envconfig:"MINIO_REGION"`
}

type UploadConfig struct {
	MaxSize           ByteSize `envconfig:"UPLOAD_MAX_SIZE" default:"100MB"`
	AcceptedExtension string   `envconfig:"UPLOAD_ACCEPTED_EXTENSION" default:".accdb" validate:"startswith=."`
	ExpectedMimeType  string   `envconfig:"UPLOAD_EXPECTED_MIME" default:"application/x-msaccess" validate:"required"`
	FormField         string   `envconfig:"UPLOAD_FORM_FIELD" default:"file"`
}

type RateLimitConfig struct {
	Enabled  bool          `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
	Requests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"10" validate:"min=1"`
	Window   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`
}

type BreakerConfig struct {
	Enabled     bool          `envconfig:"BREAKER_ENABLED" default:"true"`
	MaxFailures uint32        `envconfig:"BREAKER_MAX_FAILURES" default:"5" validate:"min=1"`
	OpenTimeout time.Duration `envconfig:"BREAKER_OPEN_TIMEOUT" default:"30s"`
}

type DatabaseConfig struct {
	Host           string        `envconfig:"DB_HOST" required:"true"`
	Port           int           `envconfig:"DB_PORT" default:"5432"`
	User           string        `envconfig:"DB_USER" required:"true"`
	Password       string        `envconfig:"DB_PASSWORD" required:"true"`
	Name           string        `envconfig:"DB_NAME" required:"true"`
	SSLMode        string        `envconfig:"DB_SSLMODE" default:"disable"`
	MaxOpenCons    int           `envconfig:"DB_MAX_OPEN_CONS" default:"25"`
	MaxIdleCons    int           `envconfig:"DB_MAX_IDLE_CONS" default:"5"`
	ConMaxLifeTime time.Duration `envconfig:"DB_CONMAX_LIFE_TIME" default:"5m"`
}

// URL renders the connection settings as a postgres URL
func (c DatabaseConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + strconv.Itoa(c.Port),
		Path:     "/" + c.Name,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}

// RedisConfig enables the token cache when Addr is set
type RedisConfig struct {
	Addr     string        `envconfig:"REDIS_ADDR"`
	Password string        `envconfig:"REDIS_PASSWORD"`
	DB       int           `envconfig:"REDIS_DB" default:"0"`
	TokenTTL time.Duration `envconfig:"REDIS_TOKEN_TTL" default:"5m"`
}

// NATSConfig enables backup events when URL is set
type NATSConfig struct {
	URL          string `envconfig:"NATS_URL"`
	StreamName   string `envconfig:"NATS_STREAM_NAME" default:"BACKUPS"`
	Subject      string `envconfig:"NATS_SUBJECT" default:"backups.archived"`
	ConsumerName string `envconfig:"NATS_CONSUMER_NAME" default:"audit-worker"`
}

// ByteSize is a size read from a human readable value such as "100MB"
type ByteSize int64

// Decode implements envconfig.Decoder
func (b *ByteSize) Decode(value string) error {
	size, err := units.FromHumanSize(value)
	if err != nil {
		return fmt.Errorf("invalid size %q: %w", value, err)
	}
	*b = ByteSize(size)
	return nil
}

// Int64 returns the size in bytes
func (b ByteSize) Int64() int64 {
	return int64(b)
}

// SlogLevel maps LOG_LEVEL to a slog level
func (c LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Load reads the process configuration from the environment and validates it
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// WorkerConfig is the subset of settings read by the audit worker
type WorkerConfig struct {
	Log      LogConfig
	Database DatabaseConfig
	NATS     NATSConfig
}

// LoadWorker reads the audit worker configuration; the remote store settings are not required there
func LoadWorker() (*WorkerConfig, error) {
	var cfg WorkerConfig

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.NATS.URL == "" {
		return nil, fmt.Errorf("invalid configuration: NATS_URL is required by the audit worker")
	}

	return &cfg, nil
}

// Validate checks the constraints envconfig cannot express
func Validate(cfg *Config) error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.Remote.Protocol == "minio" && cfg.Minio.BucketName == "" {
		return fmt.Errorf("invalid configuration: MINIO_BUCKET_NAME is required for the minio protocol")
	}
	if cfg.Upload.MaxSize <= 0 {
		return fmt.Errorf("invalid configuration: UPLOAD_MAX_SIZE must be positive")
	}
	return nil
}
