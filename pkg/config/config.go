package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration aggregated from .env, config.yaml and the environment.
type Config struct {
	Server struct {
		Port            string
		Env             string
		ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	}
	Postgres struct {
		URL string
	}
	Mongo struct {
		URI      string
		Database string
	}
	Redis struct {
		Addr     string
		Password string
		DB       int
		TTL      time.Duration
	}
	Auth struct {
		Provider                string
		FirebaseCredentialsPath string `mapstructure:"firebase_credentials_path"`
		JWTSecret               string `mapstructure:"jwt_secret"`
	}
	Gemini struct {
		APIKey string `mapstructure:"api_key"`
		Model  string
	}
	Media struct {
		Provider      string
		CloudinaryURL string `mapstructure:"cloudinary_url"`
		Folder        string
		S3Bucket      string `mapstructure:"s3_bucket"`
		S3Region      string `mapstructure:"s3_region"`
		S3Endpoint    string `mapstructure:"s3_endpoint"`
		S3PublicURL   string `mapstructure:"s3_public_url"`
	}
	Follow struct {
		DefaultLimit int `mapstructure:"default_limit"`
		MaxLimit     int `mapstructure:"max_limit"`
	}
}

const (
	AuthProviderFirebase = "firebase"
	AuthProviderJWT      = "jwt"

	MediaProviderCloudinary = "cloudinary"
	MediaProviderS3         = "s3"
)

// Load reads configuration. Every key can be overridden with an INKWELL_ prefixed
// environment variable, e.g. INKWELL_POSTGRES_URL.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("INKWELL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.env", "development")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("postgres.url", "")
	v.SetDefault("mongo.uri", "")
	v.SetDefault("mongo.database", "inkwell")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 5*time.Minute)
	v.SetDefault("auth.provider", AuthProviderFirebase)
	v.SetDefault("auth.firebase_credentials_path", "./firebase_credentials.json")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", "gemini-2.5-flash")
	v.SetDefault("media.provider", MediaProviderCloudinary)
	v.SetDefault("media.cloudinary_url", "")
	v.SetDefault("media.folder", "inkwell")
	v.SetDefault("media.s3_bucket", "")
	v.SetDefault("media.s3_region", "us-east-1")
	v.SetDefault("media.s3_endpoint", "")
	v.SetDefault("media.s3_public_url", "")
	v.SetDefault("follow.default_limit", 20)
	v.SetDefault("follow.max_limit", 100)
}

// Validate reports the first missing or inconsistent setting.
func (c *Config) Validate() error {
	if c.Postgres.URL == "" {
		return errors.New("postgres.url is required")
	}
	if c.Mongo.URI == "" {
		return errors.New("mongo.uri is required")
	}
	switch c.Auth.Provider {
	case AuthProviderFirebase:
		if c.Auth.FirebaseCredentialsPath == "" {
			return errors.New("auth.firebase_credentials_path is required for the firebase provider")
		}
	case AuthProviderJWT:
		if c.Auth.JWTSecret == "" {
			return errors.New("auth.jwt_secret is required for the jwt provider")
		}
	default:
		return fmt.Errorf("unknown auth.provider %q", c.Auth.Provider)
	}
	switch c.Media.Provider {
	case MediaProviderCloudinary, MediaProviderS3, "":
	default:
		return fmt.Errorf("unknown media.provider %q", c.Media.Provider)
	}
	if c.Follow.DefaultLimit <= 0 || c.Follow.MaxLimit < c.Follow.DefaultLimit {
		return errors.New("follow limits must satisfy 0 < default_limit <= max_limit")
	}
	return nil
}

// IsDevelopment reports whether the service runs with development defaults.
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}
