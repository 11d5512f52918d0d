package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

const (
	DefaultModel   = "meta-llama/llama-4-scout-17b-16e-instruct"
	DefaultBaseURL = "https://api.groq.com/openai/v1"
)

type Config struct {
	Server ServerConfig
	Groq   GroqConfig
	S3     S3Config
	App    AppConfig
}

type ServerConfig struct {
	Host string
	Port string
}

// GroqConfig holds the remote endpoint only. The API key arrives with each request.
type GroqConfig struct {
	BaseURL string
	Model   string
}

type S3Config struct {
	Enabled         bool
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Region          string
}

type AppConfig struct {
	UploadDir         string
	MaxUploadSize     int64
	AllowedExtensions []string
	LogLevel          string
}

func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("PORT", "5000")
	v.SetDefault("GROQ_BASE_URL", DefaultBaseURL)
	v.SetDefault("GROQ_MODEL", DefaultModel)
	v.SetDefault("S3_ENABLED", false)
	v.SetDefault("S3_ENDPOINT", "http://localhost:9000")
	v.SetDefault("S3_ACCESS_KEY_ID", "minioadmin")
	v.SetDefault("S3_SECRET_ACCESS_KEY", "minioadmin")
	v.SetDefault("S3_BUCKET_NAME", "medical-uploads")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("MAX_UPLOAD_SIZE", 32<<20) // 32MB
	v.SetDefault("LOG_LEVEL", "info")

	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetString("PORT"),
		},
		Groq: GroqConfig{
			BaseURL: v.GetString("GROQ_BASE_URL"),
			Model:   v.GetString("GROQ_MODEL"),
		},
		S3: S3Config{
			Enabled:         v.GetBool("S3_ENABLED"),
			Endpoint:        v.GetString("S3_ENDPOINT"),
			AccessKeyID:     v.GetString("S3_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("S3_SECRET_ACCESS_KEY"),
			BucketName:      v.GetString("S3_BUCKET_NAME"),
			Region:          v.GetString("S3_REGION"),
		},
		App: AppConfig{
			UploadDir:         v.GetString("UPLOAD_DIR"),
			MaxUploadSize:     v.GetInt64("MAX_UPLOAD_SIZE"),
			AllowedExtensions: []string{"png", "jpg", "jpeg", "dicom"},
			LogLevel:          v.GetString("LOG_LEVEL"),
		},
	}

	if err := createDirs(cfg); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	return cfg, nil
}

// Addr is the listen address for http.Server.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

func createDirs(cfg *Config) error {
	if err := os.MkdirAll(cfg.App.UploadDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", cfg.App.UploadDir, err)
	}
	return nil
}
