package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	BlobDriverLocal = "local"
	BlobDriverS3    = "s3"
	BlobDriverMinio = "minio"

	BackupDriverFile  = "file"
	BackupDriverRedis = "redis"
	BackupDriverNone  = "none"
)

type Config struct {
	Debug                    bool   `envconfig:"debug"`
	Port                     int    `envconfig:"port" default:"5000"`
	Env                      string `envconfig:"env" default:"dev"`
	PostgresHost             string `envconfig:"postgres_host" default:"localhost"`
	PostgresUser             string `envconfig:"postgres_user"`
	PostgresDB               string `envconfig:"postgres_db"`
	PostgresPort             int    `envconfig:"postgres_port" default:"5432"`
	PostgresPassword         string `envconfig:"postgres_password"`
	AccessControlAllowOrigin string `envconfig:"access_control_allow_origin"`
	MaxUploadMB              int64  `envconfig:"max_upload_mb" default:"32"`

	// Blob storage for report images.
	BlobDriver         string `envconfig:"blob_driver" default:"local"`
	ImagesDir          string `envconfig:"images_dir" default:"./images"`
	ImageBaseURL       string `envconfig:"image_base_url" default:"/images/"`
	AWSBucket          string `envconfig:"aws_bucket"`
	AWSRegion          string `envconfig:"aws_region" default:"eu-central-1"`
	AWSAccessKeyID     string `envconfig:"aws_access_key_id"`
	AWSSecretAccessKey string `envconfig:"aws_secret_access_key"`
	AWSEndpointURL     string `envconfig:"aws_endpoint_url"`
	MinioEndpoint      string `envconfig:"minio_endpoint"`
	MinioAccessKey     string `envconfig:"minio_access_key"`
	MinioSecretKey     string `envconfig:"minio_secret_key"`
	MinioBucket        string `envconfig:"minio_bucket" default:"reports"`
	MinioUseSSL        bool   `envconfig:"minio_use_ssl"`

	// Submission backup records.
	BackupDriver string `envconfig:"backup_driver" default:"file"`
	ReportsDir   string `envconfig:"reports_dir" default:"./reports"`
	RedisURL     string `envconfig:"redis_url"`
	BackupStream string `envconfig:"backup_stream" default:"reports:backup"`

	// Detector.
	DetectorURL       string        `envconfig:"detector_url" default:"http://localhost:8000/predict"`
	DetectTimeout     time.Duration `envconfig:"detect_timeout" default:"30s"`
	DetectorInputSize int           `envconfig:"detector_input_size" default:"640"`
}

func Load() (*Config, error) {
	env := os.Getenv("GIN_MODE")
	if env != "release" {
		if err := godotenv.Load("./.env"); err != nil {
			log.Printf("couldn't load env vars: %v", err)
		}
	}

	c := &Config{}
	err := envconfig.Process("urbaneye", c)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks driver names and the settings each driver needs.
func (c *Config) Validate() error {
	c.BlobDriver = strings.ToLower(strings.TrimSpace(c.BlobDriver))
	c.BackupDriver = strings.ToLower(strings.TrimSpace(c.BackupDriver))

	switch c.BlobDriver {
	case BlobDriverLocal:
		if c.ImagesDir == "" {
			return fmt.Errorf("images_dir is required for the %s blob driver", c.BlobDriver)
		}
	case BlobDriverS3:
		if c.AWSBucket == "" {
			return fmt.Errorf("aws_bucket is required for the %s blob driver", c.BlobDriver)
		}
	case BlobDriverMinio:
		if c.MinioEndpoint == "" || c.MinioBucket == "" {
			return fmt.Errorf("minio_endpoint and minio_bucket are required for the %s blob driver", c.BlobDriver)
		}
	default:
		return fmt.Errorf("unknown blob driver %q", c.BlobDriver)
	}

	switch c.BackupDriver {
	case BackupDriverFile:
		if c.ReportsDir == "" {
			return fmt.Errorf("reports_dir is required for the %s backup driver", c.BackupDriver)
		}
	case BackupDriverRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("redis_url is required for the %s backup driver", c.BackupDriver)
		}
	case BackupDriverNone:
	default:
		return fmt.Errorf("unknown backup driver %q", c.BackupDriver)
	}

	if c.DetectTimeout <= 0 {
		return fmt.Errorf("detect_timeout must be positive")
	}
	if c.DetectorInputSize < 0 {
		return fmt.Errorf("detector_input_size must not be negative")
	}
	if c.MaxUploadMB <= 0 {
		c.MaxUploadMB = 32
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "prod" || c.Env == "production"
}
