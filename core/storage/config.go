package storage

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
)

const (
	DriverAWS   = "aws"
	DriverMinio = "minio"
)

// DefaultPresignExpiry is used when PresignExpirySeconds is unset.
const DefaultPresignExpiry = 24 * time.Hour

// MaxPresignExpiry is the longest lifetime SigV4 accepts for a presigned URL.
const MaxPresignExpiry = 7 * 24 * time.Hour

// ErrInvalidConfig is returned when the storage configuration cannot be used to build a client.
var ErrInvalidConfig = errors.New("invalid storage configuration")

// Config holds configuration for the storage provider.
// Keys live under the "aws" section, so AWS_REGION maps to Region and so on.
type Config struct {
	// Region is the location of the bucket (e.g., us-east-1).
	Region string `mapstructure:"region" default:""`
	// AccessKeyID is the access key ID for authentication.
	AccessKeyID string `mapstructure:"access_key_id" default:""`
	// SecretAccessKey is the secret access key for authentication.
	SecretAccessKey string `mapstructure:"secret_access_key" default:""`
	// Bucket is the name of the bucket objects are signed against.
	Bucket string `mapstructure:"s3_bucket_name" default:""`
	// Driver selects the SDK used to sign requests (aws, minio).
	Driver string `mapstructure:"s3_driver" default:"aws"`
	// Endpoint overrides the service URL for S3-compatible providers.
	Endpoint string `mapstructure:"s3_endpoint" default:""`
	// UsePathStyle forces path-style addressing (bucket in the path, not the host).
	UsePathStyle bool `mapstructure:"s3_use_path_style" default:"false"`
	// UseSSL indicates whether to use SSL/TLS for connections (minio driver).
	UseSSL bool `mapstructure:"s3_use_ssl" default:"true"`
	// PresignExpirySeconds is the default lifetime of a signed URL.
	PresignExpirySeconds int `mapstructure:"s3_presign_expiry_seconds" default:"86400"`
	// TimeoutSeconds is the connection timeout in seconds.
	TimeoutSeconds int `mapstructure:"s3_timeout_seconds" default:"30"`
}

// Validate reports every missing or unsupported setting at once.
func (c Config) Validate() error {
	var problems []string

	required := []struct {
		env   string
		value string
	}{
		{"AWS_REGION", c.Region},
		{"AWS_ACCESS_KEY_ID", c.AccessKeyID},
		{"AWS_SECRET_ACCESS_KEY", c.SecretAccessKey},
		{"AWS_S3_BUCKET_NAME", c.Bucket},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			problems = append(problems, "missing "+r.env)
		}
	}

	switch c.driver() {
	case DriverAWS:
	case DriverMinio:
		if c.Endpoint == "" {
			problems = append(problems, "missing AWS_S3_ENDPOINT (required by the minio driver)")
		}
	default:
		problems = append(problems, fmt.Sprintf("unsupported AWS_S3_DRIVER %q", c.Driver))
	}

	switch {
	case c.PresignExpirySeconds < 0:
		problems = append(problems, "AWS_S3_PRESIGN_EXPIRY_SECONDS must not be negative")
	case c.PresignExpirySeconds > int(MaxPresignExpiry/time.Second):
		problems = append(problems, fmt.Sprintf("AWS_S3_PRESIGN_EXPIRY_SECONDS must not exceed %d", int(MaxPresignExpiry/time.Second)))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// PresignExpiry returns the configured default expiry window.
func (c Config) PresignExpiry() time.Duration {
	if c.PresignExpirySeconds <= 0 {
		return DefaultPresignExpiry
	}
	return time.Duration(c.PresignExpirySeconds) * time.Second
}

func (c Config) driver() string {
	if c.Driver == "" {
		return DriverAWS
	}
	return strings.ToLower(c.Driver)
}

func (c Config) timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// MarshalLogObject lets the config be logged with zap.Object without leaking credentials.
func (c Config) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("driver", c.driver())
	enc.AddString("region", c.Region)
	enc.AddString("bucket", c.Bucket)
	if c.Endpoint != "" {
		enc.AddString("endpoint", c.Endpoint)
	}
	enc.AddString("access_key_id", mask(c.AccessKeyID))
	if c.SecretAccessKey != "" {
		enc.AddString("secret_access_key", "****")
	}
	enc.AddDuration("presign_expiry", c.PresignExpiry())
	return nil
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return "****"
	}
	return s[:4] + "****"
}
