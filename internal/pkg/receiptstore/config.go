package receiptstore

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/nearbiz/backoffice/internal/pkg/env"
)

// Config holds receipt storage configuration
type Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	BucketName      string
	EndpointURL     string // Optional for S3-compatible services
	PublicBaseURL   string // Base URL receipts are publicly served from
}

// LoadConfig loads receipt storage configuration from environment variables
func LoadConfig() (*Config, error) {
	config := &Config{
		AccessKeyID:     env.GetEnv("S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: env.GetEnv("S3_SECRET_ACCESS_KEY", ""),
		Region:          env.GetEnv("S3_REGION", "us-east-1"),
		BucketName:      env.GetEnv("S3_BUCKET_NAME", "business-assets"),
		EndpointURL:     env.GetEnv("S3_ENDPOINT_URL", ""),
		PublicBaseURL:   env.GetEnv("S3_PUBLIC_BASE_URL", ""),
	}

	if config.AccessKeyID == "" {
		return nil, errors.New("S3_ACCESS_KEY_ID is required for receipt storage")
	}
	if config.SecretAccessKey == "" {
		return nil, errors.New("S3_SECRET_ACCESS_KEY is required for receipt storage")
	}
	if config.BucketName == "" {
		return nil, errors.New("S3_BUCKET_NAME is required for receipt storage")
	}

	return config, nil
}

// ObjectKey generates the object key for a receipt upload. A UUID instead of
// an upload timestamp keeps concurrent submissions for the same business from
// colliding.
func (c *Config) ObjectKey(businessID uint, fileExtension string) string {
	return fmt.Sprintf("receipts/%d/%s%s", businessID, uuid.New().String(), fileExtension)
}

// PublicURL resolves the publicly reachable URL of an uploaded object.
func (c *Config) PublicURL(objectKey string) string {
	if c.PublicBaseURL != "" {
		return fmt.Sprintf("%s/%s", strings.TrimRight(c.PublicBaseURL, "/"), objectKey)
	}
	if c.EndpointURL != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(c.EndpointURL, "/"), c.BucketName, objectKey)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", c.BucketName, c.Region, objectKey)
}

// GetAppEnv returns the current application environment
func GetAppEnv() string {
	return env.GetEnv("APP_ENV", "dev")
}
