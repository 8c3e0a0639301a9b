package objstore

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/ahlulathar/ahlulathar-api/pkg/errors"
	"github.com/ahlulathar/ahlulathar-api/pkg/logger"
	"github.com/ahlulathar/ahlulathar-api/pkg/metrics"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// StorageClient uploads user avatars to S3-compatible object storage
type StorageClient struct {
	s3Client   *s3.Client
	bucketName string
	endpoint   string
}

// StorageClientInterface abstracts avatar storage for services and tests
type StorageClientInterface interface {
	UploadAvatar(ctx context.Context, imageData, key, contentType string) (string, error)
	ValidateImageType(contentType string) error
	ValidateImageSize(imageData string) error
}

// NewStorageClient creates a new object storage client using the S3 SDK
func NewStorageClient(accessKeyID, secretAccessKey, bucketName, endpoint, region string) (*StorageClient, error) {
	if accessKeyID == "" || secretAccessKey == "" {
		return nil, fmt.Errorf("object storage credentials are required")
	}
	if bucketName == "" {
		return nil, fmt.Errorf("object storage bucket name is required")
	}
	if region == "" {
		region = "me-central-1"
	}

	s3Client := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(endpoint),
		Credentials: credentials.NewStaticCredentialsProvider(
			accessKeyID,
			secretAccessKey,
			"", // session token not needed
		),
	})

	logger.Info("Object storage client initialized",
		zap.String("bucket", bucketName),
		zap.String("endpoint", endpoint),
		zap.String("region", region),
	)

	return &StorageClient{
		s3Client:   s3Client,
		bucketName: bucketName,
		endpoint:   endpoint,
	}, nil
}

// decodeBase64Image decodes raw base64 or a data URI (data:image/png;base64,...)
func decodeBase64Image(imageData string) ([]byte, error) {
	if strings.HasPrefix(imageData, "data:") {
		parts := strings.SplitN(imageData, ",", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid data URI format")
		}
		return base64.StdEncoding.DecodeString(parts[1])
	}
	return base64.StdEncoding.DecodeString(imageData)
}

// UploadAvatar uploads an avatar image and returns its public URL
func (s *StorageClient) UploadAvatar(ctx context.Context, imageData, key, contentType string) (string, error) {
	start := time.Now()
	operation := "uploadAvatar"

	imageBytes, err := decodeBase64Image(imageData)
	if err != nil {
		metrics.ObjectStorageRequestDuration.WithLabelValues(operation, "error").Observe(metrics.MeasureDuration(start))
		metrics.ObjectStorageRequestTotal.WithLabelValues(operation, "error").Inc()
		return "", fmt.Errorf("failed to decode base64 image: %w", err)
	}

	_, err = s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(imageBytes),
		ContentType: aws.String(contentType),
	})

	duration := metrics.MeasureDuration(start)

	if err != nil {
		metrics.ObjectStorageRequestDuration.WithLabelValues(operation, "error").Observe(duration)
		metrics.ObjectStorageRequestTotal.WithLabelValues(operation, "error").Inc()
		logger.Error("Avatar upload failed",
			zap.Error(err),
			zap.String("key", key),
		)
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}

	metrics.ObjectStorageRequestDuration.WithLabelValues(operation, "success").Observe(duration)
	metrics.ObjectStorageRequestTotal.WithLabelValues(operation, "success").Inc()
	logger.Info("Avatar uploaded",
		zap.String("key", key),
		zap.Int("size_bytes", len(imageBytes)),
	)

	// Public URL format: {endpoint}/{bucket}/{key}
	return fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucketName, key), nil
}

// ValidateImageType validates the image content type
func (s *StorageClient) ValidateImageType(contentType string) error {
	validTypes := map[string]bool{
		"image/jpeg": true,
		"image/jpg":  true,
		"image/png":  true,
		"image/webp": true,
	}

	if !validTypes[strings.ToLower(contentType)] {
		return fmt.Errorf("invalid file type: %s. Allowed types: jpeg, jpg, png, webp: %w", contentType, apperrors.ErrInvalidInput)
	}

	return nil
}

// ValidateImageSize validates the image size (max 5MB for avatars)
func (s *StorageClient) ValidateImageSize(imageData string) error {
	const maxSize = 5 * 1024 * 1024

	imageBytes, err := decodeBase64Image(imageData)
	if err != nil {
		return fmt.Errorf("failed to decode image for size validation: %v: %w", err, apperrors.ErrInvalidInput)
	}

	if len(imageBytes) > maxSize {
		return fmt.Errorf("file too large: %d bytes (max %d bytes): %w", len(imageBytes), maxSize, apperrors.ErrInvalidInput)
	}

	return nil
}

// GenerateAvatarKey builds the object key for a user's avatar
func GenerateAvatarKey(userID, contentType string) string {
	ext := "jpg"
	switch strings.ToLower(contentType) {
	case "image/png":
		ext = "png"
	case "image/webp":
		ext = "webp"
	}
	return fmt.Sprintf("avatars/%s.%s", userID, ext)
}
