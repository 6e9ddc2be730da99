package services

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"alfredoptarigan/resume-analyzer/internal/config"
)

// StorageService keeps a copy of every analysed upload.
type StorageService interface {
	// Archive stores data and returns where it was put.
	Archive(ctx context.Context, filename string, data []byte) (string, error)
}

// NewStorageService picks the backend configured in cfg.
func NewStorageService(ctx context.Context, cfg *config.Config) (StorageService, error) {
	switch cfg.Storage.Backend {
	case config.StorageLocal:
		s := NewLocalStorageService(cfg.Storage.UploadPath)
		if err := s.EnsureUploadDir(); err != nil {
			return nil, err
		}
		return s, nil
	case config.StorageS3:
		return NewS3StorageService(ctx, cfg.S3)
	default:
		return noopStorage{}, nil
	}
}

type noopStorage struct{}

func (noopStorage) Archive(context.Context, string, []byte) (string, error) {
	return "", nil
}

// archiveName builds a collision-free object name that keeps the extension.
func archiveName(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("resume_%s%s", uuid.New().String(), ext)
}

type LocalStorageService struct {
	uploadPath string
}

func NewLocalStorageService(uploadPath string) *LocalStorageService {
	return &LocalStorageService{
		uploadPath: uploadPath,
	}
}

func (s *LocalStorageService) EnsureUploadDir() error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	return nil
}

func (s *LocalStorageService) Archive(_ context.Context, filename string, data []byte) (string, error) {
	filePath := s.GetFilePath(archiveName(filename))

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return filePath, nil
}

func (s *LocalStorageService) GetFilePath(filename string) string {
	return filepath.Join(s.uploadPath, filename)
}

// S3API is the part of the S3 client the archive uses.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3StorageService struct {
	client S3API
	bucket string
	prefix string
}

// NewS3StorageService connects to AWS S3 or any S3-compatible endpoint such
// as Cloudflare R2.
func NewS3StorageService(ctx context.Context, cfg config.S3Config) (*S3StorageService, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return NewS3StorageServiceWithClient(client, cfg.Bucket, cfg.Prefix), nil
}

func NewS3StorageServiceWithClient(client S3API, bucket, prefix string) *S3StorageService {
	return &S3StorageService{client: client, bucket: bucket, prefix: prefix}
}

func (s *S3StorageService) Archive(ctx context.Context, filename string, data []byte) (string, error) {
	key := path.Join(s.prefix, archiveName(filename))

	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		Metadata: map[string]string{
			"original-filename": filename,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to put object: %w", err)
	}

	return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}
