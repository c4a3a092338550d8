package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"study_backend/internal/config"
	"study_backend/pkg/logger"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// StorageProvider abstracts where generated artifacts, certificate
// archives mostly, end up.
type StorageProvider interface {
	Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, filename string) error
	GetURL(filename string) string
}

// StorageService fronts the configured provider so callers never care
// which backend is behind it.
type StorageService struct {
	Provider StorageProvider
}

// NewStorageService picks the provider by configuration and falls back
// to local disk when the remote client cannot be built.
func NewStorageService(cfg *config.Config) *StorageService {
	provider := buildProvider(&cfg.Storage)
	return &StorageService{Provider: provider}
}

func buildProvider(cfg *config.StorageConfig) StorageProvider {
	switch cfg.Type {
	case "minio":
		p, err := newMinioProvider(cfg)
		if err == nil {
			return p
		}
		logger.Log.Warn("Minio client unavailable, using local storage", zap.Error(err))
	case "oss":
		p, err := newOSSProvider(cfg)
		if err == nil {
			return p
		}
		logger.Log.Warn("OSS client unavailable, using local storage", zap.Error(err))
	}
	return &localProvider{root: cfg.LocalPath}
}

func (s *StorageService) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	return s.Provider.Upload(ctx, filename, reader, size, contentType)
}

func (s *StorageService) Delete(ctx context.Context, filename string) error {
	return s.Provider.Delete(ctx, filename)
}

func (s *StorageService) GetURL(filename string) string {
	return s.Provider.GetURL(filename)
}

// localProvider keeps artifacts on disk under the configured root and
// serves them through the /uploads static route.
type localProvider struct {
	root string
}

func (p *localProvider) Upload(_ context.Context, filename string, reader io.Reader, _ int64, _ string) (string, error) {
	dst := filepath.Join(p.root, filename)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("prepare upload dir: %w", err)
	}

	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, reader); err != nil {
		return "", fmt.Errorf("write %s: %w", dst, err)
	}
	return p.GetURL(filename), nil
}

func (p *localProvider) Delete(_ context.Context, filename string) error {
	return os.Remove(filepath.Join(p.root, filename))
}

func (p *localProvider) GetURL(filename string) string {
	return "/uploads/" + filename
}

type minioProvider struct {
	bucket string
	client *minio.Client
}

func newMinioProvider(cfg *config.StorageConfig) (*minioProvider, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: false,
	})
	if err != nil {
		return nil, err
	}
	return &minioProvider{bucket: cfg.MinioBucket, client: client}, nil
}

func (p *minioProvider) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	opts := minio.PutObjectOptions{ContentType: contentType}
	if _, err := p.client.PutObject(ctx, p.bucket, filename, reader, size, opts); err != nil {
		return "", fmt.Errorf("minio put %s: %w", filename, err)
	}
	return p.GetURL(filename), nil
}

func (p *minioProvider) Delete(ctx context.Context, filename string) error {
	return p.client.RemoveObject(ctx, p.bucket, filename, minio.RemoveObjectOptions{})
}

func (p *minioProvider) GetURL(filename string) string {
	return "/" + p.bucket + "/" + filename
}

type ossProvider struct {
	bucket   string
	endpoint string
	client   *oss.Client
}

func newOSSProvider(cfg *config.StorageConfig) (*ossProvider, error) {
	client, err := oss.New(cfg.OSSEndpoint, cfg.OSSAccessKey, cfg.OSSSecretKey)
	if err != nil {
		return nil, err
	}
	return &ossProvider{bucket: cfg.OSSBucket, endpoint: cfg.OSSEndpoint, client: client}, nil
}

func (p *ossProvider) Upload(_ context.Context, filename string, reader io.Reader, _ int64, _ string) (string, error) {
	bucket, err := p.client.Bucket(p.bucket)
	if err != nil {
		return "", fmt.Errorf("oss bucket %s: %w", p.bucket, err)
	}
	if err := bucket.PutObject(filename, reader); err != nil {
		return "", fmt.Errorf("oss put %s: %w", filename, err)
	}
	return p.GetURL(filename), nil
}

func (p *ossProvider) Delete(_ context.Context, filename string) error {
	bucket, err := p.client.Bucket(p.bucket)
	if err != nil {
		return err
	}
	return bucket.DeleteObject(filename)
}

func (p *ossProvider) GetURL(filename string) string {
	return fmt.Sprintf("https://%s.%s/%s", p.bucket, p.endpoint, filename)
}
