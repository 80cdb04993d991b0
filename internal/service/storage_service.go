package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Harish3000/Learn-Labs-sub000/internal/config"
	"github.com/Harish3000/Learn-Labs-sub000/internal/util"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// StorageProvider abstracts where lecture assets (videos, transcripts) are
// kept. The provider is chosen once at startup from config.
type StorageProvider interface {
	Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, objectName string) error
	GetURL(objectName string) string
}

type StorageService struct {
	provider StorageProvider
}

func NewStorageService(cfg *config.Config) (*StorageService, error) {
	switch cfg.Storage.Type {
	case util.StorageMinio:
		provider, err := newMinioProvider(&cfg.Storage)
		if err != nil {
			return nil, err
		}
		return &StorageService{provider: provider}, nil
	case util.StorageOSS:
		provider, err := newOSSProvider(&cfg.Storage)
		if err != nil {
			return nil, err
		}
		return &StorageService{provider: provider}, nil
	default:
		return &StorageService{provider: &localProvider{cfg: &cfg.Storage}}, nil
	}
}

func (s *StorageService) Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	return s.provider.Upload(ctx, objectName, reader, size, contentType)
}

func (s *StorageService) Delete(ctx context.Context, objectName string) error {
	return s.provider.Delete(ctx, objectName)
}

func (s *StorageService) GetURL(objectName string) string {
	return s.provider.GetURL(objectName)
}

// localProvider keeps assets on the server filesystem, served by the
// static route registered in app setup.
type localProvider struct {
	cfg *config.StorageConfig
}

func (p *localProvider) Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	dst := filepath.Join(p.cfg.LocalPath, objectName)
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", err
	}

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, reader); err != nil {
		return "", err
	}
	return p.GetURL(objectName), nil
}

func (p *localProvider) Delete(ctx context.Context, objectName string) error {
	return os.Remove(filepath.Join(p.cfg.LocalPath, objectName))
}

func (p *localProvider) GetURL(objectName string) string {
	return "/uploads/" + objectName
}

type minioProvider struct {
	client *minio.Client
	cfg    *config.StorageConfig
}

func newMinioProvider(cfg *config.StorageConfig) (*minioProvider, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: false,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}
	return &minioProvider{client: client, cfg: cfg}, nil
}

func (p *minioProvider) Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := p.client.PutObject(ctx, p.cfg.MinioBucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return p.GetURL(objectName), nil
}

func (p *minioProvider) Delete(ctx context.Context, objectName string) error {
	return p.client.RemoveObject(ctx, p.cfg.MinioBucket, objectName, minio.RemoveObjectOptions{})
}

func (p *minioProvider) GetURL(objectName string) string {
	return fmt.Sprintf("http://%s/%s/%s", p.cfg.MinioEndpoint, p.cfg.MinioBucket, objectName)
}

type ossProvider struct {
	bucket *oss.Bucket
	cfg    *config.StorageConfig
}

func newOSSProvider(cfg *config.StorageConfig) (*ossProvider, error) {
	client, err := oss.New(cfg.OSSEndpoint, cfg.OSSAccessKey, cfg.OSSSecretKey)
	if err != nil {
		return nil, fmt.Errorf("init oss client: %w", err)
	}
	bucket, err := client.Bucket(cfg.OSSBucket)
	if err != nil {
		return nil, fmt.Errorf("open oss bucket: %w", err)
	}
	return &ossProvider{bucket: bucket, cfg: cfg}, nil
}

func (p *ossProvider) Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	err := p.bucket.PutObject(objectName, reader, oss.ContentType(contentType))
	if err != nil {
		return "", err
	}
	return p.GetURL(objectName), nil
}

func (p *ossProvider) Delete(ctx context.Context, objectName string) error {
	return p.bucket.DeleteObject(objectName)
}

func (p *ossProvider) GetURL(objectName string) string {
	return fmt.Sprintf("https://%s.%s/%s", p.cfg.OSSBucket, p.cfg.OSSEndpoint, objectName)
}
