package minio

import (
	"bytes"
	"context"
	"net/url"
	"time"

	"github.com/DRSN-tech/ecospark-backend/internal/cfg"
	"github.com/DRSN-tech/ecospark-backend/internal/domain"
	"github.com/DRSN-tech/ecospark-backend/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/minio/minio-go/v7"
)

// CoverRepo хранит обложки товаров в MinIO.
type CoverRepo struct {
	mc  *minio.Client
	cfg *cfg.MinIOCfg
}

func NewCoverRepo(mc *minio.Client, cfg *cfg.MinIOCfg) *CoverRepo {
	return &CoverRepo{
		mc:  mc,
		cfg: cfg,
	}
}

// Upload загружает обложку и возвращает ключ объекта.
func (c *CoverRepo) Upload(ctx context.Context, cover *domain.CoverImage) (string, error) {
	info, err := c.mc.PutObject(ctx, c.cfg.BucketName, cover.ObjectKey, bytes.NewReader(cover.Data), cover.Size(), minio.PutObjectOptions{
		ContentType: cover.ContentType,
	})
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	return info.Key, nil
}

// PresignGet возвращает временную ссылку на скачивание объекта.
func (c *CoverRepo) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	u, err := c.mc.PresignedGetObject(ctx, c.cfg.BucketName, key, ttl, url.Values{})
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	return u.String(), nil
}

// Delete удаляет объект из MinIO по указанному ключу.
func (c *CoverRepo) Delete(ctx context.Context, key string) error {
	if err := c.mc.RemoveObject(ctx, c.cfg.BucketName, key, minio.RemoveObjectOptions{}); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}
