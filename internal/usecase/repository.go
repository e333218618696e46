package usecase

import (
	"context"
	"time"

	"github.com/DRSN-tech/ecospark-backend/internal/domain"
)

type CatalogRepository interface {
	// FindAll возвращает весь каталог с брендами, категориями и характеристиками.
	FindAll(ctx context.Context) ([]domain.Product, error)
	// FindByIDs выполняет один пакетный запрос. Отсутствующие id молча пропускаются, порядок не гарантирован.
	FindByIDs(ctx context.Context, ids []int64) ([]domain.Product, error)
}

type SeedRepository interface {
	// ReplaceCatalog удаляет текущий каталог и записывает новый. Работает в транзакции из ctx.
	ReplaceCatalog(ctx context.Context, catalog *SeedCatalog) (*SeedResult, error)
}

type EmbeddingCache interface {
	GetMany(ctx context.Context, keys []string) (map[string][]float32, error)
	SetMany(ctx context.Context, vectors map[string][]float32) error
}

type CoverRepository interface {
	Upload(ctx context.Context, cover *domain.CoverImage) (string, error)
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}
