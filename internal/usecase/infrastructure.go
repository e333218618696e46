package usecase

import (
	"context"

	"github.com/DRSN-tech/ecospark-backend/internal/domain"
)

// Embedder превращает тексты в векторы. Порядок результата совпадает с порядком входа.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// LanguageModel генерирует текстовый ответ на набор сообщений.
type LanguageModel interface {
	Generate(ctx context.Context, messages []domain.PromptMessage) (string, error)
}

// IndexBuilder строит векторный индекс по набору документов.
type IndexBuilder interface {
	Build(ctx context.Context, docs []domain.Document) (VectorIndex, error)
}

type VectorIndex interface {
	// Retrieve возвращает до k документов, ближайших к запросу, по убыванию близости.
	Retrieve(ctx context.Context, query string, k int) ([]domain.Document, error)
	Len() int
}

type ImageLinker interface {
	CoverImageURL(ctx context.Context, key string) (string, error)
}

// CoverUploader загружает обложки товаров. Возвращает ключи загруженных объектов.
type CoverUploader interface {
	UploadCovers(ctx context.Context, covers []domain.CoverImage) ([]string, error)
}

type EventPublisher interface {
	PublishRecommendation(ctx context.Context, event *RecommendationEvent) error
}

// ChatbotMetrics собирает метрики работы чат-бота.
type ChatbotMetrics interface {
	ObserveRetrievedDocuments(n int)
	AddReferencedProducts(n int)
}

type noopMetrics struct{}

func (noopMetrics) ObserveRetrievedDocuments(int) {}
func (noopMetrics) AddReferencedProducts(int) {}
