package usecase

import (
	"time"

	"github.com/DRSN-tech/ecospark-backend/internal/domain"
	"github.com/google/uuid"
)

// CHATBOT USECASE

// ProcessMessageReq — сообщение клиента вместе с историей диалога.
type ProcessMessageReq struct {
	ClientID    string
	Message     string
	ChatHistory []ChatHistoryItem
}

// ChatHistoryItem — реплика истории в том виде, в котором её прислал клиент.
type ChatHistoryItem struct {
	Role    string
	Message string
}

// ProcessMessageRes — ответ бота без маркеров товаров и упомянутые товары.
type ProcessMessageRes struct {
	Message  string
	Products []ProductInfo
}

// ProductInfo — товар для ответа клиенту со ссылкой на обложку, если она доступна.
type ProductInfo struct {
	Product       domain.Product
	CoverImageURL string
}

// ExtractProductsRes — результат постобработки ответа модели.
type ExtractProductsRes struct {
	Message  string
	Products []domain.Product
}

// INFRASTRUCTURE

// RecommendationEvent публикуется, когда бот порекомендовал товары. Текст диалога в событие не попадает.
type RecommendationEvent struct {
	EventID    uuid.UUID `json:"eventId"`
	ClientID   string    `json:"clientId"`
	ProductIDs []int64   `json:"productIds"`
	CreatedAt  time.Time `json:"createdAt"`
}

// SEED USECASE

// SeedCatalog — каталог для наполнения базы. Товары ссылаются на бренд по имени и на категорию по slug.
type SeedCatalog struct {
	Categories []domain.Category
	Brands     []domain.Brand
	Products   []domain.Product
}

type SeedResult struct {
	Categories int
	Brands     int
	Products   int
}

// MAPPERS

func NewProcessMessageReq(clientID, message string, history []ChatHistoryItem) *ProcessMessageReq {
	return &ProcessMessageReq{
		ClientID:    clientID,
		Message:     message,
		ChatHistory: history,
	}
}

func NewChatHistoryItem(role, message string) ChatHistoryItem {
	return ChatHistoryItem{
		Role:    role,
		Message: message,
	}
}

func NewProcessMessageRes(message string, products []ProductInfo) *ProcessMessageRes {
	return &ProcessMessageRes{
		Message:  message,
		Products: products,
	}
}

func NewExtractProductsRes(message string, products []domain.Product) *ExtractProductsRes {
	return &ExtractProductsRes{
		Message:  message,
		Products: products,
	}
}

func NewRecommendationEvent(clientID string, productIDs []int64) *RecommendationEvent {
	return &RecommendationEvent{
		EventID:    uuid.New(),
		ClientID:   clientID,
		ProductIDs: productIDs,
		CreatedAt:  time.Now().UTC(),
	}
}

func NewSeedResult(categories, brands, products int) *SeedResult {
	return &SeedResult{
		Categories: categories,
		Brands:     brands,
		Products:   products,
	}
}
