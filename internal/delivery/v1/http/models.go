package http

import (
	"encoding/json"

	"github.com/DRSN-tech/ecospark-backend/internal/domain"
	"github.com/DRSN-tech/ecospark-backend/internal/usecase"
)

type ChatHistoryItem struct {
	Role    string `json:"role" example:"user"`
	Message string `json:"message" example:"Do you sell solar lamps?"`
}

type ChatbotRequest struct {
	ClientID    string            `json:"clientId" example:"c0ffee"`
	Message     string            `json:"message" example:"Which of them is the cheapest?"`
	ChatHistory []ChatHistoryItem `json:"chatHistory"`
}

type ChatbotResponse struct {
	Message  string        `json:"message"`
	Products []ProductResp `json:"products"`
}

type GreetingResponse struct {
	Message string `json:"message" example:"Hello World"`
}

type BrandResp struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CategoryResp struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type ProductResp struct {
	ID             int64              `json:"id"`
	Name           string             `json:"name"`
	Description    *string            `json:"description,omitempty"`
	Brand          *BrandResp         `json:"brand,omitempty"`
	Category       *CategoryResp      `json:"category,omitempty"`
	Price          json.Number        `json:"price" swaggertype:"number" example:"499.90"`
	Currency       string             `json:"currency" example:"USD"`
	Specifications []domain.Attribute `json:"specifications"`
	EcoData        []domain.Attribute `json:"ecoData"`
	CoverImage     *string            `json:"coverImage,omitempty"`
	CoverImageURL  string             `json:"coverImageUrl,omitempty"`
}

func (r *ChatbotRequest) ToUseCase() *usecase.ProcessMessageReq {
	history := make([]usecase.ChatHistoryItem, 0, len(r.ChatHistory))
	for _, item := range r.ChatHistory {
		history = append(history, usecase.NewChatHistoryItem(item.Role, item.Message))
	}

	return usecase.NewProcessMessageReq(r.ClientID, r.Message, history)
}

func NewChatbotResponse(res *usecase.ProcessMessageRes) *ChatbotResponse {
	products := make([]ProductResp, 0, len(res.Products))
	for _, info := range res.Products {
		products = append(products, NewProductResp(&info))
	}

	return &ChatbotResponse{
		Message:  res.Message,
		Products: products,
	}
}

func NewProductResp(info *usecase.ProductInfo) ProductResp {
	p := info.Product

	resp := ProductResp{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Price:          json.Number(p.Price.StringFixed(2)),
		Currency:       domain.Currency,
		Specifications: nonNil(p.Specifications),
		EcoData:        nonNil(p.EcoData),
		CoverImage:     p.CoverImage,
		CoverImageURL:  info.CoverImageURL,
	}
	if p.Brand != nil {
		resp.Brand = &BrandResp{ID: p.Brand.ID, Name: p.Brand.Name, Description: p.Brand.Description}
	}
	if p.Category != nil {
		resp.Category = &CategoryResp{ID: p.Category.ID, Name: p.Category.Name, Slug: p.Category.Slug}
	}

	return resp
}

func nonNil(attrs []domain.Attribute) []domain.Attribute {
	if attrs == nil {
		return []domain.Attribute{}
	}
	return attrs
}
