package converter

import (
	"encoding/json"
	"fmt"

	"github.com/DRSN-tech/ecospark-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// ProductConverter преобразует Product между domain и моделью PostgreSQL.
type ProductConverter interface {
	ToEntity(model *ProductModel) (*domain.Product, error)
	SpecificationsJSON(entity *domain.Product) (string, error)
	EcoDataJSON(entity *domain.Product) (string, error)
}

type productConverter struct{}

func NewProductConverter() ProductConverter {
	return productConverter{}
}

func (productConverter) ToEntity(model *ProductModel) (*domain.Product, error) {
	price, err := decimal.NewFromString(model.Price)
	if err != nil {
		return nil, fmt.Errorf("product %d: invalid price %q: %w", model.ID, model.Price, err)
	}

	specs, err := decodeAttributes(model.Specifications)
	if err != nil {
		return nil, fmt.Errorf("product %d: specifications: %w", model.ID, err)
	}

	eco, err := decodeAttributes(model.EcoData)
	if err != nil {
		return nil, fmt.Errorf("product %d: eco_data: %w", model.ID, err)
	}

	return &domain.Product{
		ID:             model.ID,
		Name:           model.Name,
		Description:    model.Description,
		Brand:          toBrand(model),
		Category:       toCategory(model),
		Price:          price,
		Specifications: specs,
		EcoData:        eco,
		CoverImage:     model.CoverImage,
	}, nil
}

func (productConverter) SpecificationsJSON(entity *domain.Product) (string, error) {
	return encodeAttributes(entity.Specifications)
}

func (productConverter) EcoDataJSON(entity *domain.Product) (string, error) {
	return encodeAttributes(entity.EcoData)
}

func toBrand(model *ProductModel) *domain.Brand {
	if model.BrandID == nil {
		return nil
	}

	b := &domain.Brand{ID: *model.BrandID}
	if model.BrandName != nil {
		b.Name = *model.BrandName
	}
	if model.BrandDescription != nil {
		b.Description = *model.BrandDescription
	}
	return b
}

func toCategory(model *ProductModel) *domain.Category {
	if model.CategoryID == nil {
		return nil
	}

	c := &domain.Category{ID: *model.CategoryID}
	if model.CategoryName != nil {
		c.Name = *model.CategoryName
	}
	if model.CategorySlug != nil {
		c.Slug = *model.CategorySlug
	}
	return c
}

// decodeAttributes читает JSON-массив [{"name": ..., "value": ...}], сохраняя порядок.
func decodeAttributes(raw []byte) ([]domain.Attribute, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var attrs []domain.Attribute
	if err := json.Unmarshal(raw, &attrs); err != nil {
		return nil, err
	}
	return attrs, nil
}

func encodeAttributes(attrs []domain.Attribute) (string, error) {
	if len(attrs) == 0 {
		return "[]", nil
	}

	raw, err := json.Marshal(attrs)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
