package domain

import "github.com/shopspring/decimal"

// Currency: валюта цен каталога
const Currency = "USD"

// Product описывает товар каталога вместе с брендом, категорией и характеристиками
type Product struct {
	ID             int64
	Name           string
	Description    *string
	Brand          *Brand
	Category       *Category
	Price          decimal.Decimal
	Specifications []Attribute
	EcoData        []Attribute
	CoverImage     *string // ключ объекта в хранилище обложек
}

func NewProduct(name string, price decimal.Decimal, brand *Brand, category *Category) *Product {
	return &Product{
		Name:     name,
		Price:    price,
		Brand:    brand,
		Category: category,
	}
}

// BrandName возвращает название бренда или пустую строку, если бренд не задан.
func (p *Product) BrandName() string {
	if p.Brand == nil {
		return ""
	}
	return p.Brand.Name
}

// CategoryName возвращает название категории или пустую строку.
func (p *Product) CategoryName() string {
	if p.Category == nil {
		return ""
	}
	return p.Category.Name
}

func (p *Product) DescriptionText() string {
	if p.Description == nil {
		return ""
	}
	return *p.Description
}
