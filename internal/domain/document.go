package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Имена характеристик с особыми правилами отображения
const (
	RecycledMaterials = "recycled_materials"
	CarbonFootprint   = "carbon_footprint"
)

// Document: текстовое представление товара, которое индексируется и передаётся модели.
type Document struct {
	ProductID int64
	Content   string
	Source    string // product[<id>]
}

// ScoredDocument: документ с оценкой близости к запросу.
type ScoredDocument struct {
	Document
	Score float64
}

// SourceTag возвращает метку источника документа для товара.
func SourceTag(productID int64) string {
	return fmt.Sprintf("product[%d]", productID)
}

// orderedFields хранит пары ключ-значение в порядке первого появления ключа.
// Повторная запись перезаписывает значение, не меняя позицию.
type orderedFields struct {
	keys   []string
	values map[string]string
}

func newOrderedFields(capacity int) *orderedFields {
	return &orderedFields{
		keys:   make([]string, 0, capacity),
		values: make(map[string]string, capacity),
	}
}

func (f *orderedFields) set(key, value string) {
	if _, ok := f.values[key]; !ok {
		f.keys = append(f.keys, key)
	}
	f.values[key] = value
}

func (f *orderedFields) render() string {
	var sb strings.Builder
	for i, k := range f.keys {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(k)
		sb.WriteString(": ")
		sb.WriteString(f.values[k])
	}
	return sb.String()
}

// FlattenProduct превращает товар в один документ: строки "ключ: значение" в порядке
// id, name, description, brand, category, price, затем характеристики и эко-данные.
// Результат детерминирован для одного и того же товара.
func FlattenProduct(p *Product) Document {
	fields := newOrderedFields(6 + len(p.Specifications) + len(p.EcoData))

	fields.set("id", strconv.FormatInt(p.ID, 10))
	fields.set("name", p.Name)
	fields.set("description", p.DescriptionText())
	fields.set("brand", p.BrandName())
	fields.set("category", p.CategoryName())
	fields.set("price", p.Price.String()+" "+Currency)

	for _, spec := range p.Specifications {
		fields.set(spec.Name, renderSpecification(spec.Value))
	}

	for _, eco := range p.EcoData {
		fields.set(eco.Name, renderEcoAttribute(eco.Name, eco.Value))
	}

	return Document{
		ProductID: p.ID,
		Content:   fields.render(),
		Source:    SourceTag(p.ID),
	}
}

// FlattenProducts сохраняет порядок входного среза.
func FlattenProducts(products []Product) []Document {
	docs := make([]Document, 0, len(products))
	for i := range products {
		docs = append(docs, FlattenProduct(&products[i]))
	}
	return docs
}

func renderSpecification(v AttributeValue) string {
	if b, ok := v.Bool(); ok {
		return YesNo(b)
	}
	return v.Raw()
}

func renderEcoAttribute(name string, v AttributeValue) string {
	if name == RecycledMaterials && v.Kind() == KindList {
		return v.Join(", ")
	}
	if b, ok := v.Bool(); ok {
		return YesNo(b)
	}
	if name == CarbonFootprint {
		return v.Raw() + " kg CO2"
	}
	return v.Raw()
}
