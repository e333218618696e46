package converter

import (
	"testing"

	"github.com/DRSN-tech/ecospark-backend/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestProductConverter_ToEntity(t *testing.T) {
	conv := NewProductConverter()

	p, err := conv.ToEntity(&ProductModel{
		ID:               7,
		Name:             "EcoVision 55",
		Description:      ptr("Energy-saving TV"),
		Price:            "499.90",
		Specifications:   []byte(`[{"name":"screen_size","value":"55 inches"},{"name":"smart_tv","value":true}]`),
		EcoData:          []byte(`[{"name":"recycled_materials","value":["aluminium","plastic"]},{"name":"carbon_footprint","value":120}]`),
		CoverImage:       ptr("covers/tvs/1.jpg"),
		BrandID:          ptr(int64(2)),
		BrandName:        ptr("EverLife"),
		BrandDescription: ptr("Sustainable electronics"),
		CategoryID:       ptr(int64(1)),
		CategoryName:     ptr("TVs"),
		CategorySlug:     ptr("tvs"),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(7), p.ID)
	assert.True(t, decimal.RequireFromString("499.9").Equal(p.Price))
	assert.Equal(t, "EverLife", p.BrandName())
	assert.Equal(t, "tvs", p.Category.Slug)
	require.Len(t, p.Specifications, 2)
	assert.Equal(t, "screen_size", p.Specifications[0].Name)
	assert.Equal(t, "smart_tv", p.Specifications[1].Name)
	require.Len(t, p.EcoData, 2)
	assert.Equal(t, "aluminium, plastic", p.EcoData[0].Value.Join(", "))
	assert.Equal(t, "120", p.EcoData[1].Value.Raw())
}

func TestProductConverter_ToEntity_NoRelations(t *testing.T) {
	p, err := NewProductConverter().ToEntity(&ProductModel{ID: 1, Name: "Bulb", Price: "3.50", Specifications: []byte(`[]`)})
	require.NoError(t, err)

	assert.Nil(t, p.Brand)
	assert.Nil(t, p.Category)
	assert.Empty(t, p.Specifications)
	assert.Empty(t, p.EcoData)
}

func TestProductConverter_ToEntity_InvalidPrice(t *testing.T) {
	_, err := NewProductConverter().ToEntity(&ProductModel{ID: 1, Price: "free"})
	assert.Error(t, err)
}

func TestProductConverter_AttributesJSON(t *testing.T) {
	conv := NewProductConverter()
	p := &domain.Product{
		Specifications: []domain.Attribute{
			domain.NewAttribute("energy_class", domain.StringValue("A")),
			domain.NewAttribute("wifi", domain.BoolValue(true)),
		},
	}

	specs, err := conv.SpecificationsJSON(p)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"energy_class","value":"A"},{"name":"wifi","value":true}]`, specs)

	eco, err := conv.EcoDataJSON(p)
	require.NoError(t, err)
	assert.Equal(t, "[]", eco)
}
