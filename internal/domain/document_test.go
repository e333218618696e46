package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func sampleProduct() *Product {
	return &Product{
		ID:          7,
		Name:        "EverLife EcoVision",
		Description: ptr("Sleek TV."),
		Brand:       &Brand{ID: 2, Name: "EverLife"},
		Category:    &Category{ID: 1, Name: "TVs", Slug: "tvs"},
		Price:       decimal.RequireFromString("499.99"),
		Specifications: []Attribute{
			NewAttribute("screen_size", NumberValue(55)),
			NewAttribute("smart_tv", BoolValue(true)),
			NewAttribute("resolution", StringValue("UHD")),
		},
		EcoData: []Attribute{
			NewAttribute(RecycledMaterials, StringList("plastic", "metal")),
			NewAttribute("repairable", BoolValue(false)),
			NewAttribute(CarbonFootprint, NumberValue(4.2)),
			NewAttribute("water_saving", NumberValue(0.5)),
		},
	}
}

func TestFlattenProduct_Layout(t *testing.T) {
	doc := FlattenProduct(sampleProduct())

	want := "id: 7\n" +
		"name: EverLife EcoVision\n" +
		"description: Sleek TV.\n" +
		"brand: EverLife\n" +
		"category: TVs\n" +
		"price: 499.99 USD\n" +
		"screen_size: 55\n" +
		"smart_tv: Yes\n" +
		"resolution: UHD\n" +
		"recycled_materials: plastic, metal\n" +
		"repairable: No\n" +
		"carbon_footprint: 4.2 kg CO2\n" +
		"water_saving: 0.5"

	assert.Equal(t, want, doc.Content)
	assert.Equal(t, "product[7]", doc.Source)
	assert.Equal(t, int64(7), doc.ProductID)
}

func TestFlattenProduct_Deterministic(t *testing.T) {
	p := sampleProduct()
	assert.Equal(t, FlattenProduct(p), FlattenProduct(p))
}

func TestFlattenProduct_NoEcoData(t *testing.T) {
	p := sampleProduct()
	p.EcoData = nil
	p.Specifications = []Attribute{NewAttribute("energy_star_certified", BoolValue(false))}

	doc := FlattenProduct(p)
	assert.Contains(t, doc.Content, "energy_star_certified: No")
	assert.NotContains(t, doc.Content, "kg CO2")
}

func TestFlattenProduct_EmptyRecycledMaterials(t *testing.T) {
	p := sampleProduct()
	p.EcoData = []Attribute{NewAttribute(RecycledMaterials, ListValue())}

	doc := FlattenProduct(p)
	assert.Contains(t, doc.Content, "\nrecycled_materials: ")
}

func TestFlattenProduct_MissingRelations(t *testing.T) {
	p := &Product{ID: 3, Name: "Bare", Price: decimal.NewFromInt(10)}

	doc := FlattenProduct(p)
	assert.Equal(t, "id: 3\nname: Bare\ndescription: \nbrand: \ncategory: \nprice: 10 USD", doc.Content)
}

func TestFlattenProduct_DuplicateKeyKeepsFirstPosition(t *testing.T) {
	p := &Product{
		ID:    1,
		Name:  "Lamp",
		Price: decimal.NewFromInt(12),
		Specifications: []Attribute{
			NewAttribute("name", StringValue("Overridden")),
			NewAttribute("lumens", NumberValue(800)),
		},
	}

	doc := FlattenProduct(p)
	require.Equal(t, "id: 1\nname: Overridden\ndescription: \nbrand: \ncategory: \nprice: 12 USD\nlumens: 800", doc.Content)
}

func TestFlattenProducts_PreservesOrder(t *testing.T) {
	products := []Product{{ID: 3, Name: "c"}, {ID: 1, Name: "a"}}
	docs := FlattenProducts(products)

	require.Len(t, docs, 2)
	assert.Equal(t, "product[3]", docs[0].Source)
	assert.Equal(t, "product[1]", docs[1].Source)
}
