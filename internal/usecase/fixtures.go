package usecase

import (
	"fmt"
	"math/rand"

	"github.com/DRSN-tech/ecospark-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// fixtureSeed фиксирует генератор, чтобы каталог был одинаковым при каждом наполнении.
const fixtureSeed = 123456

const coversPerCategory = 4

var fixtureCategories = []domain.Category{
	{Name: "TVs", Slug: "tvs"},
	{Name: "Washing Machines", Slug: "washing-machines"},
	{Name: "Lighting", Slug: "lighting"},
	{Name: "Audio", Slug: "audio"},
}

var fixtureBrands = []domain.Brand{
	{Name: "TerraVolt", Description: "A leading manufacturer of high-performance electronics known for cutting-edge technology and powerful features. (Non-Eco-friendly)"},
	{Name: "EverLife", Description: "A company dedicated to creating sustainable and long-lasting electronics with a focus on recycled materials and energy efficiency. (Eco-friendly)"},
	{Name: "EcoSound", Description: "A brand committed to producing eco-friendly audio equipment with a focus on sound quality and durability. (Eco-friendly)"},
	{Name: "SonicStar", Description: "A brand known for its sleek designs and impressive audio quality, offering a wide range of headphones and speakers. (Non-Eco-friendly)"},
	{Name: "ClearStream Tech", Description: "A company committed to developing water-saving and eco-conscious appliances for the modern home. (Eco-friendly)"},
	{Name: "Greenwave", Description: "A brand specializing in solar-powered electronics and energy-efficient devices for a greener lifestyle. (Eco-friendly)"},
	{Name: "DigiForce", Description: "A leader in high-resolution displays and powerful graphics cards, known for their immersive gaming experience. (Non-Eco-friendly)"},
	{Name: "RenewLife", Description: "A company focused on creating durable and repairable electronics, extending product lifespan and reducing waste. (Eco-friendly)"},
	{Name: "Amplify Labs", Description: "A brand known for its innovative sound technology and focus on delivering the loudest and most powerful audio systems. (Non-Eco-friendly)"},
	{Name: "Lumiere Solutions", Description: "A company dedicated to developing energy-efficient lighting solutions and smart home technology. (Eco-friendly)"},
}

// FixtureCatalog возвращает детерминированный демонстрационный каталог:
// телевизоры, стиральные машины, освещение и аудио.
func FixtureCatalog() *SeedCatalog {
	g := &fixtureGen{r: rand.New(rand.NewSource(fixtureSeed))}

	var products []domain.Product
	products = append(products, g.ecoTVs()...)
	products = append(products, g.regularTVs()...)
	products = append(products, g.washingMachines()...)
	products = append(products, g.lighting()...)
	products = append(products, g.audio()...)

	categories := make([]domain.Category, len(fixtureCategories))
	copy(categories, fixtureCategories)
	brands := make([]domain.Brand, len(fixtureBrands))
	copy(brands, fixtureBrands)

	return &SeedCatalog{
		Categories: categories,
		Brands:     brands,
		Products:   products,
	}
}

type fixtureGen struct {
	r *rand.Rand
}

func (g *fixtureGen) intOf(values ...int) domain.AttributeValue {
	return domain.NumberValue(float64(values[g.r.Intn(len(values))]))
}

func (g *fixtureGen) strOf(values ...string) domain.AttributeValue {
	return domain.StringValue(values[g.r.Intn(len(values))])
}

func (g *fixtureGen) boolOf(values ...bool) domain.AttributeValue {
	return domain.BoolValue(values[g.r.Intn(len(values))])
}

func (g *fixtureGen) text(values ...string) *string {
	s := values[g.r.Intn(len(values))]
	return &s
}

// number возвращает значение из [min, max] с шагом step.
func (g *fixtureGen) number(min, max, step float64) domain.AttributeValue {
	steps := int((max-min)/step + 0.5)
	v := decimal.NewFromFloat(min).Add(decimal.NewFromFloat(step).Mul(decimal.NewFromInt(int64(g.r.Intn(steps + 1)))))
	return domain.NumberValue(v.InexactFloat64())
}

func (g *fixtureGen) price(min int) decimal.Decimal {
	const max = 1000
	cents := min*100 + g.r.Intn((max-min)*100+1)
	return decimal.New(int64(cents), -2)
}

func (g *fixtureGen) recycledMaterials() domain.AttributeValue {
	materials := []string{"plastic", "metal", "glass"}
	count := g.r.Intn(len(materials) + 1)

	picked := make([]string, 0, count)
	for _, i := range g.r.Perm(len(materials))[:count] {
		picked = append(picked, materials[i])
	}
	return domain.StringList(picked...)
}

func (g *fixtureGen) cover(slug string) *string {
	key := fmt.Sprintf("covers/%s/%d.jpg", slug, g.r.Intn(coversPerCategory)+1)
	return &key
}

func (g *fixtureGen) product(brand, model, slug string, description *string, minPrice int, specs, eco []domain.Attribute) domain.Product {
	return domain.Product{
		Name:           brand + " " + model,
		Description:    description,
		Brand:          &domain.Brand{Name: brand},
		Category:       &domain.Category{Slug: slug},
		Price:          g.price(minPrice),
		Specifications: specs,
		EcoData:        eco,
		CoverImage:     g.cover(slug),
	}
}

func (g *fixtureGen) tvSpecifications(energyEfficient bool) []domain.Attribute {
	ratings := []string{"B", "C", "D"}
	if energyEfficient {
		ratings = []string{"A+++", "A++", "A+", "A", "B", "C", "D"}
	}

	return []domain.Attribute{
		domain.NewAttribute("screen_size", domain.NumberValue(float64(24+g.r.Intn(85-24+1)))),
		domain.NewAttribute("resolution", g.strOf("HD", "FHD", "QHD", "UHD")),
		domain.NewAttribute("refresh_rate", g.intOf(60, 120, 144, 240)),
		domain.NewAttribute("smart_tv", g.boolOf(true, false)),
		domain.NewAttribute("energy_rating", g.strOf(ratings...)),
		domain.NewAttribute("energy_star_certified", domain.BoolValue(energyEfficient)),
	}
}

// noEcoData: эко-данные товара без экологических преимуществ.
func noEcoData(extra string, footprint domain.AttributeValue) []domain.Attribute {
	return []domain.Attribute{
		domain.NewAttribute(domain.RecycledMaterials, domain.StringList()),
		domain.NewAttribute("recycled_packaging", domain.BoolValue(false)),
		domain.NewAttribute("energy_efficient", domain.BoolValue(false)),
		domain.NewAttribute(extra, domain.BoolValue(false)),
		domain.NewAttribute(domain.CarbonFootprint, footprint),
	}
}

func (g *fixtureGen) ecoTVs() []domain.Product {
	descriptions := []string{
		"Enjoy the latest in high-definition entertainment with this cutting-edge TV.",
		"Experience stunning visuals and crystal-clear sound with this top-of-the-line TV.",
		"Upgrade your home entertainment system with this sleek and stylish TV.",
		"Immerse yourself in your favorite movies and shows with this state-of-the-art TV.",
	}

	var out []domain.Product
	for _, brand := range []string{"EverLife", "RenewLife"} {
		for _, model := range []string{"EcoVision", "GreenScreen", "EcoStream", "EcoView"} {
			eco := []domain.Attribute{
				domain.NewAttribute(domain.RecycledMaterials, g.recycledMaterials()),
				domain.NewAttribute("recycled_packaging", g.boolOf(true, false, true, false, true)),
				domain.NewAttribute("energy_efficient", g.boolOf(true, false, true, false, true)),
				domain.NewAttribute("repairable", g.boolOf(true, false, true, false, true)),
				domain.NewAttribute(domain.CarbonFootprint, g.number(0.1, 5, 0.1)),
			}
			out = append(out, g.product(brand, model, "tvs", g.text(descriptions...), 100, g.tvSpecifications(true), eco))
		}
	}
	return out
}

func (g *fixtureGen) regularTVs() []domain.Product {
	descriptions := []string{
		"A powerful display built for raw brightness and maximum performance.",
		"Big picture, bold colours and a high-output panel for demanding viewers.",
		"Flagship performance screen with aggressive brightness and gaming modes.",
		"A no-compromise television focused on picture power over efficiency.",
	}

	var out []domain.Product
	for _, brand := range []string{"TerraVolt", "DigiForce"} {
		for _, model := range []string{"UltraVision", "SonicView", "StarStream", "TerraView"} {
			eco := noEcoData("repairable", g.number(5, 10, 0.1))
			out = append(out, g.product(brand, model, "tvs", g.text(descriptions...), 100, g.tvSpecifications(false), eco))
		}
	}
	return out
}

func (g *fixtureGen) washingMachines() []domain.Product {
	descriptions := []string{
		"Keep your clothes fresh and clean with this high-performance washing machine.",
		"Experience the latest in laundry technology with this top-of-the-line washer.",
		"Upgrade your laundry room with this sleek and stylish washing machine.",
		"Get your clothes cleaner than ever before with this state-of-the-art washer.",
	}

	var out []domain.Product
	for _, brand := range []string{"EverLife", "RenewLife", "ClearStream Tech"} {
		for _, model := range []string{"EcoWash", "GreenClean", "EcoCycle", "EcoDry"} {
			eco := []domain.Attribute{
				domain.NewAttribute(domain.RecycledMaterials, g.recycledMaterials()),
				domain.NewAttribute("recycled_packaging", g.boolOf(true, false, true, true, false)),
				domain.NewAttribute("energy_efficient", g.boolOf(true, false, true, true, false)),
				domain.NewAttribute("repairable", g.boolOf(true, false, true, true, false)),
				domain.NewAttribute("water_saving", g.number(0.1, 50, 0.1)),
				domain.NewAttribute(domain.CarbonFootprint, g.number(0.1, 5, 0.1)),
			}
			specs := []domain.Attribute{
				domain.NewAttribute("load_capacity", g.intOf(5, 7, 9, 12)),
				domain.NewAttribute("energy_rating", g.strOf("A+++", "A++", "A+", "A")),
				domain.NewAttribute("energy_star_certified", g.boolOf(true, false, true, false, true)),
				domain.NewAttribute("wash_cycles", g.intOf(10, 15, 20, 25)),
				domain.NewAttribute("spin_speed", g.intOf(800, 1200, 1600, 2000)),
			}
			out = append(out, g.product(brand, model, "washing-machines", g.text(descriptions...), 300, specs, eco))
		}
	}
	return out
}

func (g *fixtureGen) lighting() []domain.Product {
	descriptions := []string{
		"Illuminate your home with this energy-efficient and long-lasting light bulb.",
		"Create the perfect ambiance with this stylish and eco-friendly lighting solution.",
		"Upgrade your lighting system with this modern and sustainable light fixture.",
		"Brighten up any room with this high-quality and environmentally friendly light source.",
	}
	lines := map[string][]string{
		"Greenwave":         {"EcoLight", "EcoBeam", "EcoBulb"},
		"Lumiere Solutions": {"Luminate", "SuperBright"},
	}

	var out []domain.Product
	for _, brand := range []string{"Greenwave", "Lumiere Solutions"} {
		for _, model := range lines[brand] {
			var eco []domain.Attribute
			if brand == "Lumiere Solutions" {
				eco = []domain.Attribute{
					domain.NewAttribute(domain.RecycledMaterials, domain.StringList()),
					domain.NewAttribute("recycled_packaging", domain.BoolValue(false)),
					domain.NewAttribute("energy_efficient", domain.BoolValue(false)),
					domain.NewAttribute("lifespan", g.number(1000, 10000, 100)),
					domain.NewAttribute(domain.CarbonFootprint, g.number(5, 8, 0.1)),
				}
			} else {
				eco = []domain.Attribute{
					domain.NewAttribute(domain.RecycledMaterials, g.recycledMaterials()),
					domain.NewAttribute("recycled_packaging", g.boolOf(true, false)),
					domain.NewAttribute("energy_efficient", g.boolOf(true, false)),
					domain.NewAttribute("lifespan", g.number(1000, 10000, 100)),
					domain.NewAttribute(domain.CarbonFootprint, g.number(0.1, 5, 0.1)),
				}
			}
			specs := []domain.Attribute{
				domain.NewAttribute("light_output", g.intOf(800, 1000, 1200, 1500)),
				domain.NewAttribute("color_temperature", g.strOf("2700K", "3000K", "4000K", "5000K")),
				domain.NewAttribute("lumens_per_watt", g.intOf(80, 100, 120, 150)),
				domain.NewAttribute("dimmer_compatible", g.boolOf(true, false)),
			}
			out = append(out, g.product(brand, model, "lighting", g.text(descriptions...), 10, specs, eco))
		}
	}
	return out
}

func (g *fixtureGen) audio() []domain.Product {
	descriptions := []string{
		"Immerse yourself in your favorite music with this powerful and dynamic speaker system.",
		"Experience crystal-clear sound and deep bass with this premium audio device.",
		"Upgrade your home entertainment system with this high-quality and eco-friendly speaker.",
		"Get the party started with this loud and durable sound system.",
	}
	// EcoSound не выпускает модели AmplifyPro и SonicBlast
	skip := map[string]bool{"AmplifyPro": true, "SonicBlast": true}

	var out []domain.Product
	for _, brand := range []string{"SonicStar", "Amplify Labs", "EcoSound"} {
		for _, model := range []string{"SonicBlast", "StarSound", "SonicWave", "AmplifyPro"} {
			if brand == "EcoSound" && skip[model] {
				continue
			}

			var eco []domain.Attribute
			if brand == "EcoSound" {
				eco = []domain.Attribute{
					domain.NewAttribute(domain.RecycledMaterials, g.recycledMaterials()),
					domain.NewAttribute("recycled_packaging", g.boolOf(true, false, true, false, true)),
					domain.NewAttribute("energy_efficient", g.boolOf(true, false, true, false, true)),
					domain.NewAttribute("repairable", g.boolOf(true, false, true, false, true)),
					domain.NewAttribute(domain.CarbonFootprint, g.number(0.1, 5, 0.1)),
				}
			}
			specs := []domain.Attribute{
				domain.NewAttribute("power_output", g.intOf(20, 40, 60, 80)),
				domain.NewAttribute("frequency_response", g.strOf("20Hz-20kHz", "30Hz-20kHz")),
				domain.NewAttribute("bluetooth_compatible", g.boolOf(true, false)),
				domain.NewAttribute("voice_control", g.boolOf(true, false)),
				domain.NewAttribute("water_resistant", g.boolOf(true, false)),
				domain.NewAttribute("sound_quality", g.strOf("high", "medium", "low")),
			}
			out = append(out, g.product(brand, model, "audio", g.text(descriptions...), 50, specs, eco))
		}
	}
	return out
}
