package domain

// Category описывает категорию каталога (TVs, Lighting, ...)
type Category struct {
	ID   int64
	Name string
	Slug string
}

func NewCategory(name, slug string) *Category {
	return &Category{
		Name: name,
		Slug: slug,
	}
}

// Brand описывает производителя товара
type Brand struct {
	ID          int64
	Name        string
	Description string
}

func NewBrand(name, description string) *Brand {
	return &Brand{
		Name:        name,
		Description: description,
	}
}
