package converter

// ProductModel представляет строку products вместе с присоединёнными brands и categories.
// Поля бренда и категории nullable из-за LEFT JOIN.
type ProductModel struct {
	ID               int64   `db:"id"`
	Name             string  `db:"name"`
	Description      *string `db:"description"`
	Price            string  `db:"price"` // numeric в текстовом виде
	Specifications   []byte  `db:"specifications"`
	EcoData          []byte  `db:"eco_data"`
	CoverImage       *string `db:"cover_image"`
	BrandID          *int64  `db:"brand_id"`
	BrandName        *string `db:"brand_name"`
	BrandDescription *string `db:"brand_description"`
	CategoryID       *int64  `db:"category_id"`
	CategoryName     *string `db:"category_name"`
	CategorySlug     *string `db:"category_slug"`
}

// CategoryModel представляет запись таблицы categories в PostgreSQL.
type CategoryModel struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
	Slug string `db:"slug"`
}

// BrandModel представляет запись таблицы brands в PostgreSQL.
type BrandModel struct {
	ID          int64  `db:"id"`
	Name        string `db:"name"`
	Description string `db:"description"`
}
