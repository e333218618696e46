package pgdb

import (
	"context"

	"github.com/DRSN-tech/ecospark-backend/internal/domain"
	"github.com/DRSN-tech/ecospark-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/ecospark-backend/pkg/e"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

const selectProducts = `
	SELECT
		pr.id, pr.name, pr.description, pr.price::text,
		pr.specifications, pr.eco_data, pr.cover_image,
		br.id, br.name, br.description,
		cat.id, cat.name, cat.slug
	FROM products pr
	LEFT JOIN brands br ON pr.brand_id = br.id
	LEFT JOIN categories cat ON pr.category_id = cat.id
`

// CatalogRepo читает каталог товаров из PostgreSQL.
type CatalogRepo struct {
	pool *pgxpool.Pool
	conv converter.ProductConverter
}

func NewCatalogRepo(pool *pgxpool.Pool, conv converter.ProductConverter) *CatalogRepo {
	return &CatalogRepo{
		pool: pool,
		conv: conv,
	}
}

// FindAll возвращает весь каталог в порядке id.
func (c *CatalogRepo) FindAll(ctx context.Context) ([]domain.Product, error) {
	rows, err := c.pool.Query(ctx, selectProducts+` ORDER BY pr.id`)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return c.collect(rows)
}

// FindByIDs возвращает товары по идентификаторам одним запросом. Неизвестные id пропускаются.
func (c *CatalogRepo) FindByIDs(ctx context.Context, ids []int64) ([]domain.Product, error) {
	if len(ids) == 0 {
		return []domain.Product{}, nil
	}

	rows, err := c.pool.Query(ctx, selectProducts+` WHERE pr.id = ANY($1)`, ids)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return c.collect(rows)
}

func (c *CatalogRepo) collect(rows pgx.Rows) ([]domain.Product, error) {
	defer rows.Close()

	result := make([]domain.Product, 0)
	for rows.Next() {
		var m converter.ProductModel
		if err := rows.Scan(
			&m.ID, &m.Name, &m.Description, &m.Price,
			&m.Specifications, &m.EcoData, &m.CoverImage,
			&m.BrandID, &m.BrandName, &m.BrandDescription,
			&m.CategoryID, &m.CategoryName, &m.CategorySlug,
		); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		product, err := c.conv.ToEntity(&m)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		result = append(result, *product)
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}
