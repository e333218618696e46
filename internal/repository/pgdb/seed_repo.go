package pgdb

import (
	"context"
	"fmt"

	"github.com/DRSN-tech/ecospark-backend/internal/domain"
	"github.com/DRSN-tech/ecospark-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/ecospark-backend/internal/usecase"
	"github.com/DRSN-tech/ecospark-backend/pkg/e"
	"github.com/DRSN-tech/ecospark-backend/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jimlawless/whereami"
)

// SeedRepo перезаписывает каталог внутри транзакции из контекста.
type SeedRepo struct {
	conv converter.ProductConverter
}

func NewSeedRepo(conv converter.ProductConverter) *SeedRepo {
	return &SeedRepo{conv: conv}
}

// ReplaceCatalog очищает каталог и записывает категории, бренды и товары.
func (s *SeedRepo) ReplaceCatalog(ctx context.Context, catalog *usecase.SeedCatalog) (*usecase.SeedResult, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if _, err := tx.Exec(ctx, `TRUNCATE products, brands, categories RESTART IDENTITY CASCADE`); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	categoryIDs, err := insertCategories(ctx, tx, catalog.Categories)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	brandIDs, err := insertBrands(ctx, tx, catalog.Brands)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := s.insertProducts(ctx, tx, catalog.Products, brandIDs, categoryIDs); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return usecase.NewSeedResult(len(categoryIDs), len(brandIDs), len(catalog.Products)), nil
}

// insertCategories возвращает id категорий по slug.
func insertCategories(ctx context.Context, tx pgx.Tx, categories []domain.Category) (map[string]int64, error) {
	query := `INSERT INTO categories (name, slug) VALUES ($1, $2) RETURNING id`

	ids := make(map[string]int64, len(categories))
	for _, c := range categories {
		var model converter.CategoryModel
		if err := tx.QueryRow(ctx, query, c.Name, c.Slug).Scan(&model.ID); err != nil {
			return nil, fmt.Errorf("category %s: %w", c.Slug, err)
		}
		ids[c.Slug] = model.ID
	}

	return ids, nil
}

// insertBrands возвращает id брендов по имени.
func insertBrands(ctx context.Context, tx pgx.Tx, brands []domain.Brand) (map[string]int64, error) {
	query := `INSERT INTO brands (name, description) VALUES ($1, $2) RETURNING id`

	ids := make(map[string]int64, len(brands))
	for _, b := range brands {
		var model converter.BrandModel
		if err := tx.QueryRow(ctx, query, b.Name, b.Description).Scan(&model.ID); err != nil {
			return nil, fmt.Errorf("brand %s: %w", b.Name, err)
		}
		ids[b.Name] = model.ID
	}

	return ids, nil
}

func (s *SeedRepo) insertProducts(ctx context.Context, tx pgx.Tx, products []domain.Product, brandIDs, categoryIDs map[string]int64) error {
	query := `
		INSERT INTO products (name, description, brand_id, category_id, price, specifications, eco_data, cover_image)
		VALUES ($1, $2, $3, $4, $5::numeric, $6::jsonb, $7::jsonb, $8)
	`

	batch := &pgx.Batch{}
	for i := range products {
		p := &products[i]

		specs, err := s.conv.SpecificationsJSON(p)
		if err != nil {
			return fmt.Errorf("product %s: %w", p.Name, err)
		}
		eco, err := s.conv.EcoDataJSON(p)
		if err != nil {
			return fmt.Errorf("product %s: %w", p.Name, err)
		}

		batch.Queue(query,
			p.Name, p.Description, lookupID(brandIDs, p.BrandName()), lookupID(categoryIDs, categorySlug(p)),
			p.Price.StringFixed(2), specs, eco, p.CoverImage,
		)
	}

	br := tx.SendBatch(ctx, batch)
	for i := range products {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("product %s: %w", products[i].Name, err)
		}
	}

	return br.Close()
}

func categorySlug(p *domain.Product) string {
	if p.Category == nil {
		return ""
	}
	return p.Category.Slug
}

// lookupID возвращает nil для отсутствующей связи, чтобы записать NULL.
func lookupID(ids map[string]int64, key string) *int64 {
	id, ok := ids[key]
	if !ok {
		return nil
	}
	return &id
}
