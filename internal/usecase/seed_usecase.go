package usecase

import (
	"context"

	"github.com/DRSN-tech/ecospark-backend/internal/domain"
	"github.com/DRSN-tech/ecospark-backend/pkg/e"
	"github.com/DRSN-tech/ecospark-backend/pkg/logger"
	"github.com/DRSN-tech/ecospark-backend/pkg/tr"
	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
)

// SeedUseCase заменяет каталог демонстрационным набором товаров.
type SeedUseCase struct {
	seedRepo SeedRepository
	dbPool   transaction.Transactional
	uploader CoverUploader
	catalog  func() *SeedCatalog
	logger   logger.Logger
}

func NewSeedUC(seedRepo SeedRepository, dbPool transaction.Transactional, uploader CoverUploader, logger logger.Logger) *SeedUseCase {
	return &SeedUseCase{
		seedRepo: seedRepo,
		dbPool:   dbPool,
		uploader: uploader,
		catalog:  FixtureCatalog,
		logger:   logger,
	}
}

// Seed удаляет текущий каталог и записывает новый в одной транзакции.
func (s *SeedUseCase) Seed(ctx context.Context) (res *SeedResult, err error) {
	const op = "SeedUseCase.Seed"

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, s.dbPool)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Errorf(rbErr, "failed to rollback seed transaction")
			}
		}
	}()
	ctx = tr.WithTx(ctx, tx.Transaction())

	res, err = s.seedRepo.ReplaceCatalog(ctx, s.catalog())
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, e.Wrap(op, err)
	}

	s.logger.Infof("catalog seeded: %d categories, %d brands, %d products", res.Categories, res.Brands, res.Products)
	return res, nil
}

// UploadCovers загружает файлы обложек. Возвращает число загруженных объектов.
func (s *SeedUseCase) UploadCovers(ctx context.Context, covers []domain.CoverImage) (int, error) {
	const op = "SeedUseCase.UploadCovers"
	if len(covers) == 0 {
		return 0, nil
	}
	if s.uploader == nil {
		return 0, e.Wrap(op, e.ErrCoverStorageDisabled)
	}

	keys, err := s.uploader.UploadCovers(ctx, covers)
	if err != nil {
		return 0, e.Wrap(op, err)
	}

	s.logger.Infof("uploaded %d cover image(s)", len(keys))
	return len(keys), nil
}
