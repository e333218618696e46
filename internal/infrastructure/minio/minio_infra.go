package minio

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/DRSN-tech/ecospark-backend/internal/cfg"
	"github.com/DRSN-tech/ecospark-backend/internal/domain"
	"github.com/DRSN-tech/ecospark-backend/internal/usecase"
	"github.com/DRSN-tech/ecospark-backend/pkg/e"
	"github.com/DRSN-tech/ecospark-backend/pkg/jitter"
	"github.com/DRSN-tech/ecospark-backend/pkg/logger"
)

const (
	cleanupAttempts  = 3
	cleanupBaseDelay = time.Second
	cleanupMaxDelay  = 4 * time.Second
	cleanupTimeout   = 30 * time.Second
)

// CoverInfrastructure выдаёт ссылки на обложки и загружает их в MinIO.
type CoverInfrastructure struct {
	coverRepo         usecase.CoverRepository
	cfg               *cfg.MinIOCfg
	logger            logger.Logger
	shutdownCtx       context.Context
	wg                sync.WaitGroup
	uploadImagesLimit int
}

func NewCoverInfrastructure(coverRepo usecase.CoverRepository, cfg *cfg.MinIOCfg, logger logger.Logger, shutdownCtx context.Context) *CoverInfrastructure {
	limit := cfg.UploadImagesLimit
	if limit <= 0 {
		limit = 1
	}

	return &CoverInfrastructure{
		coverRepo:         coverRepo,
		cfg:               cfg,
		logger:            logger,
		shutdownCtx:       shutdownCtx,
		uploadImagesLimit: limit,
	}
}

// CoverImageURL возвращает подписанную ссылку на обложку.
func (m *CoverInfrastructure) CoverImageURL(ctx context.Context, key string) (string, error) {
	const op = "CoverInfrastructure.CoverImageURL"

	u, err := m.coverRepo.PresignGet(ctx, key, m.cfg.PresignTTL)
	if err != nil {
		return "", e.Wrap(op, err)
	}

	return u, nil
}

// UploadCovers загружает обложки параллельно с ограничением одновременных операций.
// При ошибке отменяет остальные загрузки и в фоне удаляет уже загруженные объекты.
func (m *CoverInfrastructure) UploadCovers(ctx context.Context, covers []domain.CoverImage) ([]string, error) {
	const op = "CoverInfrastructure.UploadCovers"
	if len(covers) == 0 {
		return []string{}, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	keyCh := make(chan string, len(covers))
	errCh := make(chan error, len(covers))
	sem := make(chan struct{}, m.uploadImagesLimit)

	var uploadWg sync.WaitGroup
	for i := range covers {
		cover := &covers[i]
		uploadWg.Add(1)
		go func() {
			defer uploadWg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			key, err := m.coverRepo.Upload(ctx, cover)
			if err != nil {
				errCh <- fmt.Errorf("upload %s failed: %w", cover.ObjectKey, err)
				return
			}

			keyCh <- key
		}()
	}

	go func() {
		uploadWg.Wait()
		close(errCh)
		close(keyCh)
	}()

	keys := make([]string, 0, len(covers))
	ok := false
	defer func() {
		if !ok {
			// Дочитываем ключи, которые успели загрузиться после отмены
			go func() {
				uploadWg.Wait()
				late := make([]string, 0, len(keyCh))
				for key := range keyCh {
					late = append(late, key)
				}
				m.CleanupCovers(append(keys, late...))
			}()
		}
	}()

	keyRecv, errRecv := keyCh, errCh
	for completed := 0; completed < len(covers); {
		select {
		case key, open := <-keyRecv:
			if !open {
				keyRecv = nil
				continue
			}
			keys = append(keys, key)
			completed++
		case err, open := <-errRecv:
			if !open {
				errRecv = nil
				continue
			}
			cancel()
			return nil, e.Wrap(op, err)
		case <-ctx.Done():
			return nil, e.Wrap(op, ctx.Err())
		}
	}

	ok = true
	return keys, nil
}

// CleanupCovers запускает фоновую очистку указанных ключей MinIO.
func (m *CoverInfrastructure) CleanupCovers(keys []string) {
	if len(keys) == 0 {
		return
	}
	m.wg.Add(1)
	go m.cleanupUploadedKeys(keys)
}

// cleanupUploadedKeys удаляет объекты с экспоненциальной задержкой и jitter.
func (m *CoverInfrastructure) cleanupUploadedKeys(keys []string) {
	defer m.wg.Done()
	const op = "CoverInfrastructure.cleanupUploadedKeys"
	m.logger.Infof("%s: cleaning up %d uploaded key(s)", op, len(keys))

	ctx, cancel := context.WithTimeout(m.shutdownCtx, cleanupTimeout)
	defer cancel()

	for _, key := range keys {
		for attempt := 0; attempt < cleanupAttempts; attempt++ {
			err := m.coverRepo.Delete(ctx, key)
			if err == nil {
				break
			}

			if ctx.Err() != nil {
				m.logger.Warnf("cleanup interrupted by shutdown, key=%v", key)
				return
			}

			if attempt == cleanupAttempts-1 {
				m.logger.Errorf(err, "%s: giving up on key=%v", op, key)
				break
			}

			if err := jitter.Sleep(ctx, jitter.ExponentialBackoff(cleanupBaseDelay, cleanupMaxDelay, attempt, jitter.DefaultJitter)); err != nil {
				m.logger.Warnf("cleanup interrupted by shutdown during backoff, key=%v", key)
				return
			}
		}
	}
}

// WaitForCleanup ожидает завершения фоновой очистки с учётом таймаута завершения приложения.
func (m *CoverInfrastructure) WaitForCleanup(shutdownTimeoutCtx context.Context) error {
	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-shutdownTimeoutCtx.Done():
		return fmt.Errorf("minio cleanup timeout during shutdown: %w", shutdownTimeoutCtx.Err())
	}
}
