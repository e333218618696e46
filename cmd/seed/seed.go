package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"time"

	config "github.com/DRSN-tech/ecospark-backend/internal/cfg"
	"github.com/DRSN-tech/ecospark-backend/internal/domain"
	"github.com/DRSN-tech/ecospark-backend/internal/infrastructure"
	minioInfra "github.com/DRSN-tech/ecospark-backend/internal/infrastructure/minio"
	s3Repo "github.com/DRSN-tech/ecospark-backend/internal/repository/minio"
	"github.com/DRSN-tech/ecospark-backend/internal/repository/pgdb"
	pgdbConv "github.com/DRSN-tech/ecospark-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/ecospark-backend/internal/usecase"
	"github.com/DRSN-tech/ecospark-backend/pkg/clients"
	"github.com/DRSN-tech/ecospark-backend/pkg/closer"
	"github.com/DRSN-tech/ecospark-backend/pkg/logger"
	"github.com/DRSN-tech/ecospark-backend/pkg/postgres"
	"github.com/joho/godotenv"
)

const seedTimeout = 2 * time.Minute

// Утилита заменяет каталог демонстрационными товарами и, по флагу -covers, загружает обложки.
func main() {
	coversDir := flag.String("covers", "", "directory with cover images, uploaded as covers/<relative path>")
	flag.Parse()

	_ = godotenv.Load()

	logCfg := config.LoadLogCfg()
	log, err := logger.NewZapLogger(logCfg.Level, logCfg.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(log, *coversDir); err != nil {
		log.Errorf(err, "seeding failed")
		os.Exit(1)
	}
}

func run(log logger.Logger, coversDir string) (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), seedTimeout)
	defer cancel()

	cl := closer.NewCloser(0)
	defer func() {
		if cerr := cl.Close(context.Background()); cerr != nil {
			log.Errorf(cerr, "failed to release resources")
		}
	}()

	dbCfg, err := config.LoadDB(log)
	if err != nil {
		return err
	}

	db, err := postgres.Connect(ctx, dbCfg)
	if err != nil {
		return err
	}
	cl.Add("postgres", db.Close)

	if err := db.RunMigrations(log, postgres.MigrationsURL); err != nil {
		return err
	}

	var uploader usecase.CoverUploader
	if coversDir != "" {
		minioCfg, err := config.LoadMinIO(log)
		if err != nil {
			return err
		}
		if minioCfg.Enabled {
			minioClient, err := clients.NewMinIOClient(minioCfg)
			if err != nil {
				return err
			}
			if err := clients.EnsureBucket(ctx, minioClient, minioCfg.BucketName); err != nil {
				return err
			}

			coversInfra := minioInfra.NewCoverInfrastructure(s3Repo.NewCoverRepo(minioClient, minioCfg), minioCfg, log, ctx)
			cl.Add("cover cleanup", coversInfra.WaitForCleanup)
			uploader = coversInfra
		}
	}

	seedUC := usecase.NewSeedUC(pgdb.NewSeedRepo(pgdbConv.NewProductConverter()), db.Pool, uploader, log)

	res, err := seedUC.Seed(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("seeded %d categories, %d brands, %d products\n", res.Categories, res.Brands, res.Products)

	if coversDir == "" {
		return nil
	}

	covers, err := readCovers(log, coversDir)
	if err != nil {
		return err
	}

	n, err := seedUC.UploadCovers(ctx, covers)
	if err != nil {
		return err
	}
	fmt.Printf("uploaded %d cover images\n", n)

	return nil
}

// readCovers собирает изображения из dir. Ключ объекта: covers/<путь относительно dir>.
func readCovers(log logger.Logger, dir string) ([]domain.CoverImage, error) {
	covers := make([]domain.CoverImage, 0)

	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		contentType, err := infrastructure.ContentTypeFromExt(p)
		if err != nil {
			log.Warnf("skipping %s: %v", p, err)
			return nil
		}

		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}

		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}

		covers = append(covers, *domain.NewCoverImage(path.Join("covers", filepath.ToSlash(rel)), data, contentType))
		return nil
	})
	if err != nil {
		return nil, err
	}

	return covers, nil
}
