package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/DRSN-tech/ecospark-backend/internal/cfg"
	v1Http "github.com/DRSN-tech/ecospark-backend/internal/delivery/v1/http"
	"github.com/DRSN-tech/ecospark-backend/internal/infrastructure/kafka"
	"github.com/DRSN-tech/ecospark-backend/internal/infrastructure/llm"
	"github.com/DRSN-tech/ecospark-backend/internal/infrastructure/metrics"
	minioInfra "github.com/DRSN-tech/ecospark-backend/internal/infrastructure/minio"
	"github.com/DRSN-tech/ecospark-backend/internal/infrastructure/vectorindex"
	s3Repo "github.com/DRSN-tech/ecospark-backend/internal/repository/minio"
	"github.com/DRSN-tech/ecospark-backend/internal/repository/pgdb"
	pgdbConv "github.com/DRSN-tech/ecospark-backend/internal/repository/pgdb/converter"
	qdrantRepo "github.com/DRSN-tech/ecospark-backend/internal/repository/qdrant"
	"github.com/DRSN-tech/ecospark-backend/internal/repository/redis"
	redisConv "github.com/DRSN-tech/ecospark-backend/internal/repository/redis/converter"
	"github.com/DRSN-tech/ecospark-backend/internal/usecase"
	"github.com/DRSN-tech/ecospark-backend/pkg/clients"
	"github.com/DRSN-tech/ecospark-backend/pkg/closer"
	"github.com/DRSN-tech/ecospark-backend/pkg/e"
	"github.com/DRSN-tech/ecospark-backend/pkg/logger"
	"github.com/DRSN-tech/ecospark-backend/pkg/postgres"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	initTimeout     = 10 * time.Second
	shutdownTimeout = 10 * time.Second
	topicTimeout    = 5 * time.Second
)

// App собирает зависимости чат-бота и управляет их жизненным циклом.
type App struct {
	cfg         *config.Config
	logger      logger.Logger
	closer      *closer.Closer
	httpSrv     *v1Http.Server
	coversInfra *minioInfra.CoverInfrastructure
	shutdownCtx context.Context
	stop        context.CancelFunc
}

func NewApp(cfg *config.Config, logger logger.Logger) (_ *App, err error) {
	shutdownCtx, stop := context.WithCancel(context.Background())
	app := &App{
		cfg:         cfg,
		logger:      logger,
		closer:      closer.NewCloser(0),
		shutdownCtx: shutdownCtx,
		stop:        stop,
	}
	defer func() {
		if err != nil {
			app.release()
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), initTimeout)
	defer cancel()

	db, err := initPGDB(ctx, logger, cfg)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	app.closer.Add("postgres", db.Close)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	llmClient := llm.NewClient(cfg.Llm, m, logger)

	var embedder usecase.Embedder = llmClient
	if cfg.Redis.Enabled {
		redisClient := clients.NewRedisClient(cfg.Redis)
		app.closer.Add("redis", redisClient.Close)
		if err := redisClient.Ping(ctx); err != nil {
			logger.Errorf(err, "failed to connect to redis")
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		cacheRepo := redis.NewCacheRepo(redisClient, redisConv.NewEmbeddingConverter(), cfg.Redis, logger)
		embedder = llm.NewCachedEmbedder(llmClient, cacheRepo, llmClient.EmbeddingModel(), logger)
		logger.Infof("embedding cache enabled, ttl=%s", cfg.Redis.EmbeddingCacheTTL)
	}

	indexBuilder, err := app.initIndexBuilder(ctx, embedder)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var imageLinker usecase.ImageLinker
	if cfg.Minio.Enabled {
		coversInfra, err := app.initCovers(ctx)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		app.coversInfra = coversInfra
		imageLinker = coversInfra
	}

	var publisher usecase.EventPublisher
	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(logger, cfg.Kafka)
		app.closer.Add("kafka producer", producer.Close)
		if err := producer.EnsureTopic(ctx, topicTimeout); err != nil {
			logger.Warnf("failed to ensure kafka topic %s: %v", cfg.Kafka.Topic, err)
		}
		publisher = producer
	}

	catalogRepo := pgdb.NewCatalogRepo(db.Pool, pgdbConv.NewProductConverter())

	chatbotUC := usecase.NewChatbotUC(
		catalogRepo,
		indexBuilder,
		llmClient,
		imageLinker,
		publisher,
		m,
		logger,
		cfg.Chatbot.RetrievalK,
	)

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, logger)
	router.Init(chatbotUC, m, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), cfg.Chatbot.RequestTimeout)

	app.httpSrv = v1Http.NewServer(r, cfg.Http)

	return app, nil
}

// Run запускает HTTP-сервер и блокируется до сигнала или фатальной ошибки.
func (a *App) Run() error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Infof("HTTP server started on %s", a.httpSrv.Addr())
		if err := a.httpSrv.Run(); err != nil {
			a.logger.Errorf(err, "HTTP server failed")
			errCh <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "HTTP server fatal error")
	case <-shutdown:
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.httpSrv.Stop(shutdownCtx); err != nil {
		a.logger.Errorf(err, "HTTP server shutdown error")
	} else {
		a.logger.Infof("HTTP server stopped")
	}

	if a.coversInfra != nil {
		if err := a.coversInfra.WaitForCleanup(shutdownCtx); err != nil {
			a.logger.Warnf("MinIO cleanup error: %v", err)
		}
	}

	a.stop()
	if err := a.closer.Close(shutdownCtx); err != nil {
		a.logger.Errorf(err, "failed to release resources")
		appErr = errors.Join(appErr, err)
	}

	a.logger.Infof("Application shutdown complete")
	return appErr
}

// release освобождает то, что успели открыть до ошибки инициализации.
func (a *App) release() {
	a.stop()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.closer.Close(ctx); err != nil {
		a.logger.Errorf(err, "failed to release resources after init error")
	}
}

func (a *App) initIndexBuilder(ctx context.Context, embedder usecase.Embedder) (usecase.IndexBuilder, error) {
	llmCfg := a.cfg.Llm

	switch a.cfg.Chatbot.VectorIndex {
	case config.VectorIndexMemory:
		return vectorindex.NewMemoryBuilder(embedder, llmCfg.EmbedBatchSize, llmCfg.EmbedMaxConcurrent), nil
	case config.VectorIndexQdrant:
		qdrantClient, err := clients.NewQdrantClient(a.cfg.Qdrant)
		if err != nil {
			a.logger.Errorf(err, "failed to initialize qdrant")
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		a.closer.Add("qdrant", qdrantClient.Close)

		if err := clients.EnsureCollection(ctx, qdrantClient); err != nil {
			a.logger.Errorf(err, "failed to initialize qdrant collection")
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		return qdrantRepo.NewIndexRepo(qdrantClient.Client, qdrantClient.Collection(), embedder, llmCfg.EmbedBatchSize, llmCfg.EmbedMaxConcurrent), nil
	default:
		return nil, e.Wrap(a.cfg.Chatbot.VectorIndex, e.ErrUnknownIndexStrategy)
	}
}

func (a *App) initCovers(ctx context.Context) (*minioInfra.CoverInfrastructure, error) {
	minioClient, err := clients.NewMinIOClient(a.cfg.Minio)
	if err != nil {
		a.logger.Errorf(err, "failed to initialize minio client")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := clients.EnsureBucket(ctx, minioClient, a.cfg.Minio.BucketName); err != nil {
		a.logger.Errorf(err, "failed to initialize MinIO bucket")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	coverRepo := s3Repo.NewCoverRepo(minioClient, a.cfg.Minio)
	return minioInfra.NewCoverInfrastructure(coverRepo, a.cfg.Minio, a.logger, a.shutdownCtx), nil
}

func initPGDB(ctx context.Context, logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(ctx, cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger, postgres.MigrationsURL); err != nil {
		logger.Errorf(err, "failed to run migrations")
		_ = db.Close(ctx)
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.Ping(ctx); err != nil {
		logger.Errorf(err, "failed to ping database")
		_ = db.Close(ctx)
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
