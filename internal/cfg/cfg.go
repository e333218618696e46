package cfg

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/DRSN-tech/ecospark-backend/pkg/e"
	"github.com/DRSN-tech/ecospark-backend/pkg/logger"
	"github.com/jimlawless/whereami"
)

// Стратегии векторного индекса
const (
	VectorIndexMemory = "memory"
	VectorIndexQdrant = "qdrant"
)

type Config struct {
	Http    *HTTPConfig
	Db      *PGDBCfg
	Llm     *LLMCfg
	Chatbot *ChatbotCfg
	Qdrant  *QdrantCfg
	Redis   *RedisCfg
	Minio   *MinIOCfg
	Kafka   *KafkaCfg
	Log     *LogCfg
}

type HTTPConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type PGDBCfg struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// LLMCfg: настройки OpenAI-совместимого провайдера эмбеддингов и языковой модели.
type LLMCfg struct {
	BaseURL            string
	ApiKey             string
	ChatModel          string
	EmbeddingModel     string
	MaxOutputTokens    int
	Timeout            time.Duration
	MaxRetries         int
	RetryBaseDelay     time.Duration
	RetryMaxDelay      time.Duration
	EmbedBatchSize     int
	EmbedMaxConcurrent int
}

type ChatbotCfg struct {
	RequestTimeout time.Duration
	RetrievalK     int
	VectorIndex    string // memory | qdrant
}

type QdrantCfg struct {
	Enabled              bool
	Port                 int
	Host                 string
	ApiKey               string
	QdrantCollectionName string // имя коллекции в Qdrant
	UseTLS               bool
	VectorSize           uint64
}

type RedisCfg struct {
	Enabled           bool
	Addr              string
	Password          string
	User              string
	DB                int
	MaxRetries        int
	DialTimeout       time.Duration
	Timeout           time.Duration
	EmbeddingCacheTTL time.Duration
}

type MinIOCfg struct {
	Enabled           bool
	MinioEndpoint     string // Адрес конечной точки Minio
	BucketName        string // Бакет с обложками товаров
	MinioRootUser     string
	MinioRootPassword string
	MinioUseSSL       bool
	PresignTTL        time.Duration // Время жизни ссылки на обложку
	UploadImagesLimit int           // Максимум одновременных загрузок обложек
}

type KafkaCfg struct {
	Enabled           bool
	Topic             string
	Brokers           []string
	NetworkMode       string
	Partitions        int
	ReplicationFactor int
}

type LogCfg struct {
	Level  string
	Format string
}

// Load безопасно загружает конфигурацию и возвращает ошибку в случае неудачи.
func Load(log logger.Logger) (*Config, error) {
	db, err := loadPGDBCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	http, err := loadHTTPConfig(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	llm, err := loadLLMCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	chatbot, err := loadChatbotCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	qdrant, err := loadQdrantCfg(log, chatbot.VectorIndex == VectorIndexQdrant)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	redis, err := loadRedisCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	minio, err := loadMinIOCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	kafka, err := loadKafkaCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &Config{
		Http:    http,
		Db:      db,
		Llm:     llm,
		Chatbot: chatbot,
		Qdrant:  qdrant,
		Redis:   redis,
		Minio:   minio,
		Kafka:   kafka,
		Log:     LoadLogCfg(),
	}, nil
}

// LoadDB загружает только настройки Postgres. Нужна утилите наполнения каталога.
func LoadDB(log logger.Logger) (*PGDBCfg, error) {
	return loadPGDBCfg(log)
}

// LoadMinIO загружает только настройки MinIO.
func LoadMinIO(log logger.Logger) (*MinIOCfg, error) {
	return loadMinIOCfg(log)
}

// LoadLogCfg читается до создания логгера, поэтому не принимает его.
func LoadLogCfg() *LogCfg {
	const (
		defaultLevel  = "info"
		defaultFormat = "json"
	)

	return &LogCfg{
		Level:  getEnvOrDefault("LOG_LEVEL", defaultLevel),
		Format: getEnvOrDefault("LOG_FORMAT", defaultFormat),
	}
}

func loadHTTPConfig(log logger.Logger) (*HTTPConfig, error) {
	const (
		defaultPort         = "8080"
		defaultReadTimeout  = 5 * time.Second
		defaultWriteTimeout = 90 * time.Second
		defaultIdleTimeout  = 60 * time.Second
	)

	port := getEnvOrDefault("HTTP_PORT", defaultPort)

	readTimeout, err := parseDurationEnv("HTTP_READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("HTTP_WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_WRITE_TIMEOUT")
		return nil, err
	}

	idleTimeout, err := parseDurationEnv("KEEP_ALIVE", defaultIdleTimeout)
	if err != nil {
		log.Errorf(err, "invalid KEEP_ALIVE")
		return nil, err
	}

	return &HTTPConfig{
		Port:         port,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}, nil
}

func loadPGDBCfg(log logger.Logger) (*PGDBCfg, error) {
	const (
		defaultHost    = "localhost"
		defaultPort    = "5432"
		defaultSSLMode = "disable"
	)

	user, err := requireEnv(log, "POSTGRES_USER")
	if err != nil {
		return nil, err
	}

	password, err := requireEnv(log, "POSTGRES_PASSWORD")
	if err != nil {
		return nil, err
	}

	dbName, err := requireEnv(log, "POSTGRES_DB")
	if err != nil {
		return nil, err
	}

	return &PGDBCfg{
		Host:     getEnvOrDefault("POSTGRES_HOST", defaultHost),
		Port:     getEnvOrDefault("POSTGRES_PORT", defaultPort),
		User:     user,
		Password: password,
		DBName:   dbName,
		SSLMode:  getEnvOrDefault("SSL_MODE", defaultSSLMode),
	}, nil
}

func loadLLMCfg(log logger.Logger) (*LLMCfg, error) {
	const (
		defaultBaseURL            = "https://generativelanguage.googleapis.com/v1beta/openai"
		defaultChatModel          = "gemini-1.5-flash"
		defaultEmbeddingModel     = "text-embedding-004"
		defaultMaxOutputTokens    = 8192
		defaultTimeout            = 60 * time.Second
		defaultMaxRetries         = 2
		defaultRetryBaseDelay     = 500 * time.Millisecond
		defaultRetryMaxDelay      = 5 * time.Second
		defaultEmbedBatchSize     = 100
		defaultEmbedMaxConcurrent = 4
	)

	apiKey, err := requireEnv(log, "LLM_API_KEY")
	if err != nil {
		return nil, err
	}

	maxOutputTokens, err := parseIntEnv("LLM_MAX_OUTPUT_TOKENS", defaultMaxOutputTokens)
	if err != nil {
		log.Errorf(err, "invalid LLM_MAX_OUTPUT_TOKENS")
		return nil, e.Wrap("LLM_MAX_OUTPUT_TOKENS", err)
	}

	timeout, err := parseDurationEnv("LLM_TIMEOUT", defaultTimeout)
	if err != nil {
		log.Errorf(err, "invalid LLM_TIMEOUT")
		return nil, err
	}

	maxRetries, err := parseIntEnv("LLM_MAX_RETRIES", defaultMaxRetries)
	if err != nil || maxRetries < 0 {
		log.Errorf(err, "invalid LLM_MAX_RETRIES")
		return nil, e.Wrap("LLM_MAX_RETRIES", e.ErrIncorrectEnvVariable)
	}

	baseDelay, err := parseDurationEnv("LLM_RETRY_BASE_DELAY", defaultRetryBaseDelay)
	if err != nil {
		log.Errorf(err, "invalid LLM_RETRY_BASE_DELAY")
		return nil, err
	}

	maxDelay, err := parseDurationEnv("LLM_RETRY_MAX_DELAY", defaultRetryMaxDelay)
	if err != nil {
		log.Errorf(err, "invalid LLM_RETRY_MAX_DELAY")
		return nil, err
	}

	batchSize, err := parseIntEnv("EMBED_BATCH_SIZE", defaultEmbedBatchSize)
	if err != nil || batchSize <= 0 {
		log.Errorf(err, "invalid EMBED_BATCH_SIZE")
		return nil, e.Wrap("EMBED_BATCH_SIZE", e.ErrIncorrectEnvVariable)
	}

	maxConcurrent, err := parseIntEnv("EMBED_MAX_CONCURRENT", defaultEmbedMaxConcurrent)
	if err != nil || maxConcurrent <= 0 {
		log.Errorf(err, "invalid EMBED_MAX_CONCURRENT")
		return nil, e.Wrap("EMBED_MAX_CONCURRENT", e.ErrIncorrectEnvVariable)
	}

	return &LLMCfg{
		BaseURL:            strings.TrimRight(getEnvOrDefault("LLM_BASE_URL", defaultBaseURL), "/"),
		ApiKey:             apiKey,
		ChatModel:          getEnvOrDefault("LLM_CHAT_MODEL", defaultChatModel),
		EmbeddingModel:     getEnvOrDefault("LLM_EMBEDDING_MODEL", defaultEmbeddingModel),
		MaxOutputTokens:    maxOutputTokens,
		Timeout:            timeout,
		MaxRetries:         maxRetries,
		RetryBaseDelay:     baseDelay,
		RetryMaxDelay:      maxDelay,
		EmbedBatchSize:     batchSize,
		EmbedMaxConcurrent: maxConcurrent,
	}, nil
}

func loadChatbotCfg(log logger.Logger) (*ChatbotCfg, error) {
	const (
		defaultRequestTimeout = 60 * time.Second
		defaultRetrievalK     = 4
	)

	requestTimeout, err := parseDurationEnv("CHATBOT_REQUEST_TIMEOUT", defaultRequestTimeout)
	if err != nil {
		log.Errorf(err, "invalid CHATBOT_REQUEST_TIMEOUT")
		return nil, err
	}

	k, err := parseIntEnv("CHATBOT_RETRIEVAL_K", defaultRetrievalK)
	if err != nil || k <= 0 {
		log.Errorf(err, "invalid CHATBOT_RETRIEVAL_K")
		return nil, e.Wrap("CHATBOT_RETRIEVAL_K", e.ErrIncorrectEnvVariable)
	}

	strategy := strings.ToLower(getEnvOrDefault("VECTOR_INDEX", VectorIndexMemory))
	if strategy != VectorIndexMemory && strategy != VectorIndexQdrant {
		log.Errorf(e.ErrUnknownIndexStrategy, "invalid VECTOR_INDEX %q", strategy)
		return nil, e.Wrap("VECTOR_INDEX", e.ErrUnknownIndexStrategy)
	}

	return &ChatbotCfg{
		RequestTimeout: requestTimeout,
		RetrievalK:     k,
		VectorIndex:    strategy,
	}, nil
}

func loadQdrantCfg(logger logger.Logger, enabled bool) (*QdrantCfg, error) {
	const (
		defaultQdrantGRPCPort = "6334"
		defaultUseTLS         = false
		defaultVectorSize     = "768"
		defaultCollection     = "ecospark_products"
	)

	strPort := getEnvOrDefault("QDRANT_GRPC_PORT", defaultQdrantGRPCPort)
	port, err := strconv.Atoi(strPort)
	if err != nil {
		logger.Errorf(err, "invalid QDRANT_GRPC_PORT")
		return nil, err
	}

	useTLS, err := strconv.ParseBool(getEnvOrDefault("QDRANT_USE_TLS", strconv.FormatBool(defaultUseTLS)))
	if err != nil {
		logger.Errorf(err, "invalid QDRANT_USE_TLS")
		return nil, err
	}

	strVectorSize := getEnvOrDefault("VECTOR_SIZE", defaultVectorSize)
	vectorSize, err := strconv.ParseUint(strVectorSize, 10, 64)
	if err != nil {
		logger.Errorf(err, "invalid VECTOR_SIZE")
		return nil, err
	}

	host := getEnv("QDRANT_HOST")
	if enabled && host == "" {
		err := fmt.Errorf("%w: QDRANT_HOST", e.ErrMissingEnvVariable)
		logger.Errorf(err, "VECTOR_INDEX=qdrant requires QDRANT_HOST")
		return nil, err
	}

	return &QdrantCfg{
		Enabled:              enabled,
		Host:                 host,
		Port:                 port,
		ApiKey:               getEnv("QDRANT__SERVICE__API_KEY"),
		QdrantCollectionName: getEnvOrDefault("COLLECTION_NAME", defaultCollection),
		UseTLS:               useTLS,
		VectorSize:           vectorSize,
	}, nil
}

func loadRedisCfg(log logger.Logger) (*RedisCfg, error) {
	const (
		defaultAddr         = "localhost:6379"
		defaultDB           = 0
		defaultMaxRetries   = 3
		defaultDialTimeout  = 5 * time.Second
		defaultReadTimeout  = 3 * time.Second
		defaultWriteTimeout = 3 * time.Second
		defaultCacheTTL     = 0
	)

	db, err := parseIntEnv("REDIS_DB_ID", defaultDB)
	if err != nil {
		log.Errorf(err, "invalid REDIS_DB_ID")
		return nil, err
	}

	maxRetries, err := parseIntEnv("REDIS_MAX_RETRIES", defaultMaxRetries)
	if err != nil {
		log.Errorf(err, "invalid REDIS_MAX_RETRIES")
		return nil, err
	}

	dialTimeout, err := parseDurationEnv("REDIS_DIAL_TIMEOUT", defaultDialTimeout)
	if err != nil {
		log.Errorf(err, "invalid REDIS_DIAL_TIMEOUT")
		return nil, err
	}

	readTimeout, err := parseDurationEnv("REDIS_READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid REDIS_READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("REDIS_WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid REDIS_WRITE_TIMEOUT")
		return nil, err
	}

	cacheTTL, err := parseDurationEnv("EMBEDDING_CACHE_TTL", defaultCacheTTL)
	if err != nil {
		log.Errorf(err, "invalid EMBEDDING_CACHE_TTL")
		return nil, err
	}

	timeout := readTimeout
	if writeTimeout > timeout {
		timeout = writeTimeout
	}

	return &RedisCfg{
		Enabled:           cacheTTL > 0,
		Addr:              getEnvOrDefault("REDIS_ADDR", defaultAddr),
		Password:          getEnv("REDIS_PASSWORD"),
		User:              getEnv("REDIS_USER"),
		DB:                db,
		MaxRetries:        maxRetries,
		DialTimeout:       dialTimeout,
		Timeout:           timeout,
		EmbeddingCacheTTL: cacheTTL,
	}, nil
}

func loadMinIOCfg(log logger.Logger) (*MinIOCfg, error) {
	const (
		defaultUseSSL     = false
		defaultBucket     = "product-covers"
		defaultPresignTTL = 15 * time.Minute
		defaultUploadLim  = 4
	)

	useSSL, err := strconv.ParseBool(getEnvOrDefault("MINIO_USE_SSL", strconv.FormatBool(defaultUseSSL)))
	if err != nil {
		log.Errorf(err, "invalid MINIO_USE_SSL")
		return nil, err
	}

	presignTTL, err := parseDurationEnv("MINIO_PRESIGN_TTL", defaultPresignTTL)
	if err != nil {
		log.Errorf(err, "invalid MINIO_PRESIGN_TTL")
		return nil, err
	}

	uploadLimit, err := parseIntEnv("UPLOAD_IMAGES_LIMIT", defaultUploadLim)
	if err != nil || uploadLimit <= 0 {
		log.Errorf(err, "invalid UPLOAD_IMAGES_LIMIT")
		return nil, e.ErrIncorrectEnvVariable
	}

	endpoint := getEnv("MINIO_ENDPOINT")

	return &MinIOCfg{
		Enabled:           endpoint != "",
		MinioEndpoint:     endpoint,
		BucketName:        getEnvOrDefault("BUCKET_NAME", defaultBucket),
		MinioRootUser:     getEnv("MINIO_ROOT_USER"),
		MinioRootPassword: getEnv("MINIO_ROOT_PASSWORD"),
		MinioUseSSL:       useSSL,
		PresignTTL:        presignTTL,
		UploadImagesLimit: uploadLimit,
	}, nil
}

func loadKafkaCfg() (*KafkaCfg, error) {
	const (
		defaultTopic             = "chatbot.recommendations"
		defaultPartitions        = 3
		defaultReplicationFactor = 1
		defaultNetworkMode       = "tcp"
	)

	var brokers []string
	for _, b := range strings.Split(getEnv("KAFKA_BROKERS"), ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}

	partitions, err := parseIntEnv("KAFKA_PARTITIONS", defaultPartitions)
	if err != nil {
		return nil, e.Wrap("KAFKA_PARTITIONS", err)
	}

	replicationFactor, err := parseIntEnv("REPLICATION_FACTOR", defaultReplicationFactor)
	if err != nil {
		return nil, e.Wrap("REPLICATION_FACTOR", err)
	}

	return &KafkaCfg{
		Enabled:           len(brokers) > 0,
		Brokers:           brokers,
		Topic:             getEnvOrDefault("KAFKA_TOPIC", defaultTopic),
		Partitions:        partitions,
		ReplicationFactor: replicationFactor,
		NetworkMode:       getEnvOrDefault("KAFKA_NETWORK_MODE", defaultNetworkMode),
	}, nil
}

// getEnv возвращает значение переменной окружения.
// Возвращает пустую строку, если переменная не задана.
func getEnv(key string) string {
	return os.Getenv(key)
}

// requireEnv возвращает значение обязательной переменной окружения.
func requireEnv(log logger.Logger, key string) (string, error) {
	v := getEnv(key)
	if v == "" {
		err := fmt.Errorf("%w: %s", e.ErrMissingEnvVariable, key)
		log.Errorf(err, "missing %s", key)
		return "", err
	}

	return v, nil
}

// getEnvOrDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

// parseDurationEnv считывает длительность или возвращает значение по умолчанию.
func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	if v := os.Getenv(key); v != "" {
		return time.ParseDuration(v)
	}

	return defaultValue, nil
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}

	intValue, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue, e.ErrIncorrectEnvVariable
	}

	return intValue, nil
}
