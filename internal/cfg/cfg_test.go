package cfg

import (
	"testing"
	"time"

	"github.com/DRSN-tech/ecospark-backend/pkg/e"
	"github.com/DRSN-tech/ecospark-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var optionalEnv = []string{
	"BUCKET_NAME", "CHATBOT_REQUEST_TIMEOUT", "CHATBOT_RETRIEVAL_K", "COLLECTION_NAME", "EMBEDDING_CACHE_TTL",
	"EMBED_BATCH_SIZE", "EMBED_MAX_CONCURRENT", "HTTP_PORT", "HTTP_READ_TIMEOUT", "HTTP_WRITE_TIMEOUT",
	"KAFKA_BROKERS", "KAFKA_NETWORK_MODE", "KAFKA_PARTITIONS", "KAFKA_TOPIC", "KEEP_ALIVE", "LLM_BASE_URL",
	"LLM_CHAT_MODEL", "LLM_EMBEDDING_MODEL", "LLM_MAX_OUTPUT_TOKENS", "LLM_MAX_RETRIES", "LLM_RETRY_BASE_DELAY",
	"LLM_RETRY_MAX_DELAY", "LLM_TIMEOUT", "LOG_FORMAT", "LOG_LEVEL", "MINIO_ENDPOINT", "MINIO_PRESIGN_TTL",
	"MINIO_ROOT_PASSWORD", "MINIO_ROOT_USER", "MINIO_USE_SSL", "POSTGRES_HOST", "POSTGRES_PORT",
	"QDRANT_GRPC_PORT", "QDRANT_HOST", "QDRANT_USE_TLS", "QDRANT__SERVICE__API_KEY", "REDIS_ADDR", "REDIS_DB_ID",
	"REDIS_DIAL_TIMEOUT", "REDIS_MAX_RETRIES", "REDIS_PASSWORD", "REDIS_READ_TIMEOUT", "REDIS_USER",
	"REDIS_WRITE_TIMEOUT", "REPLICATION_FACTOR", "SSL_MODE", "UPLOAD_IMAGES_LIMIT", "VECTOR_INDEX", "VECTOR_SIZE",
}

// setBaseEnv задаёт обязательные переменные и очищает остальные.
func setBaseEnv(t *testing.T) {
	t.Helper()

	for _, key := range optionalEnv {
		t.Setenv(key, "")
	}
	t.Setenv("POSTGRES_USER", "eco")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DB", "ecospark")
	t.Setenv("LLM_API_KEY", "key")
}

func TestLoad_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load(logger.NewNop())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Http.Port)
	assert.Equal(t, "localhost", cfg.Db.Host)
	assert.Equal(t, "disable", cfg.Db.SSLMode)
	assert.Equal(t, "https://generativelanguage.googleapis.com/v1beta/openai", cfg.Llm.BaseURL)
	assert.Equal(t, 2, cfg.Llm.MaxRetries)
	assert.Equal(t, 100, cfg.Llm.EmbedBatchSize)
	assert.Equal(t, 60*time.Second, cfg.Chatbot.RequestTimeout)
	assert.Equal(t, 4, cfg.Chatbot.RetrievalK)
	assert.Equal(t, VectorIndexMemory, cfg.Chatbot.VectorIndex)
	assert.False(t, cfg.Qdrant.Enabled)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.Minio.Enabled)
	assert.Equal(t, 4, cfg.Minio.UploadImagesLimit)
	assert.False(t, cfg.Kafka.Enabled)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_OptionalIntegrations(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("LLM_BASE_URL", "http://localhost:11434/v1/")
	t.Setenv("VECTOR_INDEX", "Qdrant")
	t.Setenv("QDRANT_HOST", "qdrant")
	t.Setenv("EMBEDDING_CACHE_TTL", "24h")
	t.Setenv("MINIO_ENDPOINT", "minio:9000")
	t.Setenv("KAFKA_BROKERS", " kafka-1:9092, ,kafka-2:9092")

	cfg, err := Load(logger.NewNop())
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:11434/v1", cfg.Llm.BaseURL)
	assert.Equal(t, VectorIndexQdrant, cfg.Chatbot.VectorIndex)
	assert.True(t, cfg.Qdrant.Enabled)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 24*time.Hour, cfg.Redis.EmbeddingCacheTTL)
	assert.True(t, cfg.Minio.Enabled)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Kafka.Enabled)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
		want error
	}{
		{name: "missing api key", key: "LLM_API_KEY", val: "", want: e.ErrMissingEnvVariable},
		{name: "missing db user", key: "POSTGRES_USER", val: "", want: e.ErrMissingEnvVariable},
		{name: "unknown index", key: "VECTOR_INDEX", val: "faiss", want: e.ErrUnknownIndexStrategy},
		{name: "qdrant without host", key: "VECTOR_INDEX", val: "qdrant", want: e.ErrMissingEnvVariable},
		{name: "bad k", key: "CHATBOT_RETRIEVAL_K", val: "0", want: e.ErrIncorrectEnvVariable},
		{name: "bad batch", key: "EMBED_BATCH_SIZE", val: "many", want: e.ErrIncorrectEnvVariable},
		{name: "negative retries", key: "LLM_MAX_RETRIES", val: "-1", want: e.ErrIncorrectEnvVariable},
		{name: "bad upload limit", key: "UPLOAD_IMAGES_LIMIT", val: "0", want: e.ErrIncorrectEnvVariable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setBaseEnv(t)
			t.Setenv(tt.key, tt.val)

			_, err := Load(logger.NewNop())
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
