package converter

// EmbeddingRedisModel хранит вектор эмбеддинга в Redis.
type EmbeddingRedisModel struct {
	Dim    int       `json:"dim"`
	Vector []float32 `json:"vector"`
}
