package converter

// EmbeddingConverter преобразует вектор в модель Redis и обратно.
type EmbeddingConverter interface {
	ToRedisModel(vector []float32) *EmbeddingRedisModel
	ToVector(model *EmbeddingRedisModel) ([]float32, bool)
}

type embeddingConverter struct{}

func NewEmbeddingConverter() EmbeddingConverter {
	return embeddingConverter{}
}

func (embeddingConverter) ToRedisModel(vector []float32) *EmbeddingRedisModel {
	return &EmbeddingRedisModel{
		Dim:    len(vector),
		Vector: vector,
	}
}

// ToVector возвращает false для повреждённой записи.
func (embeddingConverter) ToVector(model *EmbeddingRedisModel) ([]float32, bool) {
	if model.Dim == 0 || len(model.Vector) != model.Dim {
		return nil, false
	}
	return model.Vector, true
}
