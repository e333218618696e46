package infrastructure

import (
	"path/filepath"
	"strings"

	"github.com/DRSN-tech/ecospark-backend/pkg/e"
)

// ContentTypeFromExt возвращает MIME-тип изображения по расширению файла.
// Поддерживает jpeg, jpg, png, webp. Возвращает ошибку e.ErrUnsupportedMediaType для остальных.
func ContentTypeFromExt(name string) (string, error) {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(name), ".")) {
	case "jpeg", "jpg":
		return "image/jpeg", nil
	case "png":
		return "image/png", nil
	case "webp":
		return "image/webp", nil
	default:
		return "application/octet-stream", e.ErrUnsupportedMediaType
	}
}
