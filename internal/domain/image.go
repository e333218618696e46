package domain

// CoverImage описывает обложку товара, которая хранится в S3
type CoverImage struct {
	ObjectKey   string // covers/<slug категории>/<файл>
	Data        []byte
	ContentType string // Example: "image/jpeg"
}

func NewCoverImage(objectKey string, data []byte, contentType string) *CoverImage {
	return &CoverImage{
		ObjectKey:   objectKey,
		Data:        data,
		ContentType: contentType,
	}
}

// Size возвращает размер обложки в байтах.
func (c *CoverImage) Size() int64 {
	return int64(len(c.Data))
}
