package e

import (
	"errors"
	"fmt"
)

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = errors.New("transaction not found")

	// Ошибки конфигурации
	ErrIncorrectEnvVariable = errors.New("incorrect environment variable")
	ErrMissingEnvVariable   = errors.New("required environment variable is not set")

	// Ошибки внешних провайдеров (эмбеддинги, языковая модель)
	ErrProviderFailure      = errors.New("provider call failed")
	ErrEmptyCompletion      = errors.New("provider returned empty completion")
	ErrEmbeddingsMismatch   = errors.New("embeddings count does not match inputs")
	ErrVectorEmbeddingEmpty = errors.New("vector embedding is empty")

	// Ошибки векторного индекса
	ErrUnknownIndexStrategy = errors.New("unknown vector index strategy")

	// Ошибки обложек
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrCoverStorageDisabled = errors.New("cover storage is not configured")

	// 400 Bad Request
	ErrStatusBadRequest    = errors.New("bad request")
	ErrMalformedChatbotReq = errors.New("malformed chatbot request")

	// 500 Internal Server Error
	ErrInternalServerError = errors.New("internal server error")
	ErrChatbotUnavailable  = errors.New("I can't answer to that query right now.")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}

// Provider помечает ошибку как ошибку внешнего провайдера, сохраняя исходную цепочку.
func Provider(msg string, err error) error {
	return fmt.Errorf("%s: %w: %w", msg, ErrProviderFailure, err)
}
