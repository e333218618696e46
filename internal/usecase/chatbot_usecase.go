package usecase

import (
	"context"

	"github.com/DRSN-tech/ecospark-backend/internal/domain"
	"github.com/DRSN-tech/ecospark-backend/pkg/e"
	"github.com/DRSN-tech/ecospark-backend/pkg/logger"
)

// DefaultRetrievalK: число документов, передаваемых модели по умолчанию.
const DefaultRetrievalK = 4

const greetingPayload = "Hello World"

// ChatbotUseCase отвечает на вопросы покупателей по каталогу: строит индекс, переформулирует
// вопрос с учётом истории, находит подходящие товары и просит модель ответить.
type ChatbotUseCase struct {
	catalogRepo  CatalogRepository
	indexBuilder IndexBuilder
	llm          LanguageModel
	imageLinker  ImageLinker    // может быть nil
	publisher    EventPublisher // может быть nil
	metrics      ChatbotMetrics
	logger       logger.Logger
	retrievalK   int
}

func NewChatbotUC(
	catalogRepo CatalogRepository,
	indexBuilder IndexBuilder,
	llm LanguageModel,
	imageLinker ImageLinker,
	publisher EventPublisher,
	metrics ChatbotMetrics,
	logger logger.Logger,
	retrievalK int,
) *ChatbotUseCase {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if retrievalK <= 0 {
		retrievalK = DefaultRetrievalK
	}

	return &ChatbotUseCase{
		catalogRepo:  catalogRepo,
		indexBuilder: indexBuilder,
		llm:          llm,
		imageLinker:  imageLinker,
		publisher:    publisher,
		metrics:      metrics,
		logger:       logger,
		retrievalK:   retrievalK,
	}
}

// Greeting возвращает ответ для проверки доступности чат-бота.
func (c *ChatbotUseCase) Greeting(_ context.Context) string {
	return greetingPayload
}

// ProcessMessage обрабатывает сообщение клиента целиком: ответ модели, извлечение товаров,
// ссылки на обложки и событие рекомендации.
func (c *ChatbotUseCase) ProcessMessage(ctx context.Context, req *ProcessMessageReq) (*ProcessMessageRes, error) {
	const op = "ChatbotUseCase.ProcessMessage"

	history := make([]domain.ChatTurn, 0, len(req.ChatHistory))
	for _, item := range req.ChatHistory {
		history = append(history, domain.NewChatTurn(item.Role, item.Message))
	}

	answer, err := c.Answer(ctx, req.Message, history)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	extracted, err := c.ExtractProducts(ctx, answer)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	products := make([]ProductInfo, 0, len(extracted.Products))
	ids := make([]int64, 0, len(extracted.Products))
	for _, p := range extracted.Products {
		products = append(products, ProductInfo{
			Product:       p,
			CoverImageURL: c.coverImageURL(ctx, &p),
		})
		ids = append(ids, p.ID)
	}
	c.metrics.AddReferencedProducts(len(products))

	c.publishRecommendation(ctx, req.ClientID, ids)

	return NewProcessMessageRes(extracted.Message, products), nil
}

// Answer выполняет конвейер: пустая история заменяется приветствием, весь каталог
// индексируется, вопрос переформулируется в самостоятельный, по нему ищутся документы,
// и модель отвечает на самостоятельный вопрос по найденному контексту.
// Ответ модели возвращается без изменений. Ошибки провайдеров не повторяются.
func (c *ChatbotUseCase) Answer(ctx context.Context, input string, history []domain.ChatTurn) (string, error) {
	const op = "ChatbotUseCase.Answer"

	if len(history) == 0 {
		history = []domain.ChatTurn{domain.GreetingTurn()}
	}

	catalog, err := c.catalogRepo.FindAll(ctx)
	if err != nil {
		return "", e.Wrap(op, err)
	}

	index, err := c.indexBuilder.Build(ctx, domain.FlattenProducts(catalog))
	if err != nil {
		return "", e.Wrap(op, err)
	}

	standalone, err := c.llm.Generate(ctx, []domain.PromptMessage{
		domain.NewUserPrompt(buildCondensePrompt(history, input)),
	})
	if err != nil {
		return "", e.Wrap(op, err)
	}

	docs, err := index.Retrieve(ctx, standalone, c.retrievalK)
	if err != nil {
		return "", e.Wrap(op, err)
	}
	c.metrics.ObserveRetrievedDocuments(len(docs))
	c.logger.Debugf("retrieved %d of %d documents for standalone question", len(docs), index.Len())

	answer, err := c.llm.Generate(ctx, []domain.PromptMessage{
		domain.NewUserPrompt(buildAnswerPrompt(docs, standalone)),
	})
	if err != nil {
		return "", e.Wrap(op, err)
	}

	return answer, nil
}

// ExtractProducts убирает из ответа маркеры товаров и загружает упомянутые товары одним запросом.
// Товары возвращаются в порядке первого упоминания, несуществующие id пропускаются.
func (c *ChatbotUseCase) ExtractProducts(ctx context.Context, answer string) (*ExtractProductsRes, error) {
	const op = "ChatbotUseCase.ExtractProducts"

	cleaned, ids := ParseProductReferences(answer)
	if len(ids) == 0 {
		return NewExtractProductsRes(cleaned, []domain.Product{}), nil
	}

	found, err := c.catalogRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	byID := make(map[int64]domain.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}

	products := make([]domain.Product, 0, len(found))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			products = append(products, p)
		}
	}

	if missing := len(ids) - len(products); missing > 0 {
		c.logger.Debugf("%d referenced products are not in the catalog", missing)
	}

	return NewExtractProductsRes(cleaned, products), nil
}

// coverImageURL возвращает ссылку на обложку или пустую строку, если её нельзя получить.
func (c *ChatbotUseCase) coverImageURL(ctx context.Context, p *domain.Product) string {
	if c.imageLinker == nil || p.CoverImage == nil || *p.CoverImage == "" {
		return ""
	}

	url, err := c.imageLinker.CoverImageURL(ctx, *p.CoverImage)
	if err != nil {
		c.logger.Warnf("failed to link cover image of product %d: %v", p.ID, err)
		return ""
	}

	return url
}

func (c *ChatbotUseCase) publishRecommendation(ctx context.Context, clientID string, ids []int64) {
	if c.publisher == nil || len(ids) == 0 {
		return
	}

	if err := c.publisher.PublishRecommendation(ctx, NewRecommendationEvent(clientID, ids)); err != nil {
		c.logger.Warnf("failed to publish recommendation event: %v", err)
	}
}
