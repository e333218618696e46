package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/DRSN-tech/ecospark-backend/internal/domain"
	"github.com/DRSN-tech/ecospark-backend/pkg/e"
	"github.com/DRSN-tech/ecospark-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type catalogRepoMock struct{ mock.Mock }

func (m *catalogRepoMock) FindAll(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	products, _ := args.Get(0).([]domain.Product)
	return products, args.Error(1)
}

func (m *catalogRepoMock) FindByIDs(ctx context.Context, ids []int64) ([]domain.Product, error) {
	args := m.Called(ctx, ids)
	products, _ := args.Get(0).([]domain.Product)
	return products, args.Error(1)
}

// scriptedLLM отвечает заранее заданными ответами и запоминает промпты.
type scriptedLLM struct {
	replies []string
	errs    []error
	prompts []string
}

func (s *scriptedLLM) Generate(_ context.Context, messages []domain.PromptMessage) (string, error) {
	i := len(s.prompts)
	s.prompts = append(s.prompts, messages[0].Content)
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	return s.replies[i], nil
}

type staticIndex struct {
	docs    []domain.Document
	queries []string
}

func (s *staticIndex) Retrieve(_ context.Context, query string, k int) ([]domain.Document, error) {
	s.queries = append(s.queries, query)
	if k > len(s.docs) {
		k = len(s.docs)
	}
	return s.docs[:k], nil
}

func (s *staticIndex) Len() int { return len(s.docs) }

type staticBuilder struct {
	index *staticIndex
	built [][]domain.Document
	err   error
}

func (b *staticBuilder) Build(_ context.Context, docs []domain.Document) (VectorIndex, error) {
	b.built = append(b.built, docs)
	if b.err != nil {
		return nil, b.err
	}
	b.index.docs = docs
	return b.index, nil
}

type linkerStub struct{ fail bool }

func (l linkerStub) CoverImageURL(_ context.Context, key string) (string, error) {
	if l.fail {
		return "", errors.New("minio down")
	}
	return "https://cdn.local/" + key, nil
}

type publisherSpy struct {
	events []*RecommendationEvent
	err    error
}

func (p *publisherSpy) PublishRecommendation(_ context.Context, ev *RecommendationEvent) error {
	p.events = append(p.events, ev)
	return p.err
}

func catalog() []domain.Product {
	cover := "covers/tvs/1.jpg"
	return []domain.Product{
		{ID: 1, Name: "EverLife EcoVision", Price: decimal.NewFromInt(500), CoverImage: &cover},
		{ID: 2, Name: "TerraVolt UltraVision", Price: decimal.NewFromInt(700)},
		{ID: 3, Name: "EcoSound StarSound", Price: decimal.NewFromInt(90)},
	}
}

func newTestUC(repo *catalogRepoMock, llm LanguageModel, builder IndexBuilder, linker ImageLinker, pub EventPublisher) *ChatbotUseCase {
	return NewChatbotUC(repo, builder, llm, linker, pub, nil, logger.NewNop(), 0)
}

func TestAnswer_EmptyHistoryGetsSingleGreeting(t *testing.T) {
	repo := &catalogRepoMock{}
	repo.On("FindAll", mock.Anything).Return(catalog(), nil)
	llm := &scriptedLLM{replies: []string{"standalone tv question", "final answer"}}
	builder := &staticBuilder{index: &staticIndex{}}

	uc := newTestUC(repo, llm, builder, nil, nil)

	answer, err := uc.Answer(context.Background(), "any eco TVs?", nil)
	require.NoError(t, err)
	assert.Equal(t, "final answer", answer)

	require.Len(t, llm.prompts, 2)
	assert.Equal(t, 1, strings.Count(llm.prompts[0], domain.GreetingMessage))
	assert.Contains(t, llm.prompts[0], "AI: "+domain.GreetingMessage)
	assert.Contains(t, llm.prompts[0], "Follow Up Input:\nany eco TVs?")
}

func TestAnswer_RetrievesWithStandaloneQuestion(t *testing.T) {
	repo := &catalogRepoMock{}
	repo.On("FindAll", mock.Anything).Return(catalog(), nil)
	llm := &scriptedLLM{replies: []string{"Which eco TVs are available?", "Here they are"}}
	index := &staticIndex{}
	builder := &staticBuilder{index: index}

	uc := newTestUC(repo, llm, builder, nil, nil)

	history := []domain.ChatTurn{domain.NewChatTurn("user", "hi"), domain.NewChatTurn("assistant", "hello")}
	_, err := uc.Answer(context.Background(), "eco ones?", history)
	require.NoError(t, err)

	require.Len(t, builder.built, 1)
	assert.Len(t, builder.built[0], 3)
	assert.Equal(t, []string{"Which eco TVs are available?"}, index.queries)
	assert.Contains(t, llm.prompts[1], "Question:\nWhich eco TVs are available?")
	assert.Contains(t, llm.prompts[1], "name: EverLife EcoVision")
	assert.NotContains(t, llm.prompts[0], domain.GreetingMessage)
}

func TestAnswer_ProviderErrorPropagates(t *testing.T) {
	repo := &catalogRepoMock{}
	repo.On("FindAll", mock.Anything).Return(catalog(), nil)
	providerErr := e.Provider("llm.Generate", errors.New("503"))
	llm := &scriptedLLM{replies: []string{"standalone", ""}, errs: []error{nil, providerErr}}
	builder := &staticBuilder{index: &staticIndex{}}

	uc := newTestUC(repo, llm, builder, nil, nil)

	answer, err := uc.Answer(context.Background(), "q", nil)
	require.Error(t, err)
	assert.Empty(t, answer)
	assert.ErrorIs(t, err, e.ErrProviderFailure)
	assert.Len(t, llm.prompts, 2, "no retry inside the pipeline")
}

func TestAnswer_IndexBuildErrorStopsPipeline(t *testing.T) {
	repo := &catalogRepoMock{}
	repo.On("FindAll", mock.Anything).Return(catalog(), nil)
	llm := &scriptedLLM{}
	builder := &staticBuilder{index: &staticIndex{}, err: e.Provider("embed", errors.New("quota"))}

	uc := newTestUC(repo, llm, builder, nil, nil)

	_, err := uc.Answer(context.Background(), "q", nil)
	assert.ErrorIs(t, err, e.ErrProviderFailure)
	assert.Empty(t, llm.prompts)
}

func TestExtractProducts_NoMarkersSkipsLookup(t *testing.T) {
	repo := &catalogRepoMock{}
	uc := newTestUC(repo, &scriptedLLM{}, &staticBuilder{index: &staticIndex{}}, nil, nil)

	res, err := uc.ExtractProducts(context.Background(), "Nothing to recommend.")
	require.NoError(t, err)
	assert.Equal(t, "Nothing to recommend.", res.Message)
	assert.NotNil(t, res.Products)
	assert.Empty(t, res.Products)
	repo.AssertNotCalled(t, "FindByIDs", mock.Anything, mock.Anything)
}

func TestExtractProducts_OrdersByFirstMentionAndDropsUnknown(t *testing.T) {
	repo := &catalogRepoMock{}
	all := catalog()
	repo.On("FindByIDs", mock.Anything, []int64{3, 42, 1}).Return([]domain.Product{all[0], all[2]}, nil).Once()

	uc := newTestUC(repo, &scriptedLLM{}, &staticBuilder{index: &staticIndex{}}, nil, nil)

	res, err := uc.ExtractProducts(context.Background(), "B (product_id:3), ghost (product_id:42), A (product id: 1), B (product_id:3)")
	require.NoError(t, err)
	assert.Equal(t, "B, ghost, A, B", res.Message)
	require.Len(t, res.Products, 2)
	assert.Equal(t, int64(3), res.Products[0].ID)
	assert.Equal(t, int64(1), res.Products[1].ID)
	repo.AssertExpectations(t)
}

func TestProcessMessage_LinksCoversAndPublishes(t *testing.T) {
	repo := &catalogRepoMock{}
	all := catalog()
	repo.On("FindAll", mock.Anything).Return(all, nil)
	repo.On("FindByIDs", mock.Anything, []int64{1, 2}).Return([]domain.Product{all[1], all[0]}, nil)
	llm := &scriptedLLM{replies: []string{"tvs?", "Try EcoVision (product_id:1) or UltraVision (product_id:2)."}}
	pub := &publisherSpy{}

	uc := newTestUC(repo, llm, &staticBuilder{index: &staticIndex{}}, linkerStub{}, pub)

	req := NewProcessMessageReq("client-1", "show me TVs", []ChatHistoryItem{NewChatHistoryItem("user", "hello")})
	res, err := uc.ProcessMessage(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "Try EcoVision or UltraVision.", res.Message)
	require.Len(t, res.Products, 2)
	assert.Equal(t, "https://cdn.local/covers/tvs/1.jpg", res.Products[0].CoverImageURL)
	assert.Empty(t, res.Products[1].CoverImageURL)

	require.Len(t, pub.events, 1)
	assert.Equal(t, "client-1", pub.events[0].ClientID)
	assert.Equal(t, []int64{1, 2}, pub.events[0].ProductIDs)
}

func TestProcessMessage_SideEffectFailuresAreNotSurfaced(t *testing.T) {
	repo := &catalogRepoMock{}
	all := catalog()
	repo.On("FindAll", mock.Anything).Return(all, nil)
	repo.On("FindByIDs", mock.Anything, []int64{1}).Return([]domain.Product{all[0]}, nil)
	llm := &scriptedLLM{replies: []string{"q", "EcoVision (product_id:1)"}}
	pub := &publisherSpy{err: errors.New("kafka down")}

	uc := newTestUC(repo, llm, &staticBuilder{index: &staticIndex{}}, linkerStub{fail: true}, pub)

	res, err := uc.ProcessMessage(context.Background(), NewProcessMessageReq("c", "m", nil))
	require.NoError(t, err)
	require.Len(t, res.Products, 1)
	assert.Empty(t, res.Products[0].CoverImageURL)
}

func TestProcessMessage_CatalogErrorFails(t *testing.T) {
	repo := &catalogRepoMock{}
	repo.On("FindAll", mock.Anything).Return(nil, errors.New("db gone"))

	uc := newTestUC(repo, &scriptedLLM{}, &staticBuilder{index: &staticIndex{}}, nil, nil)

	res, err := uc.ProcessMessage(context.Background(), NewProcessMessageReq("c", "m", nil))
	assert.Error(t, err)
	assert.Nil(t, res)
}

func TestGreeting(t *testing.T) {
	uc := newTestUC(&catalogRepoMock{}, &scriptedLLM{}, &staticBuilder{index: &staticIndex{}}, nil, nil)
	assert.Equal(t, "Hello World", uc.Greeting(context.Background()))
}
