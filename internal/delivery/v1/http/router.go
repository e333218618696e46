package http

import (
	"net/http"
	"time"

	_ "github.com/DRSN-tech/ecospark-backend/docs" // Импорт сгенерированных файлов
	"github.com/DRSN-tech/ecospark-backend/internal/infrastructure/metrics"
	"github.com/DRSN-tech/ecospark-backend/internal/usecase"
	"github.com/DRSN-tech/ecospark-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

// Init регистрирует middleware и маршруты. metricsHandler отдаёт метрики prometheus.
func (r *Router) Init(chatbotUC usecase.ChatbotUC, m *metrics.Metrics, metricsHandler http.Handler, requestTimeout time.Duration) {
	r.router.Use(middleware.RequestID)
	r.router.Use(middleware.RealIP)
	r.router.Use(middleware.Recoverer)

	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	r.router.Method(http.MethodGet, "/metrics", metricsHandler)

	r.router.Route("/api/v1", func(v1 chi.Router) {
		chatbotHandler := NewChatbotHandler(chatbotUC, m, r.logger, requestTimeout)
		registerChatbotRoutes(v1, chatbotHandler)
	})
}

func registerChatbotRoutes(router chi.Router, chatbotHandler *ChatbotHandler) {
	router.Route("/chatbot", func(cb chi.Router) {
		cb.Get("/", chatbotHandler.greeting)
		cb.Post("/", chatbotHandler.processMessage)
	})
}
