package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/DRSN-tech/ecospark-backend/internal/infrastructure/metrics"
	"github.com/DRSN-tech/ecospark-backend/internal/usecase"
	"github.com/DRSN-tech/ecospark-backend/pkg/e"
	"github.com/DRSN-tech/ecospark-backend/pkg/logger"
	"github.com/go-chi/chi/v5/middleware"
)

const maxChatbotRequestSize = 1 << 20

type ChatbotHandler struct {
	chatbotUsecase usecase.ChatbotUC
	metrics        *metrics.Metrics
	logger         logger.Logger
	timeout        time.Duration
}

func NewChatbotHandler(chatbotUsecase usecase.ChatbotUC, metrics *metrics.Metrics, logger logger.Logger, timeout time.Duration) *ChatbotHandler {
	return &ChatbotHandler{
		chatbotUsecase: chatbotUsecase,
		metrics:        metrics,
		logger:         logger,
		timeout:        timeout,
	}
}

// greeting
//
//	@Summary	Проверка доступности чат-бота
//	@Tags		chatbot
//	@Produce	json
//	@Success	200	{object}	GreetingResponse
//	@Router		/chatbot [get]
func (h *ChatbotHandler) greeting(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, http.StatusOK, GreetingResponse{Message: h.chatbotUsecase.Greeting(r.Context())})
}

// processMessage
//
//	@Summary		Сообщение чат-боту
//	@Description	Отвечает на вопрос клиента по каталогу с учётом истории диалога и возвращает упомянутые товары
//	@Tags			chatbot
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ChatbotRequest	true	"Сообщение и история диалога"
//	@Success		200		{object}	ChatbotResponse
//	@Failure		400		{object}	ErrorResponse	"malformed chatbot request"
//	@Failure		500		{object}	ErrorResponse	"I can't answer to that query right now."
//	@Router			/chatbot [post]
func (h *ChatbotHandler) processMessage(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxChatbotRequestSize)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.Warnf("%d %s: request_id=%s: %s", http.StatusBadRequest, e.ErrMalformedChatbotReq.Error(), reqID, err.Error())
		WriteError(w, e.ErrMalformedChatbotReq)
		return
	}

	req, err := parseChatbotRequest(body)
	if err != nil {
		h.logger.Warnf("%d %s: request_id=%s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), reqID, err.Error())
		WriteError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	start := time.Now()
	res, err := h.chatbotUsecase.ProcessMessage(ctx, req)
	if err != nil {
		h.metrics.ObserveRequest(metrics.StatusError, time.Since(start))
		h.logger.Errorf(err, "chatbot request failed: request_id=%s client_id=%s", reqID, req.ClientID)
		WriteError(w, err)
		return
	}
	h.metrics.ObserveRequest(metrics.StatusOK, time.Since(start))

	h.logger.Debugf("chatbot answered: request_id=%s client_id=%s products=%d", reqID, req.ClientID, len(res.Products))
	WriteSuccess(w, http.StatusOK, NewChatbotResponse(res))
}
