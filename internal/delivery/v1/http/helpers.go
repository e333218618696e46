package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/DRSN-tech/ecospark-backend/internal/usecase"
	"github.com/DRSN-tech/ecospark-backend/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/xeipuuv/gojsonschema"
)

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

func ToHTTPResponse(err error) (int, string) {
	switch {
	case errors.Is(err, e.ErrMalformedChatbotReq):
		return http.StatusBadRequest, e.ErrMalformedChatbotReq.Error()
	case errors.Is(err, e.ErrStatusBadRequest):
		return http.StatusBadRequest, e.ErrStatusBadRequest.Error()
	case errors.Is(err, e.ErrInternalServerError):
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	default:
		return http.StatusInternalServerError, e.ErrChatbotUnavailable.Error()
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(NewErrorResponse(code, msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// chatbotRequestSchema: все поля обязательны, лишние поля запрещены.
const chatbotRequestSchema = `{
	"type": "object",
	"required": ["clientId", "message", "chatHistory"],
	"additionalProperties": false,
	"properties": {
		"clientId": {"type": "string"},
		"message": {"type": "string"},
		"chatHistory": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["role", "message"],
				"additionalProperties": false,
				"properties": {
					"role": {"type": "string"},
					"message": {"type": "string"}
				}
			}
		}
	}
}`

var chatbotSchema = func() *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(chatbotRequestSchema))
	if err != nil {
		panic(err)
	}
	return schema
}()

// parseChatbotRequest проверяет тело по схеме и собирает запрос к use case.
func parseChatbotRequest(body []byte) (*usecase.ProcessMessageReq, error) {
	result, err := chatbotSchema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		// тело не является JSON
		return nil, e.Wrap(whereami.WhereAmI(), fmt.Errorf("%w: %v", e.ErrMalformedChatbotReq, err))
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return nil, e.Wrap(whereami.WhereAmI(), fmt.Errorf("%w: %s", e.ErrMalformedChatbotReq, strings.Join(errs, "; ")))
	}

	var dto ChatbotRequest
	if err := json.Unmarshal(body, &dto); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), fmt.Errorf("%w: %v", e.ErrMalformedChatbotReq, err))
	}

	return dto.ToUseCase(), nil
}
