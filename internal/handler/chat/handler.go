package chat

import (
	"github.com/gin-gonic/gin"

	"github.com/vertiguard/vertiguard-api/internal/middleware"
	"github.com/vertiguard/vertiguard-api/internal/model"
	"github.com/vertiguard/vertiguard-api/internal/service/chat"
	"github.com/vertiguard/vertiguard-api/pkg/errors"
	"github.com/vertiguard/vertiguard-api/pkg/httputil"
)

type Handler struct {
	service chat.Service
}

func NewHandler(service chat.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/chat", h.Chat)
}

func (h *Handler) Chat(c *gin.Context) {
	if _, ok := middleware.MustAuth(c); !ok {
		return
	}

	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.InvalidInput(err.Error(), err))
		return
	}

	reply, err := h.service.Reply(c.Request.Context(), req.Messages)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, model.ChatResponse{Reply: reply})
}
