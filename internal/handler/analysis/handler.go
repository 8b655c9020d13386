package analysis

import (
	"github.com/gin-gonic/gin"

	"github.com/vertiguard/vertiguard-api/internal/middleware"
	"github.com/vertiguard/vertiguard-api/internal/service/analysis"
	"github.com/vertiguard/vertiguard-api/pkg/httputil"
)

type Handler struct {
	service analysis.Service
}

func NewHandler(service analysis.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/analysis/patterns", h.AnalyzePatterns)
}

func (h *Handler) AnalyzePatterns(c *gin.Context) {
	authCtx, ok := middleware.MustAuth(c)
	if !ok {
		return
	}

	result, err := h.service.AnalyzePatterns(c.Request.Context(), *authCtx)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, result)
}
