package event

import (
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vertiguard/vertiguard-api/internal/middleware"
	"github.com/vertiguard/vertiguard-api/internal/service/event"
	"github.com/vertiguard/vertiguard-api/pkg/httputil"
)

type Handler struct {
	service event.Service
}

func NewHandler(service event.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	events := r.Group("/events")
	{
		events.GET("", h.ListEvents)
	}
}

// RegisterStreamRoutes registers the SSE feed separately so the router
// can keep it outside the request-timeout middleware.
func (h *Handler) RegisterStreamRoutes(r *gin.RouterGroup) {
	r.GET("/events/stream", h.StreamEvents)
}

func (h *Handler) ListEvents(c *gin.Context) {
	authCtx, ok := middleware.MustAuth(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	events, err := h.service.List(c.Request.Context(), *authCtx, limit)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, events)
}

// StreamEvents pushes event inserts for the authenticated user as
// server-sent events until the client disconnects.
func (h *Handler) StreamEvents(c *gin.Context) {
	authCtx, ok := middleware.MustAuth(c)
	if !ok {
		return
	}

	feed, err := h.service.Subscribe(c.Request.Context(), *authCtx)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case msg, open := <-feed:
			if !open {
				return false
			}
			c.SSEvent("event", string(msg))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
