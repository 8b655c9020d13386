package monitor

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vertiguard/vertiguard-api/internal/middleware"
	"github.com/vertiguard/vertiguard-api/internal/model"
	"github.com/vertiguard/vertiguard-api/internal/sensor"
	"github.com/vertiguard/vertiguard-api/internal/service/event"
	"github.com/vertiguard/vertiguard-api/internal/service/monitor"
	"github.com/vertiguard/vertiguard-api/internal/service/notifier"
	"github.com/vertiguard/vertiguard-api/pkg/errors"
	"github.com/vertiguard/vertiguard-api/pkg/httputil"
)

// CycleRequest carries either a raw sensor window or a request to
// simulate one ("fall" or "normal").
type CycleRequest struct {
	SensorWindow model.SensorWindow `json:"sensor_window"`
	Simulate     string             `json:"simulate" binding:"omitempty,oneof=fall normal"`
}

type Handler struct {
	monitorSvc  monitor.Service
	notifierSvc notifier.Service
	eventSvc    event.Service
}

func NewHandler(monitorSvc monitor.Service, notifierSvc notifier.Service, eventSvc event.Service) *Handler {
	return &Handler{
		monitorSvc:  monitorSvc,
		notifierSvc: notifierSvc,
		eventSvc:    eventSvc,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	mon := r.Group("/monitor")
	{
		mon.POST("/cycle", h.RunCycle)
		mon.GET("/status", h.GetStatus)
	}
	r.POST("/alerts/manual", h.ManualAlert)
	r.POST("/notify", h.NotifyContacts)
}

func (h *Handler) RunCycle(c *gin.Context) {
	authCtx, ok := middleware.MustAuth(c)
	if !ok {
		return
	}

	var req CycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.InvalidInput(err.Error(), err))
		return
	}

	window := req.SensorWindow
	if len(window) == 0 {
		switch req.Simulate {
		case "fall":
			window = sensor.MockFallWindow()
		case "normal":
			window = sensor.MockNormalWindow()
		default:
			httputil.RespondWithError(c, errors.InvalidInput("provide sensor_window or simulate", nil))
			return
		}
	}

	result, err := h.monitorSvc.RunCycle(c.Request.Context(), *authCtx, window)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, result)
}

func (h *Handler) ManualAlert(c *gin.Context) {
	authCtx, ok := middleware.MustAuth(c)
	if !ok {
		return
	}

	result, err := h.monitorSvc.ManualAlert(c.Request.Context(), *authCtx)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, result)
}

func (h *Handler) GetStatus(c *gin.Context) {
	authCtx, ok := middleware.MustAuth(c)
	if !ok {
		return
	}

	httputil.RespondWithSuccess(c, gin.H{"status": h.monitorSvc.Status(*authCtx)})
}

// NotifyContacts re-runs the fan-out for an existing event. The event
// must belong to the acting user; delivery is best-effort and a second
// call resends to everyone.
func (h *Handler) NotifyContacts(c *gin.Context) {
	authCtx, ok := middleware.MustAuth(c)
	if !ok {
		return
	}

	var req model.NotifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.InvalidInput(err.Error(), err))
		return
	}

	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		httputil.RespondWithError(c, errors.InvalidInput("invalid event ID", err))
		return
	}

	recorded, err := h.eventSvc.Get(c.Request.Context(), *authCtx, eventID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	result, err := h.notifierSvc.Notify(c.Request.Context(), *authCtx, recorded.EventType, recorded.ID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	message := ""
	if result.NoContacts {
		message = "No emergency contacts configured"
	}
	httputil.RespondWithSuccess(c, gin.H{
		"notified": result.Delivered,
		"total":    result.Total,
		"message":  message,
	})
}
