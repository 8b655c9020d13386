package contact

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vertiguard/vertiguard-api/internal/middleware"
	"github.com/vertiguard/vertiguard-api/internal/model"
	"github.com/vertiguard/vertiguard-api/internal/service/contact"
	"github.com/vertiguard/vertiguard-api/pkg/errors"
	"github.com/vertiguard/vertiguard-api/pkg/httputil"
)

type Handler struct {
	service contact.Service
}

func NewHandler(service contact.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	contacts := r.Group("/contacts")
	{
		contacts.POST("", h.CreateContact)
		contacts.GET("", h.ListContacts)
		contacts.DELETE("/:id", h.DeleteContact)
	}
}

func (h *Handler) CreateContact(c *gin.Context) {
	authCtx, ok := middleware.MustAuth(c)
	if !ok {
		return
	}

	var req model.CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.InvalidInput(err.Error(), err))
		return
	}

	created, err := h.service.Create(c.Request.Context(), *authCtx, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, created)
}

func (h *Handler) ListContacts(c *gin.Context) {
	authCtx, ok := middleware.MustAuth(c)
	if !ok {
		return
	}

	contacts, err := h.service.List(c.Request.Context(), *authCtx)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, contacts)
}

func (h *Handler) DeleteContact(c *gin.Context) {
	authCtx, ok := middleware.MustAuth(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.InvalidInput("invalid contact ID", err))
		return
	}

	if err := h.service.Delete(c.Request.Context(), *authCtx, id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, gin.H{"deleted": id})
}
