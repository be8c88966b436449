package handler

import (
	"errors"
	"net/http"
	"strconv"

	"go-gin-events/internal/model"
	"go-gin-events/internal/service"
	apperrors "go-gin-events/pkg/app_errors"
	"go-gin-events/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type EventHandler struct {
	service service.EventService
}

func NewEventHandler(service service.EventService) *EventHandler {
	return &EventHandler{service: service}
}

func (h *EventHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.GET("events", h.FetchAll)
		router.POST("events", h.Add)
		router.PUT("events/:id", h.Update)
		router.DELETE("events/:id", h.Delete)
	}
}

// AddEventRequest 新增活動請求，欄位驗證交給 store
type AddEventRequest struct {
	Name        string `json:"name"`
	Date        string `json:"date"`
	Description string `json:"description"`
}

// UpdateEventRequest 更新活動請求，只送出有帶的欄位
type UpdateEventRequest struct {
	Name        *string `json:"name"`
	Date        *string `json:"date"`
	Description *string `json:"description"`
}

func (h *EventHandler) FetchAll(c *gin.Context) {
	events, err := h.service.FetchAll(c)
	if err != nil {
		h.handleError(c, err, "FetchAll")
		return
	}
	c.JSON(http.StatusOK, events)
}

func (h *EventHandler) Add(c *gin.Context) {
	var req AddEventRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	data, err := h.service.Add(c, model.NewEvent{
		Name:        req.Name,
		Date:        req.Date,
		Description: req.Description,
	})
	if err != nil {
		h.handleError(c, err, "Add")
		return
	}
	writeRaw(c, http.StatusCreated, data)
}

func (h *EventHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		h.handleError(c, apperrors.ErrInvalidInput, "Update")
		return
	}
	var req UpdateEventRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	data, err := h.service.Update(c, model.UpdateEventParams{
		ID:          id,
		Name:        req.Name,
		Date:        req.Date,
		Description: req.Description,
	})
	if err != nil {
		h.handleError(c, err, "Update")
		return
	}
	writeRaw(c, http.StatusOK, data)
}

func (h *EventHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		h.handleError(c, apperrors.ErrInvalidInput, "Delete")
		return
	}
	data, err := h.service.Delete(c, id)
	if err != nil {
		h.handleError(c, err, "Delete")
		return
	}
	writeRaw(c, http.StatusOK, data)
}

func (h *EventHandler) handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(
		zap.String("operation", operation),
		zap.String("request_id", c.GetString("request_id")),
		zap.Error(err),
	)
	switch {
	case errors.Is(err, apperrors.ErrInvalidInput):
		log.Warn("Invalid input")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
	case errors.Is(err, apperrors.ErrRemoteQuery), errors.Is(err, apperrors.ErrRemoteWrite):
		log.Warn("Remote store error")
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
