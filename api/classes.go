package api

import (
	"net/http"
	"strconv"

	"github.com/Domenick1991/gymbooking/internal/domain"
	"github.com/Domenick1991/gymbooking/internal/repository"
	"github.com/Domenick1991/gymbooking/internal/service/classes"
	"github.com/gin-gonic/gin"
)

type ClassHandler struct {
	service classes.ClassUseCase
}

type classRequest struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	Type            string `json:"type"`
	Level           string `json:"level"`
	Trainer         string `json:"trainer"`
	Capacity        int    `json:"capacity"`
	Day             string `json:"day"`
	StartTime       string `json:"start_time"`
	DurationMinutes int    `json:"duration_minutes"`
	Location        string `json:"location"`
	PriceCents      int64  `json:"price_cents"`
	IsActive        *bool  `json:"is_active"`
}

type statusRequest struct {
	IsActive bool `json:"is_active"`
}

func NewClassHandler(service classes.ClassUseCase) *ClassHandler {
	return &ClassHandler{service: service}
}

func (h *ClassHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
	router.GET("/:id", h.get)
	router.POST("/", h.create)
	router.PUT("/:id", h.update)
	router.PUT("/:id/status", h.setStatus)
	router.DELETE("/:id", h.remove)
}

func (h *ClassHandler) list(c *gin.Context) {
	filter := repository.ClassFilter{
		Type:       c.Query("type"),
		Level:      c.Query("level"),
		Trainer:    c.Query("trainer"),
		Day:        c.Query("day"),
		ActiveOnly: c.Query("active") == "true",
	}
	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *ClassHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	class, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, class)
}

func (h *ClassHandler) create(c *gin.Context) {
	if !actorFrom(c).Admin {
		respondError(c, domain.ErrForbidden)
		return
	}
	var req classRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	class := req.toClass()
	if err := h.service.Create(c.Request.Context(), class); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, class)
}

func (h *ClassHandler) update(c *gin.Context) {
	if !actorFrom(c).Admin {
		respondError(c, domain.ErrForbidden)
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req classRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	class := req.toClass()
	class.ID = id
	if err := h.service.Update(c.Request.Context(), class); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, class)
}

func (h *ClassHandler) setStatus(c *gin.Context) {
	if !actorFrom(c).Admin {
		respondError(c, domain.ErrForbidden)
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	class, err := h.service.SetActive(c.Request.Context(), id, req.IsActive)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, class)
}

func (h *ClassHandler) remove(c *gin.Context) {
	if !actorFrom(c).Admin {
		respondError(c, domain.ErrForbidden)
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "class removed"})
}

func (r classRequest) toClass() *domain.Class {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return &domain.Class{
		Name:        r.Name,
		Description: r.Description,
		Type:        r.Type,
		Level:       r.Level,
		Trainer:     r.Trainer,
		Capacity:    r.Capacity,
		Schedule: domain.Schedule{
			Day:             r.Day,
			StartTime:       r.StartTime,
			DurationMinutes: r.DurationMinutes,
		},
		Location:   r.Location,
		PriceCents: r.PriceCents,
		IsActive:   active,
	}
}
