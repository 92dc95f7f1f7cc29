package contest

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"contesthub/internal/domain"
	"contesthub/internal/middleware"
	"contesthub/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes mounts the read-only listing routes.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	contests := rg.Group("/contests")
	{
		contests.GET("", h.List)
		contests.GET("/by-timeline", h.ByTimeline)
		contests.GET("/:id", h.Get)
	}
}

// RegisterRoutes mounts the authenticated contest routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	contests := rg.Group("/contests")
	{
		contests.POST("", middleware.CreatorOnly(), h.Create)
		contests.GET("/mine", middleware.CreatorOnly(), h.Mine)
		contests.PATCH("/:id", h.Update)
		contests.DELETE("/:id", h.Delete)
	}
}

// RegisterAdminRoutes mounts the review routes.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	contests := rg.Group("/contests")
	{
		contests.GET("/pending", h.ListPending)
		contests.PATCH("/:id/status", h.UpdateStatus)
	}
}

func (h *Handler) Create(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	var req CreateContestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	contest, err := h.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, NewContestView(*contest, time.Now()))
}

func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid contest ID")
		return
	}

	contest, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, NewContestView(*contest, time.Now()))
}

func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	q := ListQuery{
		Category: c.Query("type"),
		Timeline: c.Query("timeline"),
		Search:   c.Query("search"),
		Page:     page,
		Limit:    limit,
	}

	contests, total, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Paginated(c, http.StatusOK, NewContestViews(contests, time.Now()), page, limit, total)
}

func (h *Handler) ByTimeline(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	buckets, err := h.service.ByTimeline(c.Request.Context(), limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, buckets)
}

func (h *Handler) Mine(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	contests, total, err := h.service.Mine(c.Request.Context(), c.GetInt64("user_id"), page, limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Paginated(c, http.StatusOK, NewContestViews(contests, time.Now()), page, limit, total)
}

func (h *Handler) ListPending(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	contests, total, err := h.service.ListPending(c.Request.Context(), page, limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Paginated(c, http.StatusOK, NewContestViews(contests, time.Now()), page, limit, total)
}

func (h *Handler) Update(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid contest ID")
		return
	}

	var req UpdateContestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	contest, err := h.service.Update(c.Request.Context(), id, actor, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, NewContestView(*contest, time.Now()))
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid contest ID")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	contest, err := h.service.UpdateStatus(c.Request.Context(), id, domain.ContestStatus(req.Status))
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, NewContestView(*contest, time.Now()))
}

func (h *Handler) Delete(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid contest ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, actor); err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Contest not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrNotEditable):
		response.Error(c, http.StatusBadRequest, "INVALID_STATE", err.Error())
	default:
		c.Error(err) //nolint:errcheck
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal server error")
	}
}
