package submission

import (
	"errors"
	"net/http"
	"strconv"

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

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	subs := rg.Group("/submissions")
	{
		subs.POST("", h.Submit)
		subs.GET("/mine", h.ListMine)
		subs.POST("/:id/declare-winner", h.DeclareWinner)
	}
	rg.GET("/contests/:id/submissions", h.ListByContest)
	rg.GET("/contests/:id/winners", h.Winners)
}

// RegisterAdminRoutes mounts the manual reconciliation trigger.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/reconcile", h.Reconcile)
}

func (h *Handler) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	sub, err := h.service.Submit(c.Request.Context(), req.ContestID, c.GetInt64("user_id"), req.Content)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, NewSubmissionView(sub))
}

func (h *Handler) ListMine(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	subs, total, err := h.service.ListMine(c.Request.Context(), c.GetInt64("user_id"), page, limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Paginated(c, http.StatusOK, NewSubmissionViews(subs), page, limit, total)
}

func (h *Handler) ListByContest(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	contestID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid contest ID")
		return
	}

	subs, err := h.service.ListByContest(c.Request.Context(), contestID, actor)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, NewSubmissionViews(subs))
}

func (h *Handler) Winners(c *gin.Context) {
	contestID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid contest ID")
		return
	}

	winners, err := h.service.Winners(c.Request.Context(), contestID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, NewWinnerViews(winners))
}

func (h *Handler) DeclareWinner(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid submission ID")
		return
	}

	var req DeclareWinnerRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	winners, err := h.service.DeclareWinner(c.Request.Context(), actor, id, req.RunnerUpIDs)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, NewWinnerViews(winners))
}

func (h *Handler) Reconcile(c *gin.Context) {
	settled, err := h.service.Reconcile(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"settled": settled})
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, ErrAlreadySubmitted), errors.Is(err, ErrAlreadyDeclared):
		response.Error(c, http.StatusConflict, "CONFLICT", err.Error())
	case errors.Is(err, ErrNotRegistered),
		errors.Is(err, ErrDeadlinePassed),
		errors.Is(err, ErrTooEarly),
		errors.Is(err, ErrInvalidState),
		errors.Is(err, ErrBadRunnerUp):
		response.Error(c, http.StatusBadRequest, "INVALID_STATE", err.Error())
	default:
		c.Error(err) //nolint:errcheck
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal server error")
	}
}
