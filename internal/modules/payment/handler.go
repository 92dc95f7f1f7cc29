package payment

import (
	"errors"
	"net/http"
	"strconv"

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
	payments := rg.Group("/payments")
	{
		payments.POST("/create-intent", h.CreateIntent)
		payments.POST("/confirm", h.Confirm)
		payments.POST("/withdraw", h.Withdraw)
		payments.GET("/mine", h.ListMine)
	}
}

func (h *Handler) CreateIntent(c *gin.Context) {
	var req CreateIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	res, err := h.service.CreateIntent(c.Request.Context(), req.ContestID, c.GetInt64("user_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *Handler) Confirm(c *gin.Context) {
	var req ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if !req.TestMode && req.PaymentIntentID == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "payment_intent_id is required")
		return
	}

	contest, err := h.service.Confirm(c.Request.Context(), req.ContestID, c.GetInt64("user_id"), req.PaymentIntentID, req.TestMode)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, contest)
}

func (h *Handler) Withdraw(c *gin.Context) {
	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	res, err := h.service.Withdraw(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *Handler) ListMine(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	payments, total, err := h.service.ListMine(c.Request.Context(), c.GetInt64("user_id"), page, limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Paginated(c, http.StatusOK, payments, page, limit, total)
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Contest not found")
	case errors.Is(err, ErrAlreadyRegistered):
		response.Error(c, http.StatusConflict, "ALREADY_REGISTERED", err.Error())
	case errors.Is(err, ErrInvalidState), errors.Is(err, ErrDeadlinePassed):
		response.Error(c, http.StatusBadRequest, "INVALID_STATE", err.Error())
	case errors.Is(err, ErrPaymentNotCompleted):
		response.Error(c, http.StatusBadRequest, "PAYMENT_NOT_COMPLETED", err.Error())
	case errors.Is(err, ErrBelowMinimum):
		response.Error(c, http.StatusBadRequest, "BELOW_MINIMUM", err.Error())
	case errors.Is(err, ErrInsufficientBalance):
		response.Error(c, http.StatusBadRequest, "INSUFFICIENT_BALANCE", err.Error())
	case errors.Is(err, ErrVerificationFailed):
		response.Error(c, http.StatusBadRequest, "VERIFICATION_FAILED", err.Error())
	default:
		c.Error(err) //nolint:errcheck
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal server error")
	}
}
