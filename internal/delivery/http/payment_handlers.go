package http

import (
	"io"
	"net/http"
	"strconv"

	"intellilearn-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

// ========== PAYMENT HANDLERS ==========

// ProcessPayment opens a gateway payment intent; the webhook settles it.
func (h *Handler) ProcessPayment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondErr(c, domain.NewUnauthorized(err.Error()))
		return
	}

	var req domain.ProcessPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}

	payment, intent, err := h.PaymentUsecase.ProcessGateway(c.Request.Context(), userID, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondCreated(c, gin.H{"payment": payment, "client_secret": intent.ClientSecret})
}

// PaymentWebhook settles payments from gateway callbacks. The signature is
// computed over the raw body, so it is read before any binding.
func (h *Handler) PaymentWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondErr(c, domain.NewValidation("unreadable payload"))
		return
	}
	signature := c.GetHeader("X-Webhook-Signature")

	if err := h.PaymentUsecase.HandleWebhook(c.Request.Context(), payload, signature); err != nil {
		respondErr(c, err)
		return
	}
	respondMessage(c, "Webhook processed")
}

// SimpleProcessPayment settles a demo payment synchronously.
func (h *Handler) SimpleProcessPayment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondErr(c, domain.NewUnauthorized(err.Error()))
		return
	}

	var req domain.ProcessPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}

	payment, err := h.PaymentUsecase.SimpleProcess(c.Request.Context(), userID, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondCreated(c, payment)
}

func (h *Handler) RedeemPoints(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondErr(c, domain.NewUnauthorized(err.Error()))
		return
	}

	var req struct {
		CourseID string `json:"course_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}
	courseID, err := hexID(req.CourseID, "course_id")
	if err != nil {
		respondErr(c, err)
		return
	}

	payment, err := h.PaymentUsecase.RedeemPoints(c.Request.Context(), userID, courseID)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondCreated(c, payment)
}

func (h *Handler) RefundPayment(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondErr(c, domain.NewValidation("invalid payment id"))
		return
	}

	payment, err := h.PaymentUsecase.Refund(c.Request.Context(), actor(c), uint(id))
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, payment)
}

func (h *Handler) PaymentHistory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondErr(c, domain.NewUnauthorized(err.Error()))
		return
	}

	payments, err := h.PaymentUsecase.History(c.Request.Context(), userID)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondList(c, payments, len(payments))
}

func (h *Handler) ListAllPayments(c *gin.Context) {
	payments, err := h.PaymentUsecase.ListAll(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	respondList(c, payments, len(payments))
}

func (h *Handler) GetPayment(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondErr(c, domain.NewValidation("invalid payment id"))
		return
	}

	payment, err := h.PaymentUsecase.Get(c.Request.Context(), actor(c), uint(id))
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, payment)
}
