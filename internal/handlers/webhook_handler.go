package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mreyesc/parkeo/internal/helpers"
	"github.com/mreyesc/parkeo/internal/middleware"
)

// WebhookOrder is the gateway's notification body. Deliveries are
// at-least-once; the reconciler makes replays harmless.
type WebhookOrder struct {
	OrderID     string `json:"order_id" binding:"required"`
	ReferenceID string `json:"reference_id" binding:"required"`
	Status      string `json:"status"`
	McCode      string `json:"mc_code"`
}

// WebhookValidation acknowledges order creation. Always 200: there is
// nothing to reconcile yet.
func WebhookValidation(c *gin.Context) {
	var order WebhookOrder
	if err := c.ShouldBindJSON(&order); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid webhook payload.")
		return
	}

	log.Printf("webhook validation: order_id=%s reference_id=%s", order.OrderID, order.ReferenceID)
	c.JSON(http.StatusOK, order)
}

func WebhookConfirm(c *gin.Context) {
	var order WebhookOrder
	if err := c.ShouldBindJSON(&order); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid webhook payload.")
		return
	}

	reconciler := middleware.GetPaymentReconciler(c)
	if err := reconciler.Authenticate(c.GetHeader("Apikey"), order.ReferenceID, order.OrderID); err != nil {
		helpers.RespondWithAppError(c, err)
		return
	}

	if err := reconciler.Confirm(c.Request.Context(), order.OrderID, order.McCode, time.Now()); err != nil {
		// Non-2xx invites a gateway retry, which is what we want for
		// unexpected store failures.
		helpers.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

func WebhookReject(c *gin.Context) {
	var order WebhookOrder
	if err := c.ShouldBindJSON(&order); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid webhook payload.")
		return
	}

	reconciler := middleware.GetPaymentReconciler(c)
	if err := reconciler.Authenticate(c.GetHeader("Apikey"), order.ReferenceID, order.OrderID); err != nil {
		helpers.RespondWithAppError(c, err)
		return
	}

	if err := reconciler.Reject(c.Request.Context(), order.OrderID, time.Now()); err != nil {
		helpers.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

func WebhookHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
