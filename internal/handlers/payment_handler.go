package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mreyesc/parkeo/internal/helpers"
	"github.com/mreyesc/parkeo/internal/middleware"
	"github.com/mreyesc/parkeo/internal/models"
	"github.com/mreyesc/parkeo/internal/store"
	"gorm.io/gorm"
)

type PaymentLinkRequest struct {
	LicensePlate string `json:"license_plate" binding:"required"`
}

func CreatePaymentLink(c *gin.Context) {
	var req PaymentLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	issuer := middleware.GetPaymentIssuer(c)
	link, err := issuer.IssueLink(c.Request.Context(), req.LicensePlate, time.Now())
	if err != nil {
		helpers.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, link)
}

func RenewPaymentLink(c *gin.Context) {
	var req PaymentLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	issuer := middleware.GetPaymentIssuer(c)
	link, err := issuer.RenewLink(c.Request.Context(), req.LicensePlate, time.Now())
	if err != nil {
		helpers.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, link)
}

// Checkout redeems a link code and returns the data the hosted payment
// page is rendered from. The link is consumed on first success; a
// reload lands on 410 and the payer must renew.
func Checkout(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		helpers.RespondWithError(c, http.StatusBadRequest, "Missing link code.")
		return
	}

	issuer := middleware.GetPaymentIssuer(c)
	link, err := issuer.Checkout(code, time.Now())
	if err != nil {
		helpers.RespondWithAppError(c, err)
		return
	}

	payment := link.Payment
	response := gin.H{
		"order_id":     payment.OrderID,
		"reference_id": payment.ReferenceID,
		"amount":       payment.Amount,
	}
	if session := payment.Session; session != nil {
		response["arrival_time"] = session.ArrivalTime
		if session.Vehicle != nil && session.Vehicle.LicensePlate != nil {
			response["license_plate"] = *session.Vehicle.LicensePlate
		}
		if session.ParkingLot != nil {
			response["parking_lot"] = session.ParkingLot.Name
		}
	}

	c.JSON(http.StatusOK, response)
}

// PaymentLinkQR renders a scan-to-pay QR for a still-valid link without
// consuming it.
func PaymentLinkQR(c *gin.Context) {
	code := c.Param("code")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	link, err := store.Payments{DB: gormDB}.LinkByCode(code)
	if err != nil {
		helpers.RespondWithAppError(c, err)
		return
	}
	if !link.Redeemable(time.Now()) {
		helpers.RespondWithError(c, http.StatusGone, "Payment link is no longer valid.")
		return
	}

	issuer := middleware.GetPaymentIssuer(c)
	url := fmt.Sprintf("%s/v1/payments/checkout?code=%s", issuer.BaseURL, link.LinkCode)
	png, err := helpers.EncodeURLQR(url, 256)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to generate QR code.")
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

// PaymentSuccess and PaymentCancel are the gateway's return URLs; state
// is driven solely by the webhooks, these only tell the payer.
func PaymentSuccess(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Your payment has been processed."})
}

func PaymentCancel(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Payment was cancelled. Request a new link to retry."})
}

func ListPayments(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	query := gormDB.Preload("Session.Vehicle")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var payments []models.Payment
	if err := query.Order("created_at DESC").Find(&payments).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving payments.")
		return
	}

	c.JSON(http.StatusOK, payments)
}
