package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/mreyesc/parkeo/internal/payment"
)

func PaymentMiddleware(issuer *payment.Issuer, reconciler *payment.Reconciler) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("payment_issuer", issuer)
		c.Set("payment_reconciler", reconciler)
		c.Next()
	}
}

func GetPaymentIssuer(c *gin.Context) *payment.Issuer {
	issuer, exists := c.Get("payment_issuer")
	if !exists {
		return nil
	}
	return issuer.(*payment.Issuer)
}

func GetPaymentReconciler(c *gin.Context) *payment.Reconciler {
	reconciler, exists := c.Get("payment_reconciler")
	if !exists {
		return nil
	}
	return reconciler.(*payment.Reconciler)
}
