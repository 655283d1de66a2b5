package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mreyesc/parkeo/internal/helpers"
	"github.com/mreyesc/parkeo/internal/middleware"
	"github.com/mreyesc/parkeo/internal/models"
	"github.com/mreyesc/parkeo/internal/payment"
	"github.com/stretchr/testify/assert"
)

const webhookSecret = "test-secret"

// recordingStore accepts every delivery and remembers what arrived.
type recordingStore struct {
	confirmed []string
	rejected  []string
	known     map[string]bool
}

func (s *recordingStore) ConfirmPayment(orderID, mcCode string, now time.Time) (payment.ConfirmResult, error) {
	s.confirmed = append(s.confirmed, orderID)
	if !s.known[orderID] {
		return payment.ConfirmResult{}, nil
	}
	return payment.ConfirmResult{
		Found:   true,
		Applied: true,
		Payment: &models.Payment{ID: uuid.New(), OrderID: orderID, Amount: 1880},
	}, nil
}

func (s *recordingStore) RejectPayment(orderID string, now time.Time) (payment.RejectResult, error) {
	s.rejected = append(s.rejected, orderID)
	return payment.RejectResult{Found: s.known[orderID], Applied: s.known[orderID]}, nil
}

func webhookRouter(store *recordingStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	reconciler := &payment.Reconciler{Store: store, Secret: webhookSecret}

	r := gin.New()
	r.Use(middleware.PaymentMiddleware(nil, reconciler))
	r.POST("/v1/webhooks/klap/validation", WebhookValidation)
	r.POST("/v1/webhooks/klap/confirm", WebhookConfirm)
	r.POST("/v1/webhooks/klap/reject", WebhookReject)
	r.GET("/v1/webhooks/health", WebhookHealth)
	return r
}

func postWebhook(r *gin.Engine, path string, order WebhookOrder, apikey string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(order)
	req, _ := http.NewRequest("POST", path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	if apikey != "" {
		req.Header.Set("Apikey", apikey)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestWebhookConfirmAuthenticated(t *testing.T) {
	store := &recordingStore{known: map[string]bool{"ord_1": true}}
	r := webhookRouter(store)

	order := WebhookOrder{OrderID: "ord_1", ReferenceID: "ORDER-1-ref", Status: "completed", McCode: "MC123"}
	key := helpers.WebhookApikey(order.ReferenceID, order.OrderID, webhookSecret)

	w := postWebhook(r, "/v1/webhooks/klap/confirm", order, key)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"ord_1"}, store.confirmed)
	assert.Contains(t, w.Body.String(), "ord_1")
}

func TestWebhookConfirmBadApikey(t *testing.T) {
	store := &recordingStore{known: map[string]bool{"ord_1": true}}
	r := webhookRouter(store)

	order := WebhookOrder{OrderID: "ord_1", ReferenceID: "ORDER-1-ref"}

	w := postWebhook(r, "/v1/webhooks/klap/confirm", order, "forged")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, store.confirmed, "an unauthenticated delivery must not reach the store")

	w = postWebhook(r, "/v1/webhooks/klap/confirm", order, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWebhookConfirmUnknownOrderStill200(t *testing.T) {
	store := &recordingStore{known: map[string]bool{}}
	r := webhookRouter(store)

	order := WebhookOrder{OrderID: "ord_missing", ReferenceID: "ORDER-x-ref"}
	key := helpers.WebhookApikey(order.ReferenceID, order.OrderID, webhookSecret)

	w := postWebhook(r, "/v1/webhooks/klap/confirm", order, key)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWebhookConfirmMissingFields(t *testing.T) {
	r := webhookRouter(&recordingStore{known: map[string]bool{}})

	req, _ := http.NewRequest("POST", "/v1/webhooks/klap/confirm", bytes.NewBufferString(`{"status":"completed"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhookReject(t *testing.T) {
	store := &recordingStore{known: map[string]bool{"ord_1": true}}
	r := webhookRouter(store)

	order := WebhookOrder{OrderID: "ord_1", ReferenceID: "ORDER-1-ref", Status: "rejected"}
	key := helpers.WebhookApikey(order.ReferenceID, order.OrderID, webhookSecret)

	w := postWebhook(r, "/v1/webhooks/klap/reject", order, key)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"ord_1"}, store.rejected)
}

func TestWebhookValidationNoAuth(t *testing.T) {
	r := webhookRouter(&recordingStore{known: map[string]bool{}})

	order := WebhookOrder{OrderID: "ord_1", ReferenceID: "ORDER-1-ref"}
	w := postWebhook(r, "/v1/webhooks/klap/validation", order, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWebhookHealth(t *testing.T) {
	r := webhookRouter(&recordingStore{known: map[string]bool{}})

	req, _ := http.NewRequest("GET", "/v1/webhooks/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}
