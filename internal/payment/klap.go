package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/mreyesc/parkeo/internal/apperr"
)

// Klap is the card-gateway client. Orders are created against the
// hosted checkout; payment results come back asynchronously through
// the webhook endpoints named in each order.
type Klap struct {
	BaseURL       string
	APIKey        string
	AppURL        string
	MerchantEmail string
	Client        *http.Client
}

func NewKlap(baseURL, apiKey, appURL, merchantEmail string) *Klap {
	return &Klap{
		BaseURL:       baseURL,
		APIKey:        apiKey,
		AppURL:        appURL,
		MerchantEmail: merchantEmail,
		Client:        &http.Client{Timeout: 30 * time.Second},
	}
}

func (k *Klap) CreateOrder(ctx context.Context, req OrderRequest) (Order, error) {
	if req.Amount <= 0 {
		return Order{}, apperr.Validation("order amount must be positive")
	}

	referenceID := newReferenceID()
	email := req.Email
	if email == "" {
		email = "cliente@parkeo.cl"
	}

	orderBody := map[string]interface{}{
		"reference_id": referenceID,
		"description":  req.Description,
		"methods":      []string{"tarjetas"},
		"amount": map[string]interface{}{
			"currency": "CLP",
			"total":    req.Amount,
		},
		"user": map[string]interface{}{
			"email": email,
		},
		"urls": map[string]interface{}{
			"return_url": k.AppURL + "/v1/payments/success",
			"cancel_url": k.AppURL + "/v1/payments/cancel",
		},
		"webhooks": map[string]interface{}{
			"webhook_confirm": k.AppURL + "/v1/webhooks/klap/confirm",
			"webhook_reject":  k.AppURL + "/v1/webhooks/klap/reject",
		},
		"customs": []map[string]string{
			{"key": "tarjetas_expiration_minutes", "value": "30"},
			{"key": "notify_payment_user", "value": "true"},
			{"key": "notify_payment_merchant", "value": "true"},
			{"key": "notify_payment_email_merchant", "value": k.MerchantEmail},
			{"key": "tarjetas_delivery_type", "value": "4"},
		},
	}

	jsonBody, err := json.Marshal(orderBody)
	if err != nil {
		return Order{}, apperr.Internal(err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, k.BaseURL+"/orders", bytes.NewBuffer(jsonBody))
	if err != nil {
		return Order{}, apperr.Internal(err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Apikey", k.APIKey)

	resp, err := k.Client.Do(httpReq)
	if err != nil {
		return Order{}, apperr.Gateway("payment order could not be created", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Order{}, apperr.Gateway("payment order could not be created", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		log.Printf("klap order rejected: status=%d body=%s", resp.StatusCode, body)
		return Order{}, apperr.Gateway("payment order could not be created",
			fmt.Errorf("gateway returned status %d", resp.StatusCode))
	}

	var result struct {
		OrderID     string `json:"order_id"`
		ReferenceID string `json:"reference_id"`
		RedirectURL string `json:"redirect_url"`
		Status      string `json:"status"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return Order{}, apperr.Gateway("payment order response could not be parsed", err)
	}

	log.Printf("klap order created: order_id=%s reference_id=%s", result.OrderID, result.ReferenceID)
	return Order{
		OrderID:     result.OrderID,
		ReferenceID: result.ReferenceID,
		RedirectURL: result.RedirectURL,
		Status:      result.Status,
	}, nil
}

// newReferenceID keeps the ORDER-<millis>-<suffix> shape so records
// line up with the gateway dashboard.
func newReferenceID() string {
	return fmt.Sprintf("ORDER-%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}
