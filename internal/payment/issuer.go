package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mreyesc/parkeo/internal/apperr"
	"github.com/mreyesc/parkeo/internal/models"
	"github.com/mreyesc/parkeo/internal/pricing"
)

// DefaultLinkTTL is how long a payment link stays redeemable.
const DefaultLinkTTL = 5 * time.Minute

// SessionSource resolves the PARKED session behind a plate and quotes
// what it owes. *parking.Manager satisfies it.
type SessionSource interface {
	ParkedByPlate(plate string) (*models.ParkingSession, error)
	QuoteDue(session *models.ParkingSession, now time.Time) (pricing.Quote, error)
}

// LinkStore persists payments and their links. CreatePaymentWithLink
// and RenewPayment are all-or-nothing; Redeem atomically flips is_used
// so two concurrent openers cannot both succeed.
type LinkStore interface {
	PendingBySession(sessionID uuid.UUID) (*models.Payment, error)
	CreatePaymentWithLink(payment *models.Payment, link *models.PaymentLink) error
	RenewPayment(paymentID uuid.UUID, orderID, referenceID string, amount int, link *models.PaymentLink) error
	Redeem(code string, now time.Time) (*models.PaymentLink, error)
}

type Issuer struct {
	Sessions SessionSource
	Store    LinkStore
	Gateway  Gateway
	BaseURL  string
	LinkTTL  time.Duration
}

// Link is what the messaging collaborator hands to the payer.
type Link struct {
	PaymentURL string    `json:"payment_url"`
	Amount     int       `json:"amount"`
	LinkCode   string    `json:"link_code"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// IssueLink quotes the vehicle's open session, creates a gateway order
// and persists a PENDING payment with a fresh single-use link. If the
// session already carries a PENDING payment the call renews it instead:
// a session has exactly one open financial obligation.
func (i *Issuer) IssueLink(ctx context.Context, plate string, now time.Time) (Link, error) {
	session, err := i.Sessions.ParkedByPlate(plate)
	if err != nil {
		return Link{}, err
	}

	pending, err := i.Store.PendingBySession(session.ID)
	if err != nil {
		return Link{}, err
	}
	if pending != nil {
		return i.renew(ctx, session, pending, now)
	}

	quote, err := i.Sessions.QuoteDue(session, now)
	if err != nil {
		return Link{}, err
	}
	order, err := i.createOrder(ctx, session, quote.Amount)
	if err != nil {
		return Link{}, err
	}

	payment := &models.Payment{
		ID:          uuid.New(),
		OrderID:     order.OrderID,
		ReferenceID: order.ReferenceID,
		Amount:      quote.Amount,
		Status:      models.PaymentPending,
		SessionID:   session.ID,
	}
	link := i.newLink(payment, now)
	if err := i.Store.CreatePaymentWithLink(payment, link); err != nil {
		return Link{}, err
	}
	return i.result(link, quote.Amount), nil
}

// RenewLink re-quotes the session (time has passed, the amount likely
// grew) and refreshes the gateway order and link of its existing
// PENDING payment. It never forks the debt into a second payment.
func (i *Issuer) RenewLink(ctx context.Context, plate string, now time.Time) (Link, error) {
	session, err := i.Sessions.ParkedByPlate(plate)
	if err != nil {
		return Link{}, err
	}
	pending, err := i.Store.PendingBySession(session.ID)
	if err != nil {
		return Link{}, err
	}
	if pending == nil {
		return Link{}, apperr.NotFound("pending payment for session")
	}
	return i.renew(ctx, session, pending, now)
}

func (i *Issuer) renew(ctx context.Context, session *models.ParkingSession, pending *models.Payment, now time.Time) (Link, error) {
	quote, err := i.Sessions.QuoteDue(session, now)
	if err != nil {
		return Link{}, err
	}
	order, err := i.createOrder(ctx, session, quote.Amount)
	if err != nil {
		return Link{}, err
	}

	link := i.newLink(pending, now)
	if err := i.Store.RenewPayment(pending.ID, order.OrderID, order.ReferenceID, quote.Amount, link); err != nil {
		return Link{}, err
	}
	return i.result(link, quote.Amount), nil
}

// Checkout redeems a link code for the checkout render data. The link
// is marked used atomically before the payer sees the form; expired and
// already-used links are gone, not retriable.
func (i *Issuer) Checkout(code string, now time.Time) (*models.PaymentLink, error) {
	return i.Store.Redeem(code, now)
}

func (i *Issuer) createOrder(ctx context.Context, session *models.ParkingSession, amount int) (Order, error) {
	plate := ""
	if session.Vehicle != nil && session.Vehicle.LicensePlate != nil {
		plate = *session.Vehicle.LicensePlate
	}
	return i.Gateway.CreateOrder(ctx, OrderRequest{
		Amount:       amount,
		Description:  fmt.Sprintf("Parking fee - %s", plate),
		LicensePlate: plate,
	})
}

func (i *Issuer) newLink(payment *models.Payment, now time.Time) *models.PaymentLink {
	ttl := i.LinkTTL
	if ttl <= 0 {
		ttl = DefaultLinkTTL
	}
	return &models.PaymentLink{
		LinkCode:  uuid.NewString(),
		ExpiresAt: now.Add(ttl),
		PaymentID: payment.ID,
	}
}

func (i *Issuer) result(link *models.PaymentLink, amount int) Link {
	return Link{
		PaymentURL: fmt.Sprintf("%s/v1/payments/checkout?code=%s", i.BaseURL, link.LinkCode),
		Amount:     amount,
		LinkCode:   link.LinkCode,
		ExpiresAt:  link.ExpiresAt,
	}
}
