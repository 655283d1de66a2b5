package payment

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mreyesc/parkeo/internal/apperr"
	"github.com/mreyesc/parkeo/internal/models"
	"github.com/mreyesc/parkeo/internal/pricing"
	"github.com/stretchr/testify/assert"
)

type fakeGateway struct {
	orders int
	fail   bool
}

func (g *fakeGateway) CreateOrder(ctx context.Context, req OrderRequest) (Order, error) {
	if g.fail {
		return Order{}, apperr.Gateway("payment gateway unavailable", errors.New("dial tcp: refused"))
	}
	g.orders++
	return Order{
		OrderID:     fmt.Sprintf("ord_%d", g.orders),
		ReferenceID: fmt.Sprintf("ORDER-%d-ref", g.orders),
		RedirectURL: "https://gateway.example/pay",
		Status:      "created",
	}, nil
}

type fakeSessionSource struct {
	session *models.ParkingSession
	quote   pricing.Quote
}

func (s *fakeSessionSource) ParkedByPlate(plate string) (*models.ParkingSession, error) {
	if s.session == nil {
		return nil, apperr.NotFound("active session")
	}
	return s.session, nil
}

func (s *fakeSessionSource) QuoteDue(session *models.ParkingSession, now time.Time) (pricing.Quote, error) {
	return s.quote, nil
}

// fakeLinkStore mirrors the transactional store's observable rules:
// one PENDING payment per session, links single-use and expiring.
type fakeLinkStore struct {
	payments map[uuid.UUID]*models.Payment
	links    map[string]*models.PaymentLink
}

func newFakeLinkStore() *fakeLinkStore {
	return &fakeLinkStore{
		payments: map[uuid.UUID]*models.Payment{},
		links:    map[string]*models.PaymentLink{},
	}
}

func (f *fakeLinkStore) PendingBySession(sessionID uuid.UUID) (*models.Payment, error) {
	for _, p := range f.payments {
		if p.SessionID == sessionID && p.Status == models.PaymentPending {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakeLinkStore) CreatePaymentWithLink(payment *models.Payment, link *models.PaymentLink) error {
	f.payments[payment.ID] = payment
	link.PaymentID = payment.ID
	f.links[link.LinkCode] = link
	return nil
}

func (f *fakeLinkStore) RenewPayment(paymentID uuid.UUID, orderID, referenceID string, amount int, link *models.PaymentLink) error {
	p, ok := f.payments[paymentID]
	if !ok || p.Status != models.PaymentPending {
		return apperr.Conflict("payment is no longer pending")
	}
	p.OrderID = orderID
	p.ReferenceID = referenceID
	p.Amount = amount
	for _, old := range f.links {
		if old.PaymentID == paymentID && !old.IsUsed {
			old.IsUsed = true
		}
	}
	link.PaymentID = paymentID
	f.links[link.LinkCode] = link
	return nil
}

func (f *fakeLinkStore) Redeem(code string, now time.Time) (*models.PaymentLink, error) {
	link, ok := f.links[code]
	if !ok {
		return nil, apperr.NotFound("payment link")
	}
	if link.IsUsed {
		return nil, apperr.Gone("payment link already used")
	}
	if link.Expired(now) {
		return nil, apperr.Gone("payment link expired")
	}
	link.IsUsed = true
	link.Payment = f.payments[link.PaymentID]
	return link, nil
}

func (f *fakeLinkStore) pendingCount() int {
	n := 0
	for _, p := range f.payments {
		if p.Status == models.PaymentPending {
			n++
		}
	}
	return n
}

var issueTime = time.Date(2025, 3, 10, 9, 47, 0, 0, time.UTC)

func parkedSession() *models.ParkingSession {
	plate := "ABCD12"
	return &models.ParkingSession{
		ID:          uuid.New(),
		Status:      models.SessionParked,
		ArrivalTime: issueTime.Add(-47 * time.Minute),
		Vehicle:     &models.Vehicle{ID: uuid.New(), LicensePlate: &plate},
	}
}

func newTestIssuer(session *models.ParkingSession, amount int) (*Issuer, *fakeLinkStore, *fakeGateway) {
	store := newFakeLinkStore()
	gateway := &fakeGateway{}
	issuer := &Issuer{
		Sessions: &fakeSessionSource{session: session, quote: pricing.Quote{Amount: amount, Minutes: 47}},
		Store:    store,
		Gateway:  gateway,
		BaseURL:  "https://parkeo.example",
	}
	return issuer, store, gateway
}

func TestIssueLinkCreatesPendingPayment(t *testing.T) {
	session := parkedSession()
	issuer, store, gateway := newTestIssuer(session, 1880)

	link, err := issuer.IssueLink(context.Background(), "ABCD12", issueTime)
	assert.NoError(t, err)
	assert.Equal(t, 1880, link.Amount)
	assert.Contains(t, link.PaymentURL, "/v1/payments/checkout?code="+link.LinkCode)
	assert.Equal(t, issueTime.Add(DefaultLinkTTL), link.ExpiresAt)
	assert.Equal(t, 1, gateway.orders)
	assert.Equal(t, 1, store.pendingCount())
}

func TestIssueLinkReusesPendingPayment(t *testing.T) {
	session := parkedSession()
	issuer, store, gateway := newTestIssuer(session, 1880)

	first, err := issuer.IssueLink(context.Background(), "ABCD12", issueTime)
	assert.NoError(t, err)

	second, err := issuer.IssueLink(context.Background(), "ABCD12", issueTime.Add(time.Minute))
	assert.NoError(t, err)

	assert.NotEqual(t, first.LinkCode, second.LinkCode)
	assert.Equal(t, 1, store.pendingCount(), "a session holds exactly one pending payment")
	assert.Equal(t, 2, gateway.orders, "each link issue refreshes the gateway order")
}

func TestRenewInvalidatesEarlierLinks(t *testing.T) {
	session := parkedSession()
	issuer, _, _ := newTestIssuer(session, 1880)

	first, err := issuer.IssueLink(context.Background(), "ABCD12", issueTime)
	assert.NoError(t, err)

	renewed, err := issuer.RenewLink(context.Background(), "ABCD12", issueTime.Add(time.Minute))
	assert.NoError(t, err)

	// The superseded link stops redeeming even though it has not
	// expired; only the latest link of a payment is valid.
	_, err = issuer.Checkout(first.LinkCode, issueTime.Add(2*time.Minute))
	assert.True(t, apperr.Is(err, apperr.KindGone))

	redeemed, err := issuer.Checkout(renewed.LinkCode, issueTime.Add(2*time.Minute))
	assert.NoError(t, err)
	assert.True(t, redeemed.IsUsed)
}

func TestIssueLinkNoParkedSession(t *testing.T) {
	issuer, _, _ := newTestIssuer(nil, 0)

	_, err := issuer.IssueLink(context.Background(), "ZZZZ99", issueTime)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestIssueLinkGatewayFailurePersistsNothing(t *testing.T) {
	session := parkedSession()
	issuer, store, gateway := newTestIssuer(session, 1880)
	gateway.fail = true

	_, err := issuer.IssueLink(context.Background(), "ABCD12", issueTime)
	assert.True(t, apperr.Is(err, apperr.KindGateway))
	assert.Equal(t, 0, store.pendingCount())
	assert.Empty(t, store.links)
}

func TestRenewLinkWithoutPendingPayment(t *testing.T) {
	session := parkedSession()
	issuer, _, _ := newTestIssuer(session, 1880)

	_, err := issuer.RenewLink(context.Background(), "ABCD12", issueTime)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestRenewLinkRepricesDebt(t *testing.T) {
	session := parkedSession()
	issuer, store, _ := newTestIssuer(session, 1880)

	_, err := issuer.IssueLink(context.Background(), "ABCD12", issueTime)
	assert.NoError(t, err)

	// Six more minutes elapsed, the quote grows.
	issuer.Sessions.(*fakeSessionSource).quote = pricing.Quote{Amount: 2120, Minutes: 53}

	renewed, err := issuer.RenewLink(context.Background(), "ABCD12", issueTime.Add(6*time.Minute))
	assert.NoError(t, err)
	assert.Equal(t, 2120, renewed.Amount)

	pending, err := store.PendingBySession(session.ID)
	assert.NoError(t, err)
	assert.Equal(t, 2120, pending.Amount)
}

func TestCheckoutRedeemsOnce(t *testing.T) {
	session := parkedSession()
	issuer, _, _ := newTestIssuer(session, 1880)

	link, err := issuer.IssueLink(context.Background(), "ABCD12", issueTime)
	assert.NoError(t, err)

	redeemed, err := issuer.Checkout(link.LinkCode, issueTime.Add(time.Minute))
	assert.NoError(t, err)
	assert.True(t, redeemed.IsUsed)

	_, err = issuer.Checkout(link.LinkCode, issueTime.Add(2*time.Minute))
	assert.True(t, apperr.Is(err, apperr.KindGone))
}

func TestCheckoutExpiredLink(t *testing.T) {
	session := parkedSession()
	issuer, _, _ := newTestIssuer(session, 1880)

	link, err := issuer.IssueLink(context.Background(), "ABCD12", issueTime)
	assert.NoError(t, err)

	_, err = issuer.Checkout(link.LinkCode, issueTime.Add(DefaultLinkTTL))
	assert.True(t, apperr.Is(err, apperr.KindGone))

	// A renewed link restores access to the same pending debt.
	renewed, err := issuer.RenewLink(context.Background(), "ABCD12", issueTime.Add(DefaultLinkTTL))
	assert.NoError(t, err)

	redeemed, err := issuer.Checkout(renewed.LinkCode, issueTime.Add(DefaultLinkTTL+time.Minute))
	assert.NoError(t, err)
	assert.NotNil(t, redeemed.Payment)
}

func TestCheckoutUnknownCode(t *testing.T) {
	issuer, _, _ := newTestIssuer(nil, 0)

	_, err := issuer.Checkout("nope", issueTime)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
