package payment

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mreyesc/parkeo/internal/apperr"
	"github.com/mreyesc/parkeo/internal/helpers"
	"github.com/mreyesc/parkeo/internal/models"
	"github.com/mreyesc/parkeo/internal/notify"
)

// ConfirmResult reports what a confirm delivery actually changed.
// Webhook delivery is at-least-once, so most fields exist to tell a
// first application apart from a replay.
type ConfirmResult struct {
	Found        bool
	Applied      bool
	SessionMoved bool
	Payment      *models.Payment
	Session      *models.ParkingSession
}

type RejectResult struct {
	Found   bool
	Applied bool
}

// ReconcileStore applies payment outcomes. Both methods must be a
// single transaction keyed by order id: a replayed or concurrent
// delivery observes the terminal status and applies nothing.
type ReconcileStore interface {
	ConfirmPayment(orderID, mcCode string, now time.Time) (ConfirmResult, error)
	RejectPayment(orderID string, now time.Time) (RejectResult, error)
}

// Reconciler turns asynchronous gateway notifications into payment and
// session state, exactly once per terminal outcome.
type Reconciler struct {
	Store    ReconcileStore
	Notifier notify.Notifier
	Secret   string
}

// Authenticate validates the Apikey header of a webhook delivery.
// The error never reveals which part of the signature failed.
func (r *Reconciler) Authenticate(headerKey, referenceID, orderID string) error {
	if !helpers.VerifyWebhookApikey(headerKey, referenceID, orderID, r.Secret) {
		return apperr.Unauthorized("webhook authentication failed")
	}
	return nil
}

// Confirm applies a successful payment: payment COMPLETED, owning
// session EXITED_PAID if still PARKED, then a best-effort payer
// notification. Unknown orders and replays are acknowledged no-ops.
func (r *Reconciler) Confirm(ctx context.Context, orderID, mcCode string, now time.Time) error {
	result, err := r.Store.ConfirmPayment(orderID, mcCode, now)
	if err != nil {
		return err
	}
	if !result.Found {
		log.Printf("webhook confirm for unknown order %s, acknowledging", orderID)
		return nil
	}
	if !result.Applied {
		log.Printf("webhook confirm replay for order %s, payment already terminal", orderID)
		return nil
	}

	if !result.SessionMoved {
		log.Printf("payment %s completed but session %s was not PARKED; leaving session untouched",
			orderID, result.Payment.SessionID)
		return nil
	}

	r.notifyConfirmed(ctx, result, mcCode)
	return nil
}

// Reject applies a failed payment: payment REJECTED, session left
// PARKED so the payer can retry. Idempotent like Confirm.
func (r *Reconciler) Reject(ctx context.Context, orderID string, now time.Time) error {
	result, err := r.Store.RejectPayment(orderID, now)
	if err != nil {
		return err
	}
	if !result.Found {
		log.Printf("webhook reject for unknown order %s, acknowledging", orderID)
		return nil
	}
	if !result.Applied {
		log.Printf("webhook reject replay for order %s, payment already terminal", orderID)
	}
	return nil
}

func (r *Reconciler) notifyConfirmed(ctx context.Context, result ConfirmResult, mcCode string) {
	if r.Notifier == nil {
		return
	}

	plate := "N/A"
	if result.Session != nil && result.Session.Vehicle != nil && result.Session.Vehicle.LicensePlate != nil {
		plate = *result.Session.Vehicle.LicensePlate
	}
	message := fmt.Sprintf(
		"Payment confirmed: $%d for vehicle %s. Transaction code: %s. You may now exit.",
		result.Payment.Amount, plate, mcCode,
	)
	if err := r.Notifier.Notify(ctx, plate, message); err != nil {
		// Best-effort: the payment and session updates stand.
		log.Printf("payment confirmation notification failed for %s: %v", plate, err)
	}
}
