package store

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mreyesc/parkeo/internal/apperr"
	"github.com/mreyesc/parkeo/internal/models"
	"github.com/mreyesc/parkeo/internal/payment"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Payments struct {
	DB *gorm.DB
}

func (p Payments) PendingBySession(sessionID uuid.UUID) (*models.Payment, error) {
	var pending models.Payment
	err := p.DB.
		Where("session_id = ? AND status = ?", sessionID, models.PaymentPending).
		First(&pending).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pending, nil
}

// CreatePaymentWithLink persists a new payment and its first link in
// one transaction: a gateway order never leaves partial rows behind.
func (p Payments) CreatePaymentWithLink(pay *models.Payment, link *models.PaymentLink) error {
	return p.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(pay).Error; err != nil {
			return err
		}
		link.PaymentID = pay.ID
		return tx.Create(link).Error
	})
}

// RenewPayment points the session's existing PENDING payment at a new
// gateway order and attaches a fresh link. The status guard keeps a
// renewal from resurrecting a payment the webhook already settled.
// Earlier unused links are consumed in the same transaction: only the
// latest link of a payment ever redeems.
func (p Payments) RenewPayment(paymentID uuid.UUID, orderID, referenceID string, amount int, link *models.PaymentLink) error {
	return p.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Payment{}).
			Where("id = ? AND status = ?", paymentID, models.PaymentPending).
			Updates(map[string]interface{}{
				"order_id":     orderID,
				"reference_id": referenceID,
				"amount":       amount,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperr.Conflict("payment is no longer pending")
		}
		if err := tx.Model(&models.PaymentLink{}).
			Where("payment_id = ? AND is_used = ?", paymentID, false).
			Update("is_used", true).Error; err != nil {
			return err
		}
		link.PaymentID = paymentID
		return tx.Create(link).Error
	})
}

// Redeem flips is_used in a single conditional UPDATE; of two
// concurrent openers exactly one gets the render data.
func (p Payments) Redeem(code string, now time.Time) (*models.PaymentLink, error) {
	var redeemed models.PaymentLink
	err := p.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.PaymentLink{}).
			Where("link_code = ? AND is_used = ? AND expires_at > ?", code, false, now).
			Update("is_used", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var link models.PaymentLink
			err := tx.Where("link_code = ?", code).First(&link).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("payment link")
			}
			if err != nil {
				return err
			}
			if link.IsUsed {
				return apperr.Gone("payment link already used")
			}
			return apperr.Gone("payment link expired")
		}
		return tx.
			Preload("Payment.Session.Vehicle").Preload("Payment.Session.ParkingLot").
			Where("link_code = ?", code).First(&redeemed).Error
	})
	if err != nil {
		return nil, err
	}
	return &redeemed, nil
}

// LinkByCode is the read-only lookup used by the QR endpoint; it never
// consumes the link.
func (p Payments) LinkByCode(code string) (*models.PaymentLink, error) {
	var link models.PaymentLink
	err := p.DB.Preload("Payment").Where("link_code = ?", code).First(&link).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("payment link")
	}
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// ConfirmPayment settles an order as COMPLETED and, when the owning
// session is still PARKED, registers its paid exit. Both happen in one
// transaction keyed by order id, so duplicate deliveries apply nothing.
func (p Payments) ConfirmPayment(orderID, mcCode string, now time.Time) (payment.ConfirmResult, error) {
	var out payment.ConfirmResult
	err := p.DB.Transaction(func(tx *gorm.DB) error {
		var pay models.Payment
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("order_id = ?", orderID).First(&pay).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		out.Found = true
		out.Payment = &pay

		if pay.Status.Terminal() {
			return nil
		}

		updates := map[string]interface{}{
			"status":       models.PaymentCompleted,
			"completed_at": now,
		}
		if mcCode != "" {
			updates["mc_code"] = mcCode
		}
		if err := tx.Model(&pay).Updates(updates).Error; err != nil {
			return err
		}
		out.Applied = true

		var session models.ParkingSession
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Vehicle").
			Where("id = ?", pay.SessionID).First(&session).Error
		if err != nil {
			return err
		}
		out.Session = &session

		if session.Status != models.SessionParked {
			return nil
		}
		if err := tx.Model(&session).Updates(map[string]interface{}{
			"status":    models.SessionExitedPaid,
			"exit_time": now,
			"pay_time":  now,
		}).Error; err != nil {
			return err
		}
		out.SessionMoved = true
		return nil
	})
	if err != nil {
		return payment.ConfirmResult{}, err
	}
	return out, nil
}

// RejectPayment settles an order as REJECTED; the session stays PARKED
// so the payer can retry with a renewed link.
func (p Payments) RejectPayment(orderID string, now time.Time) (payment.RejectResult, error) {
	var out payment.RejectResult
	err := p.DB.Transaction(func(tx *gorm.DB) error {
		var pay models.Payment
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("order_id = ?", orderID).First(&pay).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		out.Found = true

		if pay.Status.Terminal() {
			return nil
		}
		if err := tx.Model(&pay).Update("status", models.PaymentRejected).Error; err != nil {
			return err
		}
		out.Applied = true
		return nil
	})
	if err != nil {
		return payment.RejectResult{}, err
	}
	return out, nil
}
