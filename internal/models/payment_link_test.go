package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPaymentLinkExpiry(t *testing.T) {
	issued := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	link := PaymentLink{ExpiresAt: issued.Add(5 * time.Minute)}

	assert.False(t, link.Expired(issued))
	assert.False(t, link.Expired(issued.Add(5*time.Minute-time.Second)))
	assert.True(t, link.Expired(issued.Add(5*time.Minute)))
	assert.True(t, link.Expired(issued.Add(time.Hour)))
}

func TestPaymentLinkRedeemable(t *testing.T) {
	issued := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	link := PaymentLink{ExpiresAt: issued.Add(5 * time.Minute)}

	assert.True(t, link.Redeemable(issued.Add(time.Minute)))

	link.IsUsed = true
	assert.False(t, link.Redeemable(issued.Add(time.Minute)))

	link.IsUsed = false
	assert.False(t, link.Redeemable(issued.Add(10*time.Minute)))
}

func TestSessionStatusTerminal(t *testing.T) {
	assert.False(t, SessionParked.Terminal())
	assert.True(t, SessionExitedPaid.Terminal())
	assert.True(t, SessionExitedContract.Terminal())
	assert.True(t, SessionExitedException.Terminal())
}

func TestValidExitStatus(t *testing.T) {
	assert.True(t, ValidExitStatus(SessionExitedPaid))
	assert.True(t, ValidExitStatus(SessionExitedContract))
	assert.True(t, ValidExitStatus(SessionExitedException))
	assert.False(t, ValidExitStatus(SessionParked))
	assert.False(t, ValidExitStatus(SessionStatus("DELETED")))
}

func TestPaymentStatusTerminal(t *testing.T) {
	assert.False(t, PaymentPending.Terminal())
	assert.True(t, PaymentCompleted.Terminal())
	assert.True(t, PaymentRejected.Terminal())
}
