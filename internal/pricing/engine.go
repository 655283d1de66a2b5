// Package pricing turns elapsed parking time into an amount owed.
// Computation is pure: the same rate, arrival and clock always yield
// the same quote, so callers may re-quote freely as time passes.
package pricing

import (
	"time"

	"github.com/mreyesc/parkeo/internal/models"
)

const (
	// DefaultRatePerHour applies when no rate record matches (amounts
	// in integer currency units).
	DefaultRatePerHour = 2000
	// DefaultMinAmount is the facility-level floor on any quote.
	DefaultMinAmount = 1200
)

type Quote struct {
	Amount         int  `json:"amount"`
	Minutes        int  `json:"minutes"`
	RatePerMinute  int  `json:"rate_per_minute"`
	MinAmount      int  `json:"min_amount"`
	AppliedMinimum bool `json:"applied_minimum"`
}

// ElapsedMinutes rounds the occupancy up to whole minutes. A non-positive
// duration yields 0 so that clock skew between entry gate and app server
// never produces a negative bill.
func ElapsedMinutes(arrival, now time.Time) int {
	d := now.Sub(arrival)
	if d <= 0 {
		return 0
	}
	return int((d + time.Minute - 1) / time.Minute)
}

// Compute prices a session under the given rate record. The minimum
// floor is applied last; the quote records whether it took effect.
func Compute(rate models.RateRecord, minAmount int, arrival, now time.Time) Quote {
	minutes := ElapsedMinutes(arrival, now)

	var amount int
	switch rate.Mode {
	case models.RatePerBlock:
		duration := rate.BlockDurationMin
		if duration <= 0 {
			duration = 1
		}
		blocks := (minutes + duration - 1) / duration
		amount = blocks * rate.PricePerBlock
	default:
		amount = minutes * rate.PricePerMinute
		if rate.DailyCap > 0 && amount > rate.DailyCap {
			amount = rate.DailyCap
		}
	}

	quote := Quote{
		Amount:        amount,
		Minutes:       minutes,
		RatePerMinute: rate.PricePerMinute,
		MinAmount:     minAmount,
	}
	if amount < minAmount {
		quote.Amount = minAmount
		quote.AppliedMinimum = true
	}
	return quote
}

// DefaultRate is the documented fallback when no rate record matches:
// a per-minute rate derived from DefaultRatePerHour, no cap.
func DefaultRate() models.RateRecord {
	return models.RateRecord{
		Mode:           models.RatePerMinuteCapped,
		PricePerMinute: (DefaultRatePerHour + 59) / 60,
	}
}
