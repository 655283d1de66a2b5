package pricing

import (
	"testing"
	"time"

	"github.com/mreyesc/parkeo/internal/models"
	"github.com/stretchr/testify/assert"
)

var baseTime = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func TestElapsedMinutesRoundsUp(t *testing.T) {
	assert.Equal(t, 0, ElapsedMinutes(baseTime, baseTime))
	assert.Equal(t, 0, ElapsedMinutes(baseTime, baseTime.Add(-5*time.Minute)))
	assert.Equal(t, 1, ElapsedMinutes(baseTime, baseTime.Add(10*time.Second)))
	assert.Equal(t, 1, ElapsedMinutes(baseTime, baseTime.Add(time.Minute)))
	assert.Equal(t, 2, ElapsedMinutes(baseTime, baseTime.Add(time.Minute+time.Second)))
	assert.Equal(t, 47, ElapsedMinutes(baseTime, baseTime.Add(46*time.Minute+30*time.Second)))
}

func TestComputePerMinute(t *testing.T) {
	rate := models.RateRecord{
		Mode:           models.RatePerMinuteCapped,
		PricePerMinute: 40,
	}

	quote := Compute(rate, 1200, baseTime, baseTime.Add(47*time.Minute))
	assert.Equal(t, 1880, quote.Amount)
	assert.Equal(t, 47, quote.Minutes)
	assert.False(t, quote.AppliedMinimum)
}

func TestComputePerMinuteDailyCap(t *testing.T) {
	rate := models.RateRecord{
		Mode:           models.RatePerMinuteCapped,
		PricePerMinute: 50,
		DailyCap:       2000,
	}

	quote := Compute(rate, 1200, baseTime, baseTime.Add(61*time.Minute))
	assert.Equal(t, 2000, quote.Amount)
	assert.Equal(t, 61, quote.Minutes)
	assert.False(t, quote.AppliedMinimum)
}

func TestComputePerBlock(t *testing.T) {
	rate := models.RateRecord{
		Mode:             models.RatePerBlock,
		BlockDurationMin: 15,
		PricePerBlock:    500,
	}

	// 50 minutes is four 15-minute blocks, partial blocks count whole.
	quote := Compute(rate, 1200, baseTime, baseTime.Add(50*time.Minute))
	assert.Equal(t, 2000, quote.Amount)
	assert.Equal(t, 50, quote.Minutes)
}

func TestComputeMinimumFloor(t *testing.T) {
	rate := models.RateRecord{
		Mode:           models.RatePerMinuteCapped,
		PricePerMinute: 40,
	}

	// 10 minutes at 40 is 400, below the 1200 floor.
	quote := Compute(rate, 1200, baseTime, baseTime.Add(10*time.Minute))
	assert.Equal(t, 1200, quote.Amount)
	assert.True(t, quote.AppliedMinimum)

	// Zero elapsed still bills the floor.
	quote = Compute(rate, 1200, baseTime, baseTime)
	assert.Equal(t, 1200, quote.Amount)
	assert.Equal(t, 0, quote.Minutes)
	assert.True(t, quote.AppliedMinimum)

	// A skewed clock never produces a negative bill.
	quote = Compute(rate, 1200, baseTime, baseTime.Add(-2*time.Minute))
	assert.Equal(t, 1200, quote.Amount)
	assert.Equal(t, 0, quote.Minutes)
}

func TestComputeBlockZeroDuration(t *testing.T) {
	rate := models.RateRecord{
		Mode:          models.RatePerBlock,
		PricePerBlock: 30,
	}

	// Misconfigured zero-length blocks degrade to per-minute billing.
	quote := Compute(rate, 0, baseTime, baseTime.Add(10*time.Minute))
	assert.Equal(t, 300, quote.Amount)
}

func TestDefaultRate(t *testing.T) {
	rate := DefaultRate()
	assert.Equal(t, models.RatePerMinuteCapped, rate.Mode)
	assert.Equal(t, 34, rate.PricePerMinute)
	assert.Equal(t, 0, rate.DailyCap)
}
