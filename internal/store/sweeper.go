package store

import (
	"log"
	"time"

	"github.com/mreyesc/parkeo/internal/models"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// linkRetention is how long expired, never-used links are kept for
// support inquiries before the sweeper deletes them.
const linkRetention = 7 * 24 * time.Hour

// PurgeExpiredLinks deletes links that expired unused more than the
// retention period ago. Redemption validity is enforced at read time;
// this is row hygiene only.
func PurgeExpiredLinks(db *gorm.DB, now time.Time) (int64, error) {
	result := db.
		Where("is_used = ? AND expires_at < ?", false, now.Add(-linkRetention)).
		Delete(&models.PaymentLink{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// StartLinkSweeper schedules the nightly purge. The returned cron must
// be stopped on shutdown.
func StartLinkSweeper(db *gorm.DB) *cron.Cron {
	c := cron.New()
	c.AddFunc("@daily", func() {
		purged, err := PurgeExpiredLinks(db, time.Now())
		if err != nil {
			log.Printf("payment link sweep failed: %v", err)
			return
		}
		if purged > 0 {
			log.Printf("payment link sweep removed %d expired links", purged)
		}
	})
	c.Start()
	return c
}
