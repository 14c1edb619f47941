package repository

import "gorm.io/gorm"

// AutoMigrate creates the tables owned by this package plus the partial
// unique index backing the one-open-dispute-per-booking constraint.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&userModel{},
		&bookingModel{},
		&disputeModel{},
		&disputeMessageModel{},
	); err != nil {
		return err
	}

	return db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_one_open_dispute_per_booking
ON disputes (booking_id) WHERE status IN ('open', 'under_review')`).Error
}
