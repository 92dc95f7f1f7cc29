package repository

import "gorm.io/gorm"

// AutoMigrate creates the engine's tables and indexes. Used by the seed tool,
// tests and local sqlite runs; postgres deployments run the same set.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&userModel{},
		&contestModel{},
		&contestParticipantModel{},
		&contestWinnerModel{},
		&submissionModel{},
		&paymentModel{},
	)
}
