package repository

import "gorm.io/gorm"

// AutoMigrate creates the schema from the GORM models. Deployed postgres databases
// are migrated from the SQL files in migrations/ instead.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&UserModel{},
		&ItemRequestModel{},
		&ItemModel{},
		&BookingModel{},
		&CommentModel{},
	)
}
