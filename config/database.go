package config

import (
	"log/slog"
	"time"

	"enorae-backend/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func ConnectDB(dsn string) error {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Minute)

	DB = db
	return nil
}

// overlapConstraint keeps two confirmed appointments of one staff member
// from sharing any instant. Pending bookings are not covered; the check
// fires when an appointment is confirmed.
const overlapConstraint = `
DO $$
BEGIN
	IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'appointments_no_confirmed_overlap') THEN
		ALTER TABLE appointments
			ADD CONSTRAINT appointments_no_confirmed_overlap
			EXCLUDE USING gist (staff_id WITH =, tstzrange(start_time, end_time) WITH &&)
			WHERE (status = 'confirmed');
	END IF;
END $$;`

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
		return err
	}

	err := db.AutoMigrate(
		&models.Salon{},
		&models.User{},
		&models.Service{},
		&models.Appointment{},
		&models.AppointmentService{},
		&models.TimeOffRequest{},
		&models.DailyMetric{},
		&models.RateLimitViolation{},
		&models.BlockedTime{},
		&models.Product{},
		&models.StockMovement{},
		&models.ServiceProductUsage{},
	)
	if err != nil {
		return err
	}

	if err := db.Exec(overlapConstraint).Error; err != nil {
		return err
	}
	slog.Info("database migrated")
	return nil
}
