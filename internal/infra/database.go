package infra

import (
	"fmt"

	"tillbook/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx and runs
// AutoMigrate for the full schema.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}
	return db, nil
}

// RunMigrations creates/updates all tables. Also used by integration tests.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.CashRegister{},
		&model.CashRegisterSession{},
		&model.SessionPayment{},
		&model.SessionTender{},
	); err != nil {
		return err
	}

	// Partial unique index backing the single-open-session invariant at the
	// storage layer; AutoMigrate cannot express WHERE clauses.
	return db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_sessions_one_open_per_register
		ON cash_register_sessions (register_id)
		WHERE status = 'open'
	`).Error
}
