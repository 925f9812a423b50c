package database

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/balcaohq/balcao-api/internal/config"
	"github.com/balcaohq/balcao-api/internal/domain/entity"
)

// NewPostgresDB opens the Postgres connection and configures the pool
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // no implicit prepared statements
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("access underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Connected to PostgreSQL")
	return db, nil
}

// AutoMigrate creates or updates the schema for every entity
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		// Establishment entities
		&entity.Store{},
		&entity.PaymentMethod{},
		&entity.User{},
		&entity.Customer{},

		// Catalog entities
		&entity.Category{},
		&entity.Product{},

		// Order entities
		&entity.Order{},
		&entity.OrderItem{},
		&entity.OrderCounter{},

		// Ledger and till entities
		&entity.Account{},
		&entity.Payment{},
		&entity.CashSession{},
		&entity.CashMovement{},
		&entity.CashClosing{},
		&entity.PixCharge{},

		// System entities
		&entity.IdempotencyKey{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}
