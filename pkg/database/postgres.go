package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/oracoesapp/oracoes-backend/internal/models"
)

// New opens the connection and migrates the two tables this service owns:
// the webhook dedup log and the subscription mirror. The plan catalog is
// static and never touches the database.
func New(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := db.AutoMigrate(
		&models.WebhookEvent{},
		&models.Subscription{},
	); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return db, nil
}
