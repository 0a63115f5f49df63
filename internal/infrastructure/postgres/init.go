package postgres

import (
	"log"

	"github.com/gigvault/escrow-service/internal/config"
	"github.com/gigvault/escrow-service/internal/infrastructure/postgres/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func MustInitDB(cfg *config.EscrowConfig) *gorm.DB {
	dsn := cfg.EscrowDB.Dsn
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	db.AutoMigrate(
		&models.JobModel{},
		&models.MilestoneModel{},
		&models.DisputeModel{},
		&models.VerifierModel{},
		&models.AutomationConfigModel{},
		&models.EscrowEventModel{},
		&models.PlatformSettingsModel{},
	)

	return db
}
