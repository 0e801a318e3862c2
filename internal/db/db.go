package db

import (
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"hk-blood-donation/internal/models"
)

func Init(dsn string, log *zap.Logger) *gorm.DB {
	if dsn == "" {
		log.Fatal("DATABASE_DSN required")
	}
	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect db", zap.Error(err))
	}
	if err := AutoMigrate(conn); err != nil {
		log.Fatal("auto migrate failed", zap.Error(err))
	}
	return conn
}

// AutoMigrate creates or updates the schema for every model. Shared
// with tests, which run it against an in-memory database.
func AutoMigrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&models.User{},
		&models.Donor{},
		&models.BloodRequest{},
		&models.EmailVerification{},
	)
}

func Close(conn *gorm.DB) error {
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
