package database

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"letme_backend/internals/configs"
)

func ConnectDB(cfg configs.DBConfig, log *logrus.Logger, verboseSQL bool) (*gorm.DB, error) {
	log.Info("🔌 Koneksi ke PostgreSQL...")

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // aman untuk PgBouncer transaction pooling
	}), &gorm.Config{
		Logger: configs.NewGormLogger(log, verboseSQL),
	})
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	log.Info("✅ DB connected.")
	return db, nil
}

func TunePool(db *gorm.DB, cfg configs.DBConfig) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
	return nil
}

// WarmUpQueries ping ringan supaya pool sudah terisi sebelum request pertama.
func WarmUpQueries(db *gorm.DB, log *logrus.Logger) {
	go func() {
		time.Sleep(500 * time.Millisecond)
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			log.WithError(err).Warn("warm-up ping")
		}
	}()
}

func Close(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
