package config

import (
	"context"
	"errors"
	"strconv"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var PostgresDB *gorm.DB

// InitPostgres opens the pool used for role and catalog writes. The DSN must
// carry elevated (service) privileges; callers never write through it directly.
func InitPostgres(ctx context.Context) error {
	dsn := firstEnv("POSTGRES_URI", "DATABASE_URL")
	if dsn == "" {
		return errors.New("POSTGRES_URI (or DATABASE_URL) environment variable is not set")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxIdleConns(intEnv("POSTGRES_MAX_IDLE_CONNS", 5))
	sqlDB.SetMaxOpenConns(intEnv("POSTGRES_MAX_OPEN_CONNS", 20))
	sqlDB.SetConnMaxLifetime(durationEnv("POSTGRES_CONN_MAX_LIFETIME", 30*time.Minute))
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return err
	}

	PostgresDB = db
	return nil
}

func intEnv(key string, def int) int {
	n, err := strconv.Atoi(firstEnv(key))
	if err != nil || n <= 0 {
		return def
	}
	return n
}
