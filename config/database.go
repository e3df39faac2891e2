package config

import (
	"fmt"
	"time"

	"bitacoras-backend/models"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "postgres", "":
		return postgres.Open(dsn), nil
	case "mysql":
		return mysql.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(dsn), nil
	}
	return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
}

func ConnectDB(cfg Config, log *zap.Logger) (*gorm.DB, error) {
	dial, err := dialector(cfg.DBDriver, cfg.DBURL)
	if err != nil {
		return nil, err
	}

	gormLogger := logger.Default.LogMode(logger.Warn)
	if cfg.Production() {
		gormLogger = logger.Default.LogMode(logger.Error)
	}

	db, err := gorm.Open(dial, &gorm.Config{Logger: gormLogger, NowFunc: NowUTC})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Minute)

	log.Info("database connected", zap.String("driver", cfg.DBDriver))
	DB = db
	return db, nil
}

// NowUTC keeps every stored timestamp in UTC so date ranges compare the same
// way on every driver.
func NowUTC() time.Time {
	return time.Now().UTC()
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}
