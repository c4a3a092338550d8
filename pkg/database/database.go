package database

import (
	"fmt"
	"study_backend/internal/config"
	"study_backend/internal/model"
	"study_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Pool sizing shared by the API process and the task workers.
const (
	maxOpenConns     = 100
	maxIdleConns     = 10
	connMaxLifetime  = time.Hour
	redisPingTimeout = 5 * time.Second
)

// InitDB opens the MySQL pool. Schema migration is the caller's call,
// the maintenance scripts connect without touching the schema.
func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName, cfg.Charset, cfg.ParseTime)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)

	logger.Log.Info("Database connection established",
		zap.String("host", cfg.Host), zap.String("database", cfg.DBName))
	return db, nil
}

// Migrate creates or updates the full schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Course{},
		&model.Module{},
		&model.Lesson{},
		&model.Quiz{},
		&model.UserCourse{},
		&model.UserProgress{},
		&model.ChatMessage{},
		&model.UserStreak{},
	)
}
