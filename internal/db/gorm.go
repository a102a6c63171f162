package db

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bookmark-site/bookmark-site/internal/config"
)

type (
	Model struct {
		ID        uint64 `gorm:"primarykey"`
		CreatedAt time.Time
		UpdatedAt time.Time
	}

	// User keeps a denormalized list of its bookmark ids next to the
	// bookmark rows themselves; both sides are written in one transaction.
	User struct {
		Model
		Username     string        `gorm:"unique;not null"`
		PasswordHash string        `gorm:"not null"`
		BookmarkIDs  pq.Int64Array `gorm:"type:bigint[];not null;default:'{}'"`
	}

	Bookmark struct {
		Model
		Title  string `gorm:"not null"`
		URL    string `gorm:"not null"`
		UserID uint64 `gorm:"not null;index"`
	}
)

func NewGormClient(cfg *config.Config) (*gorm.DB, error) {
	newLogger := logger.New(log.New(os.Stdout, "\r\n", log.LstdFlags), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Info,
		Colorful:                  true,
		IgnoreRecordNotFoundError: false,
	})

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: newLogger,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect database")
	}

	if err := db.AutoMigrate(&User{}); err != nil {
		return nil, errors.Wrap(err, "migrate user")
	}
	if err := db.AutoMigrate(&Bookmark{}); err != nil {
		return nil, errors.Wrap(err, "migrate bookmark")
	}

	return db, nil
}
