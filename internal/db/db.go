package db

import (
	"context"
	"fmt"
	"time"

	"storyhub/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

// Open connects to the configured database. The returned handle is shared by
// the whole process and handed to the store explicitly.
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverPostgres, "":
		if dsn == "" {
			// Fallback for local dev if not set
			dsn = "host=localhost user=postgres password=postgres dbname=storyhub port=5432 sslmode=disable TimeZone=UTC"
		}
		dialector = postgres.Open(dsn)
	case DriverMySQL:
		dialector = mysql.Open(dsn)
	case DriverSQLite:
		if dsn == "" {
			dsn = "file:storyhub.db?_foreign_keys=on"
		}
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}

	if driver == DriverSQLite {
		// sqlite serialises writers anyway; one connection keeps :memory: databases intact
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return gdb, nil
}

// Migrate creates or updates every table the service needs.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Story{},
		&models.Comment{},
		&models.Like{},
		&models.Report{},
	)
}

var defaultCategories = []models.Category{
	{Name: "Love", Slug: "love", Description: "Romantic relationships"},
	{Name: "Family", Slug: "family", Description: "Family matters"},
	{Name: "Friendship", Slug: "friendship", Description: "Friends and social life"},
	{Name: "Breakup", Slug: "breakup", Description: "Moving on"},
	{Name: "Marriage", Slug: "marriage", Description: "Married life"},
}

// SeedCategories inserts the default categories when the table is empty and
// reports how many rows it created.
func SeedCategories(ctx context.Context, gdb *gorm.DB, log logrus.FieldLogger) (int, error) {
	var count int64
	if err := gdb.WithContext(ctx).Model(&models.Category{}).Count(&count).Error; err != nil {
		return 0, err
	}
	if count > 0 {
		log.Debug("Categories already seeded, skipping")
		return 0, nil
	}

	created := 0
	for _, category := range defaultCategories {
		category := category
		if err := gdb.WithContext(ctx).Create(&category).Error; err != nil {
			log.WithError(err).WithField("category", category.Name).Warn("Failed to create category")
			continue
		}
		created++
	}
	log.WithField("count", created).Info("Initial categories created")
	return created, nil
}

// Ping checks that the database answers within the context deadline.
func Ping(ctx context.Context, gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
