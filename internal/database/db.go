package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/Amrita-Dey3792/matrichaya-properties/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	maxAttempts  = 10
	retryBackoff = 2 * time.Second
)

func dialector(driver, dsn string) (gorm.Dialector, error) {
	switch strings.ToLower(driver) {
	case "", "postgres", "postgresql":
		return postgres.Open(dsn), nil
	case "mysql":
		return mysql.Open(dsn), nil
	case "sqlite", "sqlite3":
		return sqlite.Open(dsn), nil
	}
	return nil, fmt.Errorf("database: unsupported driver %q", driver)
}

// Open подключается к базе с повторами (база в docker может стартовать позже
// приложения), затем прогоняет миграции.
func Open(driver, dsn string) (*gorm.DB, error) {
	d, err := dialector(driver, dsn)
	if err != nil {
		return nil, err
	}

	var db *gorm.DB
	for i := 1; i <= maxAttempts; i++ {
		log.Info().Int("attempt", i).Int("max", maxAttempts).Str("driver", driver).Msg("connecting to database")

		db, err = gorm.Open(d, &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
		if err == nil {
			log.Info().Msg("connected to database")
			break
		}

		log.Warn().Err(err).Msg("database connection failed")
		time.Sleep(retryBackoff)
	}
	if err != nil {
		return nil, fmt.Errorf("database: connect after %d attempts: %w", maxAttempts, err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate создаёт таблицы и частичный уникальный индекс активной картинки
// в эксклюзивных категориях. В MySQL частичных индексов нет, там инвариант
// держится только блокировками в slots.Registry.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.AdminProfile{},
		&models.ImageAsset{},
		&models.CarouselSlide{},
		&models.LandProperty{},
		&models.Lead{},
		&models.AdminActivity{},
		&models.CompanyInfo{},
	)
	if err != nil {
		return fmt.Errorf("database: migrate: %w", err)
	}

	if db.Dialector.Name() == "mysql" {
		return nil
	}

	quoted := make([]string, 0, len(models.ExclusiveCategories))
	for _, c := range models.ExclusiveCategories {
		quoted = append(quoted, "'"+string(c)+"'")
	}
	stmt := "CREATE UNIQUE INDEX IF NOT EXISTS idx_image_assets_exclusive_active " +
		"ON image_assets (category) WHERE active = true AND category IN (" + strings.Join(quoted, ",") + ")"
	if err := db.Exec(stmt).Error; err != nil {
		return fmt.Errorf("database: exclusive index: %w", err)
	}
	return nil
}
