package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/dev1mple/attendance-oop/config"
	"github.com/dev1mple/attendance-oop/models"
)

// Connect opens the database and migrates the schema. The handle is
// returned to the caller and passed down explicitly; there is no package
// global. TranslateError makes unique-index violations surface as
// gorm.ErrDuplicatedKey, which the attendance store depends on for its
// concurrent-mark handling.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Student{},
		&models.ClassSchedule{},
		&models.AttendanceRecord{},
		&models.ExcuseLetter{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return db, nil
}
