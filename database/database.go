package database

import (
	"worktrack/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var db *gorm.DB

// Init opens the cache database at the given path and keeps it as the
// process-wide handle.
func Init(path string) error {
	opened, err := Open(path)
	if err != nil {
		return err
	}
	db = opened
	return nil
}

// Open opens a cache database without touching the package handle.
// Used by tests to get isolated stores.
func Open(path string) (*gorm.DB, error) {
	opened, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	err = opened.AutoMigrate(
		&models.Project{},
		&models.ProjectTask{},
		&models.ProjectTaskKey{},
		&models.User{},
		&models.TimeRecord{},
		&models.ReportRecord{},
		&models.Preference{},
	)
	if err != nil {
		return nil, err
	}

	return opened, nil
}

func GetDB() *gorm.DB {
	return db
}
