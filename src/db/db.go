package db

import (
	"log"
	"os"
	"path"

	"portal/src/config"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var db *gorm.DB

func GetDb() *gorm.DB {
	if db != nil {
		return db
	}
	dbPath := config.GetDatabasePath()
	if err := os.MkdirAll(path.Dir(dbPath), 0o755); err != nil {
		log.Printf("Error creating data directory: %s\n", err.Error())
	}
	_db, err := gorm.Open(sqlite.Open(dbPath))
	if err != nil {
		log.Printf("Error opening database: %s\n", err.Error())
		panic(err)
	}
	sqlDB, err := _db.DB()
	if err != nil {
		log.Fatalf("Error establishing connection to database: %s\n", err.Error())
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	db = _db
	return _db
}

func NewDB(newdb *gorm.DB) {
	db = newdb
}
