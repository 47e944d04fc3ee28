package db

import (
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func NewMemoryDB() *gorm.DB {
	gormDB, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"))
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening gorm database", err)
	}
	return gormDB
}

func GetMemoryDB() *gorm.DB {
	gormDB := NewMemoryDB()
	db = gormDB
	return gormDB
}

func TestDB(t *testing.T) {
	gormDB := NewMemoryDB()
	db = gormDB

	assert.Equal(t, db.Name(), "sqlite")
}
