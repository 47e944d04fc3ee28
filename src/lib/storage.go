package lib

import (
	"errors"
	"log"

	"portal/src/config"
	"portal/src/storage"
)

// CreateStorage returns either a FileStorage or a RedisStorage based on the
// configured driver. File is the default and keeps all portal state local.
func CreateStorage() (storage.Storage, error) {
	driver := config.GetStorageDriver()
	if driver == "redis" {
		rdb := GetRedisClient()
		if rdb == nil {
			return nil, errors.New("redis driver selected but client unavailable")
		}
		s := storage.NewRedisStorage(rdb)
		log.Printf("[storage] using %s driver\n", s.Name())
		return s, nil
	}
	s, err := storage.NewFileStorage(config.GetDataDir())
	if err != nil {
		return nil, err
	}
	log.Printf("[storage] using %s driver at %s\n", s.Name(), config.GetDataDir())
	return s, nil
}
