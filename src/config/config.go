package config

import (
	"os"
	"path"
	"strconv"
	"time"
)

var (
	API_ENV      = os.Getenv("API_ENV")
	GAPI_API_KEY = os.Getenv("GAPI_API_KEY")
)

// GetDataDir returns the directory holding the portal's local key/value storage.
func GetDataDir() string {
	dir := os.Getenv("PORTAL_DATA_DIR")
	if dir == "" {
		cwd, _ := os.Getwd()
		dir = path.Join(cwd, "data")
	}
	return dir
}

// GetDatabasePath returns the sqlite file backing the board and pages.
func GetDatabasePath() string {
	p := os.Getenv("DATABASE_PATH")
	if p == "" {
		p = path.Join(GetDataDir(), "portal.db")
	}
	return p
}

func GetStorageDriver() string {
	driver := os.Getenv("STORAGE_DRIVER")
	if driver == "" {
		driver = "file"
	}
	return driver
}

func GetCalendarId() string {
	id := os.Getenv("CALENDAR_ID")
	if id == "" {
		id = "primary"
	}
	return id
}

// GetPollInterval returns the notification poll cadence. The poll is an
// eventual-consistency fallback behind the broadcast channels, so the default
// is deliberately coarse.
func GetPollInterval() time.Duration {
	secs, err := strconv.Atoi(os.Getenv("NOTIFY_POLL_SECONDS"))
	if err != nil || secs <= 0 {
		secs = 30
	}
	return time.Duration(secs) * time.Second
}

const EVENT_DISPLAY_FORMAT = "Monday, Jan 2 at 3:04 PM"
