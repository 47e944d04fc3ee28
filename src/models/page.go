package models

import (
	"portal/src/types"
)

// Page is an informational content page (housing, dining, billing, tutoring).
type Page struct {
	ID    uint   `gorm:"primarykey" json:"id"`
	Slug  string `gorm:"uniqueIndex" json:"slug"`
	Title string `json:"title"`
	Body  string `json:"body"`

	types.Timestamps
}
