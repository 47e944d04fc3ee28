package models

import (
	"portal/src/types"
)

type Post struct {
	ID      uint    `gorm:"primarykey" json:"id"`
	Author  string  `json:"author"`
	Title   *string `json:"title,omitempty"`
	Body    string  `json:"body"`
	Topic   string  `gorm:"default:'general';index" json:"topic,omitempty"`
	Pinned  bool    `json:"pinned,omitempty"`
	IsStaff bool    `json:"is_staff,omitempty"`

	ParentID *uint  `json:"parent_id,omitempty"`
	Replies  []Post `gorm:"foreignKey:ParentID" json:"replies,omitempty"`

	types.Timestamps
}
