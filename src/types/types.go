package types

import (
	"time"

	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

// CalendarEvent is the shape the calendar collaborator feeds the reconciler.
type CalendarEvent struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	StartTime   time.Time `json:"start_time"`
	Location    string    `json:"location,omitempty"`
	Description string    `json:"description,omitempty"`
}

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type CreateNotificationRequestBody struct {
	Title     string `json:"title" binding:"required"`
	Message   string `json:"message" binding:"required"`
	Type      string `json:"type" binding:"required,oneof=custom system academic"`
	Priority  string `json:"priority,omitempty" binding:"omitempty,oneof=low medium high"`
	ActionURL string `json:"action_url,omitempty"`
}

type UpdateSettingsRequestBody struct {
	EventNotifications    *bool `json:"event_notifications" binding:"required"`
	PushNotifications     *bool `json:"push_notifications" binding:"required"`
	ReminderTime          uint  `json:"reminder_time" binding:"required,reminderminutes"`
	WelcomeMessageEnabled *bool `json:"welcome_message_enabled" binding:"required"`
}

type CreatePostRequestBody struct {
	Author  string `json:"author" binding:"required"`
	Title   string `json:"title,omitempty"`
	Body    string `json:"body" binding:"required"`
	Topic   string `json:"topic,omitempty"`
	Parent  uint   `json:"parent,omitempty"`
	Pinned  bool   `json:"pinned,omitempty"`
	IsStaff bool   `json:"is_staff,omitempty"`
}

type UpdatePageRequestBody struct {
	Title string `json:"title" binding:"required"`
	Body  string `json:"body" binding:"required"`
}
