package notify

import (
	"strings"
	"time"
)

type NotificationType string

const (
	TypeEvent    NotificationType = "event"
	TypeAcademic NotificationType = "academic"
	TypeCustom   NotificationType = "custom"
	TypeSystem   NotificationType = "system"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// WelcomePrefix marks the seeded onboarding notifications. Visibility of
// ids carrying this prefix is controlled by Settings.WelcomeMessageEnabled.
const WelcomePrefix = "welcome-"

// Storage keys for the two persisted blobs.
const (
	NotificationsKey = "globalNotifications"
	SettingsKey      = "notificationSettings"
)

type Notification struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	Priority  Priority         `json:"priority"`
	Timestamp time.Time        `json:"timestamp"`
	Read      bool             `json:"read"`
	EventID   string           `json:"event_id,omitempty"`
	EventDate *time.Time       `json:"event_date,omitempty"`
	ActionURL string           `json:"action_url,omitempty"`
}

// Candidate is a notification submitted for addition. Identity fields (id,
// timestamp, read) are assigned by the Manager.
type Candidate struct {
	Title     string
	Message   string
	Type      NotificationType
	Priority  Priority
	EventID   string
	EventDate *time.Time
	ActionURL string
}

type Settings struct {
	EventNotifications    bool `json:"event_notifications"`
	PushNotifications     bool `json:"push_notifications"`
	ReminderTime          uint `json:"reminder_time"`
	WelcomeMessageEnabled bool `json:"welcome_message_enabled"`
}

func DefaultSettings() Settings {
	return Settings{
		EventNotifications:    true,
		PushNotifications:     true,
		ReminderTime:          30,
		WelcomeMessageEnabled: true,
	}
}

// Visible derives the list a delivery surface should render. Suppressed
// notifications stay in the canonical list; this never mutates its input.
func Visible(list []Notification, s Settings) []Notification {
	visible := make([]Notification, 0, len(list))
	for _, n := range list {
		if !s.EventNotifications && n.Type == TypeEvent {
			continue
		}
		if !s.WelcomeMessageEnabled && strings.HasPrefix(n.ID, WelcomePrefix) {
			continue
		}
		visible = append(visible, n)
	}
	return visible
}
