package notify

import (
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"portal/src/storage"

	"github.com/google/uuid"
)

// Snapshot is the payload carried on the ambient broadcast channel.
type Snapshot struct {
	Notifications []Notification `json:"notifications"`
	Timestamp     time.Time      `json:"timestamp"`
}

// Publisher delivers snapshots to observers outside the subscription list
// (browser sockets, other processes). Implementations must tolerate being
// called on every mutation.
type Publisher interface {
	Name() string
	Publish(s Snapshot)
}

type subscriber struct {
	id int
	fn func([]Notification)
}

// Manager owns the canonical notification list and the current settings.
// There is exactly one Manager per running portal; it is constructed in main
// and passed to whatever needs it.
type Manager struct {
	mu    sync.Mutex
	store storage.Storage

	list     []Notification
	settings Settings

	subs    []subscriber
	nextSub int
	ambient []Publisher

	lastDelivered []byte
}

func NewManager(store storage.Storage, ambient ...Publisher) *Manager {
	m := &Manager{
		store:   store,
		ambient: ambient,
	}
	m.mu.Lock()
	m.loadSettingsLocked()
	if err := m.loadLocked(); err != nil {
		m.seedLocked()
	}
	m.lastDelivered, _ = json.Marshal(m.list)
	m.mu.Unlock()
	return m
}

// Add assigns identity to the candidate, prepends it and broadcasts. The
// write-time gate: when push notifications are disabled in settings, nothing
// is added for any candidate type.
func (m *Manager) Add(c Candidate) (*Notification, bool) {
	m.mu.Lock()
	if !m.settings.PushNotifications {
		m.mu.Unlock()
		log.Printf("[notify] push disabled, dropping candidate %q\n", c.Title)
		return nil, false
	}
	n := Notification{
		ID:        uuid.NewString(),
		Title:     c.Title,
		Message:   c.Message,
		Type:      c.Type,
		Priority:  c.Priority,
		Timestamp: time.Now().UTC(),
		Read:      false,
		EventID:   c.EventID,
		EventDate: c.EventDate,
		ActionURL: c.ActionURL,
	}
	m.list = append([]Notification{n}, m.list...)
	m.persistLocked()
	deliver := m.prepareBroadcastLocked()
	m.mu.Unlock()
	deliver()
	return &n, true
}

// MarkRead flips a notification to read. Idempotent: unknown or already-read
// ids are a no-op and nothing is persisted or broadcast.
func (m *Manager) MarkRead(id string) bool {
	m.mu.Lock()
	changed := false
	for i := range m.list {
		if m.list[i].ID == id && !m.list[i].Read {
			m.list[i].Read = true
			changed = true
			break
		}
	}
	if !changed {
		m.mu.Unlock()
		return false
	}
	m.persistLocked()
	deliver := m.prepareBroadcastLocked()
	m.mu.Unlock()
	deliver()
	return true
}

func (m *Manager) MarkAllRead() int {
	m.mu.Lock()
	changed := 0
	for i := range m.list {
		if !m.list[i].Read {
			m.list[i].Read = true
			changed++
		}
	}
	if changed == 0 {
		m.mu.Unlock()
		return 0
	}
	m.persistLocked()
	deliver := m.prepareBroadcastLocked()
	m.mu.Unlock()
	deliver()
	return changed
}

// Remove deletes a notification. Removing an unknown id is a no-op.
func (m *Manager) Remove(id string) bool {
	m.mu.Lock()
	removed := false
	for i := range m.list {
		if m.list[i].ID == id {
			m.list = append(m.list[:i], m.list[i+1:]...)
			removed = true
			break
		}
	}
	if !removed {
		m.mu.Unlock()
		return false
	}
	m.persistLocked()
	deliver := m.prepareBroadcastLocked()
	m.mu.Unlock()
	deliver()
	return true
}

func (m *Manager) Clear() {
	m.mu.Lock()
	m.list = []Notification{}
	m.persistLocked()
	deliver := m.prepareBroadcastLocked()
	m.mu.Unlock()
	deliver()
}

// ListAll re-reads durable storage before answering so that state written by
// another process is picked up, and returns a copy of the canonical list.
func (m *Manager) ListAll() []Notification {
	m.mu.Lock()
	if err := m.loadLocked(); err != nil && !errors.Is(err, storage.ErrNotFound) {
		log.Printf("[notify] reload failed, serving in-memory list: %s\n", err.Error())
	}
	out := m.snapshotLocked()
	m.mu.Unlock()
	return out
}

// Visible returns the filtered list for the current settings.
func (m *Manager) Visible() []Notification {
	list := m.ListAll()
	m.mu.Lock()
	s := m.settings
	m.mu.Unlock()
	return Visible(list, s)
}

// UnreadCount counts unread notifications among the visible list. Suppressed
// notifications do not count toward the badge.
func (m *Manager) UnreadCount() int {
	count := 0
	for _, n := range m.Visible() {
		if !n.Read {
			count++
		}
	}
	return count
}

// HasEventNotification reports whether a live notification already references
// the given calendar event.
func (m *Manager) HasEventNotification(eventId string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.list {
		if n.Type == TypeEvent && n.EventID == eventId {
			return true
		}
	}
	return false
}

func (m *Manager) Settings() Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings
}

// UpdateSettings persists the new settings and rebroadcasts the canonical
// list so every surface re-applies the filter.
func (m *Manager) UpdateSettings(s Settings) {
	m.mu.Lock()
	m.settings = s
	b, err := json.Marshal(s)
	if err == nil {
		if werr := m.store.Write(SettingsKey, b); werr != nil {
			log.Printf("[notify] error persisting settings: %s\n", werr.Error())
		}
	}
	deliver := m.prepareBroadcastLocked()
	m.mu.Unlock()
	deliver()
}

// Subscribe registers a callback invoked synchronously with a fresh snapshot
// on every mutation. The callback is invoked once immediately so late
// subscribers see existing state. The returned func unregisters it.
func (m *Manager) Subscribe(fn func([]Notification)) func() {
	m.mu.Lock()
	m.nextSub++
	id := m.nextSub
	m.subs = append(m.subs, subscriber{id: id, fn: fn})
	snap := m.snapshotLocked()
	m.mu.Unlock()

	fn(snap)

	return func() {
		m.mu.Lock()
		for i := range m.subs {
			if m.subs[i].id == id {
				m.subs = append(m.subs[:i], m.subs[i+1:]...)
				break
			}
		}
		m.mu.Unlock()
	}
}

func (m *Manager) snapshotLocked() []Notification {
	out := make([]Notification, len(m.list))
	copy(out, m.list)
	return out
}

// prepareBroadcastLocked captures the fresh snapshot and the current
// receivers. The returned func must be called after the state lock is
// released, and before the mutating call returns: subscribers first, in
// registration order, then the ambient publishers.
func (m *Manager) prepareBroadcastLocked() func() {
	snap := m.snapshotLocked()
	m.lastDelivered, _ = json.Marshal(snap)
	subs := make([]subscriber, len(m.subs))
	copy(subs, m.subs)
	ambient := m.ambient
	return func() {
		for _, sub := range subs {
			sub.fn(snap)
		}
		s := Snapshot{Notifications: snap, Timestamp: time.Now().UTC()}
		for _, p := range ambient {
			p.Publish(s)
		}
	}
}

func (m *Manager) loadLocked() error {
	b, err := m.store.Read(NotificationsKey)
	if err != nil {
		return err
	}
	var list []Notification
	if err := json.Unmarshal(b, &list); err != nil {
		log.Printf("[notify] corrupt notification blob: %s\n", err.Error())
		return err
	}
	m.list = list
	return nil
}

func (m *Manager) loadSettingsLocked() {
	m.settings = DefaultSettings()
	b, err := m.store.Read(SettingsKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("[notify] error reading settings: %s\n", err.Error())
		}
		return
	}
	// Unmarshal over the defaults so blobs saved by an older build keep
	// working: missing keys fall back to the default value.
	if err := json.Unmarshal(b, &m.settings); err != nil {
		log.Printf("[notify] corrupt settings blob, using defaults: %s\n", err.Error())
		m.settings = DefaultSettings()
	}
}

func (m *Manager) persistLocked() {
	b, err := json.Marshal(m.list)
	if err != nil {
		log.Printf("[notify] error serializing notifications: %s\n", err.Error())
		return
	}
	if err := m.store.Write(NotificationsKey, b); err != nil {
		log.Printf("[notify] error persisting notifications: %s\n", err.Error())
	}
}

func (m *Manager) seedLocked() {
	log.Println("[notify] empty storage, seeding welcome notifications")
	now := time.Now().UTC()
	m.list = []Notification{
		{
			ID:        WelcomePrefix + "notifications",
			Title:     "Event reminders are on",
			Message:   "You will be notified ahead of upcoming campus events. Tune this in Notification Settings.",
			Type:      TypeCustom,
			Priority:  PriorityLow,
			Timestamp: now,
			ActionURL: "/settings/notifications",
		},
		{
			ID:        WelcomePrefix + "portal",
			Title:     "Welcome to the Student Portal",
			Message:   "Find housing, dining, billing and tutoring info, browse the campus map, and keep up with the event calendar.",
			Type:      TypeSystem,
			Priority:  PriorityMedium,
			Timestamp: now,
		},
	}
	m.persistLocked()
}
