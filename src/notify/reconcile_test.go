package notify

import (
	"fmt"
	"testing"
	"time"

	"portal/src/types"

	"github.com/stretchr/testify/assert"
)

func eventAt(id string, start time.Time) types.CalendarEvent {
	return types.CalendarEvent{ID: id, Title: "Event " + id, StartTime: start}
}

func eventNotifications(m *Manager) map[string]int {
	got := map[string]int{}
	for _, n := range m.ListAll() {
		if n.Type == TypeEvent {
			got[n.EventID]++
		}
	}
	return got
}

func TestReconcileWindow(t *testing.T) {
	m := newTestManager(t)
	r := NewReconciler(m)
	now := time.Now()

	created := r.Reconcile([]types.CalendarEvent{
		eventAt("e1", now.Add(time.Hour)),
		eventAt("e2", now.Add(10*24*time.Hour)),
		eventAt("e3", now.Add(-time.Hour)),
	}, now)

	assert.Equal(t, 1, created)
	got := eventNotifications(m)
	assert.Equal(t, map[string]int{"e1": 1}, got)
}

func TestReconcileDedupe(t *testing.T) {
	m := newTestManager(t)
	r := NewReconciler(m)
	now := time.Now()
	events := []types.CalendarEvent{eventAt("e1", now.Add(time.Hour))}

	assert.Equal(t, 1, r.Reconcile(events, now))
	assert.Equal(t, 0, r.Reconcile(events, now))
	assert.Equal(t, 0, r.Reconcile(events, now))
	assert.Equal(t, 1, eventNotifications(m)["e1"])
}

func TestReconcileCapsPerRun(t *testing.T) {
	m := newTestManager(t)
	r := NewReconciler(m)
	now := time.Now()

	var events []types.CalendarEvent
	for i := 5; i >= 1; i-- {
		events = append(events, eventAt(fmt.Sprintf("e%d", i), now.Add(time.Duration(i)*time.Hour)))
	}
	created := r.Reconcile(events, now)
	assert.Equal(t, 3, created)

	// The 3 earliest-starting events win.
	got := eventNotifications(m)
	assert.Equal(t, map[string]int{"e1": 1, "e2": 1, "e3": 1}, got)
}

func TestReconcileSkipsLiveEventNotification(t *testing.T) {
	m := newTestManager(t)
	start := time.Now().Add(time.Hour)
	m.Add(Candidate{Title: "Upcoming Event", Message: "M", Type: TypeEvent, EventID: "e1", EventDate: &start})

	r := NewReconciler(m)
	created := r.Reconcile([]types.CalendarEvent{eventAt("e1", start)}, time.Now())
	assert.Equal(t, 0, created)
	assert.Equal(t, 1, eventNotifications(m)["e1"])
}

func TestReconcileDoesNotBurnKeyWhenGated(t *testing.T) {
	m := newTestManager(t)
	r := NewReconciler(m)
	now := time.Now()
	events := []types.CalendarEvent{eventAt("e1", now.Add(time.Hour))}

	s := m.Settings()
	s.PushNotifications = false
	m.UpdateSettings(s)
	assert.Equal(t, 0, r.Reconcile(events, now))

	s.PushNotifications = true
	m.UpdateSettings(s)
	assert.Equal(t, 1, r.Reconcile(events, now))
}

func TestDedupeMemoryIsBounded(t *testing.T) {
	m := newTestManager(t)
	r := NewReconciler(m)
	now := time.Now()

	for i := 0; i < 120; i++ {
		events := []types.CalendarEvent{eventAt(fmt.Sprintf("e%d", i), now.Add(time.Hour))}
		r.Reconcile(events, now)
	}
	assert.LessOrEqual(t, len(r.keys), maxDedupeKeys)
	assert.Equal(t, len(r.keys), len(r.seen))
}
