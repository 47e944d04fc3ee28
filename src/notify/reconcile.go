package notify

import (
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"portal/src/config"
	"portal/src/types"
)

const (
	upcomingWindow  = 7 * 24 * time.Hour
	maxPerRun       = 3
	maxDedupeKeys   = 100
	dedupeKeyPrefix = "upcoming_event_"
)

// Reconciler turns upcoming calendar events into at most one notification
// per event. It only runs when invoked (calendar sync, the "check now"
// action); there is no background timer polling the calendar.
type Reconciler struct {
	m *Manager

	mu   sync.Mutex
	keys []string
	seen map[string]struct{}
}

func NewReconciler(m *Manager) *Reconciler {
	return &Reconciler{
		m:    m,
		seen: make(map[string]struct{}),
	}
}

// Reconcile notifies for the 3 earliest events starting within the next 7
// days, skipping events already notified. Dedupe is checked twice: against
// the recently-processed key set and against live notifications in the
// canonical list, so a run never re-submits an event the user can still see.
// Returns the number of notifications created.
func (r *Reconciler) Reconcile(events []types.CalendarEvent, now time.Time) int {
	upcoming := make([]types.CalendarEvent, 0, len(events))
	horizon := now.Add(upcomingWindow)
	for _, e := range events {
		if e.StartTime.Before(now) || e.StartTime.After(horizon) {
			continue
		}
		upcoming = append(upcoming, e)
	}
	sort.Slice(upcoming, func(i, j int) bool {
		return upcoming[i].StartTime.Before(upcoming[j].StartTime)
	})
	if len(upcoming) > maxPerRun {
		upcoming = upcoming[:maxPerRun]
	}

	created := 0
	r.mu.Lock()
	for _, e := range upcoming {
		key := dedupeKeyPrefix + e.ID
		if _, ok := r.seen[key]; ok {
			continue
		}
		if r.m.HasEventNotification(e.ID) {
			r.remember(key)
			continue
		}
		start := e.StartTime
		_, added := r.m.Add(Candidate{
			Title:     "Upcoming Event",
			Message:   fmt.Sprintf("%s starts %s", e.Title, start.Format(config.EVENT_DISPLAY_FORMAT)),
			Type:      TypeEvent,
			Priority:  PriorityMedium,
			EventID:   e.ID,
			EventDate: &start,
			ActionURL: "/calendar",
		})
		if !added {
			// Write gate is closed; leave the key unseen so the event can
			// still notify once push is re-enabled.
			continue
		}
		r.remember(key)
		created++
	}
	r.mu.Unlock()
	if created > 0 {
		log.Printf("[notify] reconciled %d event notification(s)\n", created)
	}
	return created
}

// remember records a dedupe key, trimming to the most recent 100. Old keys
// may be forgotten and re-notified; the 7-day window makes that unlikely.
func (r *Reconciler) remember(key string) {
	if _, ok := r.seen[key]; ok {
		return
	}
	r.keys = append(r.keys, key)
	r.seen[key] = struct{}{}
	if len(r.keys) > maxDedupeKeys {
		drop := r.keys[0]
		r.keys = r.keys[1:]
		delete(r.seen, drop)
	}
}
