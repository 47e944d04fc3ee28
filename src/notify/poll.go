package notify

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"

	"portal/src/storage"
)

// Poll re-reads durable storage and redelivers to subscribers when the
// persisted list no longer matches the last delivered snapshot. It exists as
// an eventual-consistency fallback for observers that missed a broadcast
// (another process wrote the store, a subscriber attached mid-mutation); the
// broadcast channels remain the primary low-latency path. Ticks are cheap
// synchronous reads and never overlap in-flight work of a prior tick.
func (m *Manager) Poll() {
	m.mu.Lock()
	if err := m.loadLocked(); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("[notify] poll reload failed: %s\n", err.Error())
		}
		m.mu.Unlock()
		return
	}
	cur, err := json.Marshal(m.list)
	if err != nil || bytes.Equal(cur, m.lastDelivered) {
		m.mu.Unlock()
		return
	}
	deliver := m.prepareBroadcastLocked()
	m.mu.Unlock()
	deliver()
}
