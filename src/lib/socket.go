package lib

import (
	"log"

	"portal/src/notify"

	"github.com/zishang520/socket.io/v2/socket"
)

// SocketPublisher emits notification snapshots to every connected browser
// tab; this is the ambient channel the bell and dropdown widgets listen on.
type SocketPublisher struct {
	inner *socket.Server
}

func NewSocketPublisher(s *socket.Server) *SocketPublisher {
	return &SocketPublisher{inner: s}
}

func (p *SocketPublisher) Name() string {
	return "SocketIO"
}

func (p *SocketPublisher) Publish(s notify.Snapshot) {
	if err := p.inner.Emit("notifications:update", s); err != nil {
		log.Printf("[socket] Error emitting snapshot: %s\n", err.Error())
	}
}
