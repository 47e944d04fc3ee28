package lib

import (
	"log"
	"os"

	"portal/src/notify"

	"github.com/pusher/pusher-http-go/v5"
)

var pusherClient *pusher.Client

func GetPusherClient() *pusher.Client {
	if pusherClient != nil {
		return pusherClient
	}
	pusherClient = &pusher.Client{
		AppID:   os.Getenv("PUSHER_APP_ID"),
		Key:     os.Getenv("PUSHER_KEY"),
		Secret:  os.Getenv("PUSHER_SECRET"),
		Cluster: os.Getenv("PUSHER_CLUSTER"),
	}
	return pusherClient
}

// PusherPublisher mirrors notification snapshots to a Pusher channel for
// clients that listen there instead of the portal's own socket endpoint.
type PusherPublisher struct {
	inner *pusher.Client
}

func NewPusherPublisher() *PusherPublisher {
	return &PusherPublisher{inner: GetPusherClient()}
}

func (p *PusherPublisher) Name() string {
	return "Pusher"
}

func (p *PusherPublisher) Publish(s notify.Snapshot) {
	if err := p.inner.Trigger("portal", "notifications:update", s); err != nil {
		log.Printf("[pusher] Error triggering event: %s\n", err.Error())
	}
}
