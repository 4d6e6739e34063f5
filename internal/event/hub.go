// Package event carries in-process notifications between the catalog, the
// library and whoever wants to observe them.
package event

import (
	"context"
	"log/slog"

	"github.com/leandro-lugaresi/hub"
)

type Hub = hub.Hub
type Data = hub.Fields
type Message = hub.Message
type Subscription = hub.Subscription

const (
	CatalogLive    = "catalog.live"
	PhotoDeleted   = "photo.deleted"
	PhotoUpdated   = "photo.updated"
	LibraryScanned = "library.scanned"
)

var channelCap = 100

func NewHub() *Hub {
	return hub.New()
}

// Publish sends a message on h. A nil hub drops the message.
func Publish(h *Hub, name string, data Data) {
	if h == nil {
		return
	}
	h.Publish(Message{
		Name:   name,
		Fields: data,
	})
}

// Subscribe returns a non-blocking subscription; slow readers lose messages
// instead of stalling publishers.
func Subscribe(h *Hub, topics ...string) Subscription {
	return h.NonBlockingSubscribe(channelCap, topics...)
}

// Log writes every message received on topics to logger until ctx is done.
func Log(ctx context.Context, h *Hub, logger *slog.Logger, topics ...string) {
	sub := Subscribe(h, topics...)
	defer h.Unsubscribe(sub)

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-sub.Receiver:
			if !ok {
				return
			}
			attrs := make([]any, 0, len(msg.Fields)*2+2)
			attrs = append(attrs, "event", msg.Topic())
			for k, v := range msg.Fields {
				attrs = append(attrs, k, v)
			}
			logger.Info("event", attrs...)
		}
	}
}
