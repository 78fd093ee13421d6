package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

const subject = "embeddings.saved"

// NewNATS constructs a NATS-backed notifier for multi-process setups:
// every listening process refreshes its loaded set when any of them saves.
func NewNATS(log *slog.Logger, nc *nats.Conn) *NATSNotifier {
	return &NATSNotifier{log: log, nc: nc}
}

type NATSNotifier struct {
	log *slog.Logger
	nc  *nats.Conn
}

func (n *NATSNotifier) EmbeddingsSaved(_ context.Context, path string) error {
	event := Event{
		ID:      uuid.New(),
		Path:    path,
		SavedAt: time.Now().UTC(),
	}
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return n.nc.Publish(subject, body)
}

// Listen invokes handler for every save event until ctx is done.
func (n *NATSNotifier) Listen(ctx context.Context, handler func(context.Context, Event)) error {
	sub, err := n.nc.Subscribe(subject, func(msg *nats.Msg) {
		var event Event
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			n.log.Error("failed to decode save event", "err", err)
			return
		}
		handler(ctx, event)
	})
	if err != nil {
		return err
	}
	<-ctx.Done()
	return sub.Unsubscribe()
}
