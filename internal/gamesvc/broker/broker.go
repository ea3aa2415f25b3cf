package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/avvvet/animalia/internal/comm"
	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

// Topic carries every leaderboard and room event of all instances.
const Topic = "animalia.events"

type Broker struct {
	Conn    *nats.Conn
	deliver func(comm.Event)
}

// NewBroker creates a broker publishing on Topic. Events received on Topic are
// handed to deliver, usually the live hub.
func NewBroker(nc *nats.Conn, deliver func(comm.Event)) *Broker {
	return &Broker{
		Conn:    nc,
		deliver: deliver,
	}
}

// Publish implements service.EventPublisher.
func (b *Broker) Publish(_ context.Context, event comm.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event.Type, err)
	}

	if err := b.Conn.Publish(Topic, payload); err != nil {
		return fmt.Errorf("publish to topic %s: %w", Topic, err)
	}

	return nil
}

func (b *Broker) Subscribe() (*nats.Subscription, error) {
	sub, err := b.Conn.Subscribe(Topic, b.handleMessage)
	if err != nil {
		return nil, err
	}

	return sub, nil
}

// handleMessage receives events of this and other instances
func (b *Broker) handleMessage(msg *nats.Msg) {
	event := comm.Event{}
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		log.Errorf("Error invalid event on %s: %s", msg.Subject, err)
		return
	}

	switch event.Type {
	case comm.EventResultRecorded, comm.EventLeaderboardReset, comm.EventRoomSaved, comm.EventRoomDeleted:
		if b.deliver != nil {
			b.deliver(event)
		}
	default:
		log.Warnf("unknown event received: %s", event.Type)
	}
}
