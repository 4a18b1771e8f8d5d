// Package pubsub publishes chronicle events to NATS so external tools
// (explorers, dashboards) can follow a world's history live.
package pubsub

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"darktower-backend/internal/chronicle"
)

// EventPublisher pushes chronicle events onto history.events.{type}.
// Publication is best-effort: a failed publish is logged, never fatal.
type EventPublisher struct {
	nc      *nats.Conn
	worldID uuid.UUID
}

// NewEventPublisher creates a publisher for one world.
func NewEventPublisher(nc *nats.Conn, worldID uuid.UUID) *EventPublisher {
	return &EventPublisher{nc: nc, worldID: worldID}
}

type eventMessage struct {
	WorldID     string `json:"world_id"`
	EventID     uint64 `json:"event_id"`
	Type        string `json:"type"`
	Year        int    `json:"year"`
	Season      int    `json:"season"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	X           *int   `json:"x,omitempty"`
	Y           *int   `json:"y,omitempty"`
}

// Publish sends one event.
func (p *EventPublisher) Publish(e chronicle.Event) {
	msg := eventMessage{
		WorldID: p.worldID.String(),
		EventID: uint64(e.ID),
		Type:    e.Type.String(),
		Year:    e.Date.Year,
		Season:  e.Date.Season,
		Title:   e.Title,
	}
	if e.HasLocation {
		msg.X, msg.Y = &e.Location.X, &e.Location.Y
	}

	data, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal chronicle event")
		return
	}
	subject := fmt.Sprintf("history.events.%s", e.Type)
	if err := p.nc.Publish(subject, data); err != nil {
		log.Warn().Err(err).Str("subject", subject).Msg("Failed to publish chronicle event")
	}
}

// PublishBatch sends every event in order.
func (p *EventPublisher) PublishBatch(events []chronicle.Event) {
	for _, e := range events {
		p.Publish(e)
	}
}
