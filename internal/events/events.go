// Package events publishes reservation lifecycle events to a message broker.
package events

import (
	"context"
	"time"
)

// Routing keys.
const (
	ReservationConfirmed = "reservation.confirmed"
	ReservationCancelled = "reservation.cancelled"
)

// Reservation is the payload of every reservation event.
type Reservation struct {
	Type          string    `json:"type"`
	ReservationID string    `json:"reservation_id"`
	SiteCode      string    `json:"site_code"`
	Status        string    `json:"status"`
	StartDate     string    `json:"start_date"`
	EndDate       string    `json:"end_date"`
	TotalPrice    int       `json:"total_price"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, e Reservation) error
	Close() error
}

// Noop drops every event. It is used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, Reservation) error { return nil }
func (Noop) Close() error                                { return nil }
