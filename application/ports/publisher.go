package ports

import (
	"context"

	"inviter-backend/domain/events"
)

// EventPublisher pushes domain events onto the bus for the notification
// dispatcher and other downstream consumers. Publishing is best-effort
// from the caller's point of view: services log failures but do not roll
// back the write the event describes.
type EventPublisher interface {
	Publish(ctx context.Context, evts ...events.DomainEvent) error
}
