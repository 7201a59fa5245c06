package services

import "context"

// EventPublisher receives domain events after the state change that produced
// them has been persisted. Publishing is fire-and-forget: services log a
// failed publish and carry on, they never roll back on one.
type EventPublisher interface {
	Publish(ctx context.Context, eventName string, payload any)
}
