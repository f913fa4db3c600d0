package events

import (
	platformevents "lead_outreach_backend/platform/events"
	"lead_outreach_backend/platform/logger"
)

// InMemoryBus is the process-local bus used by cmd/api.
type InMemoryBus = platformevents.InMemoryBus

// NewInMemoryBus creates an empty bus; domain modules subscribe during wiring.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return platformevents.NewInMemoryBus(log)
}
