package events

import (
	"github.com/rs/zerolog"

	"github.com/stride-app/stride/pkg/log"
	"github.com/stride-app/stride/pkg/metrics"
	"github.com/stride-app/stride/pkg/types"
)

// Dispatcher fans change events out to a user's live subscribers, skipping
// the client that originated the mutation. Delivery is best-effort: a failed
// send unregisters that subscriber and is never surfaced to the caller.
type Dispatcher struct {
	registry *Registry
	logger   zerolog.Logger
}

// NewDispatcher creates a dispatcher bound to a registry.
func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		logger:   log.WithComponent("dispatcher"),
	}
}

// Broadcast delivers ev to every subscriber of userID except the one whose
// client id equals originClientID. The originator already holds the
// authoritative state from its own mutation response and must not re-process
// its echo. A sender that fails is removed from the registry; the remaining
// subscribers still receive the event.
func (d *Dispatcher) Broadcast(userID string, ev Event, originClientID string) {
	for _, sub := range d.registry.Subscribers(userID) {
		if sub.ClientID == originClientID {
			continue
		}

		if err := sub.Send(ev); err != nil {
			// Dead stream: self-heal by dropping this exact registration.
			// A replacement registered since the snapshot is untouched.
			d.registry.remove(userID, sub.ClientID, sub.gen)
			metrics.EventDeliveryFailures.Inc()
			d.logger.Warn().
				Err(err).
				Str("user_id", userID).
				Str("client_id", sub.ClientID).
				Str("entity", string(ev.Type)).
				Msg("dropping unreachable subscriber")
			continue
		}
		metrics.EventsDelivered.WithLabelValues(string(ev.Type), string(ev.Action)).Inc()
	}
}

// Created broadcasts a create event carrying the full new entity.
func (d *Dispatcher) Created(userID string, entity EntityType, payload any, originClientID string) {
	d.Broadcast(userID, Event{Type: entity, Action: ActionCreate, Payload: payload}, originClientID)
}

// Updated broadcasts an update event carrying the full updated entity.
func (d *Dispatcher) Updated(userID string, entity EntityType, payload any, originClientID string) {
	d.Broadcast(userID, Event{Type: entity, Action: ActionUpdate, Payload: payload}, originClientID)
}

// Deleted broadcasts a delete event carrying only the entity id.
func (d *Dispatcher) Deleted(userID string, entity EntityType, id string, originClientID string) {
	d.Broadcast(userID, Event{Type: entity, Action: ActionDelete, Payload: Deleted{ID: id}}, originClientID)
}

// Reordered broadcasts the full new ordering so receivers replace their
// local order wholesale instead of applying a delta.
func (d *Dispatcher) Reordered(userID string, entity EntityType, updates []types.OrderUpdate, originClientID string) {
	d.Broadcast(userID, Event{Type: entity, Action: ActionReorder, Payload: updates}, originClientID)
}
