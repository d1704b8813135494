package events

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stride-app/stride/pkg/types"
)

func recordingSender(events *[]Event) Sender {
	return func(ev Event) error {
		*events = append(*events, ev)
		return nil
	}
}

// TestBroadcastSkipsOrigin tests echo suppression: the originating client
// never receives its own mutation
func TestBroadcastSkipsOrigin(t *testing.T) {
	r := NewRegistry()
	d := NewDispatcher(r)

	var gotA, gotB, gotC []Event
	r.Register("user-1", "a1", recordingSender(&gotA))
	r.Register("user-1", "b1", recordingSender(&gotB))
	r.Register("user-1", "c1", recordingSender(&gotC))

	d.Broadcast("user-1", Event{Type: EntityTask, Action: ActionUpdate}, "a1")

	assert.Empty(t, gotA)
	assert.Len(t, gotB, 1)
	assert.Len(t, gotC, 1)
}

// TestBroadcastOtherUsersUnaffected tests user isolation
func TestBroadcastOtherUsersUnaffected(t *testing.T) {
	r := NewRegistry()
	d := NewDispatcher(r)

	var gotOther []Event
	r.Register("user-2", "x1", recordingSender(&gotOther))

	d.Broadcast("user-1", Event{Type: EntityTask, Action: ActionCreate}, "")

	assert.Empty(t, gotOther)
}

// TestBroadcastNoSubscribers tests that broadcasting into an empty registry
// is a no-op
func TestBroadcastNoSubscribers(t *testing.T) {
	r := NewRegistry()
	d := NewDispatcher(r)

	assert.NotPanics(t, func() {
		d.Broadcast("user-1", Event{Type: EntityTask, Action: ActionDelete}, "a1")
	})
}

// TestBroadcastSelfHealsOnFailure tests that a failing sender is
// unregistered while the rest of the fan-out completes
func TestBroadcastSelfHealsOnFailure(t *testing.T) {
	r := NewRegistry()
	d := NewDispatcher(r)

	var gotB []Event
	r.Register("user-1", "dead", func(Event) error {
		return errors.New("connection closed")
	})
	r.Register("user-1", "b1", recordingSender(&gotB))

	d.Broadcast("user-1", Event{Type: EntityTask, Action: ActionUpdate}, "")

	assert.Len(t, gotB, 1, "healthy subscriber still receives the event")
	assert.Equal(t, 1, r.Count("user-1"), "dead subscriber removed")
	assert.Equal(t, "b1", r.Subscribers("user-1")[0].ClientID)

	// A later broadcast does not attempt delivery to the removed subscriber.
	d.Broadcast("user-1", Event{Type: EntityTask, Action: ActionUpdate}, "")
	assert.Len(t, gotB, 2)
}

// TestDispatcherHelpers tests the per-action entry points funnel into the
// same delivery contract
func TestDispatcherHelpers(t *testing.T) {
	r := NewRegistry()
	d := NewDispatcher(r)

	var got []Event
	r.Register("user-1", "b1", recordingSender(&got))

	task := &types.Task{ID: "t1", Title: "water the plants"}
	updates := []types.OrderUpdate{{ID: "t1", Order: 0}, {ID: "t2", Order: 1}}

	d.Created("user-1", EntityTask, task, "a1")
	d.Updated("user-1", EntityTask, task, "a1")
	d.Deleted("user-1", EntityTask, "t1", "a1")
	d.Reordered("user-1", EntityTask, updates, "a1")

	assert.Len(t, got, 4)
	assert.Equal(t, ActionCreate, got[0].Action)
	assert.Equal(t, ActionUpdate, got[1].Action)
	assert.Equal(t, ActionDelete, got[2].Action)
	assert.Equal(t, Deleted{ID: "t1"}, got[2].Payload)
	assert.Equal(t, ActionReorder, got[3].Action)
	assert.Equal(t, updates, got[3].Payload)
}
