package events

// EntityType identifies which domain entity an event refers to. It is a
// routing tag only; the payload shape is owned by the producer.
type EntityType string

const (
	EntityTask        EntityType = "task"
	EntitySection     EntityType = "section"
	EntityFolder      EntityType = "folder"
	EntitySmartFolder EntityType = "smart-folder"
	EntityTag         EntityType = "tag"
)

// Action describes what happened to the entity.
type Action string

const (
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionReorder Action = "reorder"
)

// Event is one change notification fanned out to a user's live subscribers.
// Events are ephemeral: they exist only for the duration of the broadcast
// and are never persisted.
type Event struct {
	Type    EntityType `json:"type"`
	Action  Action     `json:"action"`
	Payload any        `json:"payload,omitempty"`
}

// Deleted is the payload of a delete event.
type Deleted struct {
	ID string `json:"id"`
}
