package client

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/stride-app/stride/pkg/events"
	"github.com/stride-app/stride/pkg/types"
)

// Cache mirrors the server's flat query results locally, keyed by entity id.
// Pushed change events are merged in place; derived views (subtask grouping,
// resolved tags) are rebuilt from the flat state on demand and never sent
// back to the server.
type Cache struct {
	mu    sync.RWMutex
	tasks map[string]*types.Task
	tags  map[string]*types.Tag
}

// TaskView is a task enriched with client-side derived fields.
type TaskView struct {
	*types.Task
	Subtasks []*types.Task
	Tags     []*types.Tag
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		tasks: make(map[string]*types.Task),
		tags:  make(map[string]*types.Tag),
	}
}

// ReplaceTasks swaps the task table wholesale, as after a refetch.
func (c *Cache) ReplaceTasks(tasks []*types.Task) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tasks = make(map[string]*types.Task, len(tasks))
	for _, t := range tasks {
		c.tasks[t.ID] = t
	}
}

// ReplaceTags swaps the tag table wholesale.
func (c *Cache) ReplaceTags(tags []*types.Tag) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tags = make(map[string]*types.Tag, len(tags))
	for _, tag := range tags {
		c.tags[tag.ID] = tag
	}
}

// UpsertTask inserts or replaces one task.
func (c *Cache) UpsertTask(t *types.Task) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tasks[t.ID] = t
}

// DeleteTask removes one task; absent ids are a no-op.
func (c *Cache) DeleteTask(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.tasks, id)
}

// ApplyOrder overwrites the rank of every listed task. Unknown ids are
// skipped: the entity may have been deleted by a concurrent event, and a
// later refetch reconciles.
func (c *Cache) ApplyOrder(updates []types.OrderUpdate) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, u := range updates {
		if t, ok := c.tasks[u.ID]; ok {
			t.Order = u.Order
		}
	}
}

// Tasks returns the cached top-level tasks sorted by rank.
func (c *Cache) Tasks() []*types.Task {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var tasks []*types.Task
	for _, t := range c.tasks {
		if t.ParentID == "" {
			tasks = append(tasks, t)
		}
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].Order < tasks[j].Order })
	return tasks
}

// Task returns one cached task by id.
func (c *Cache) Task(id string) (*types.Task, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.tasks[id]
	return t, ok
}

// Views returns the top-level tasks sorted by rank, with subtasks grouped
// under their parents and tag ids resolved against the tag table.
func (c *Cache) Views() []TaskView {
	c.mu.RLock()
	defer c.mu.RUnlock()

	subtasks := make(map[string][]*types.Task)
	for _, t := range c.tasks {
		if t.ParentID != "" {
			subtasks[t.ParentID] = append(subtasks[t.ParentID], t)
		}
	}
	for _, children := range subtasks {
		sort.Slice(children, func(i, j int) bool { return children[i].Order < children[j].Order })
	}

	var views []TaskView
	for _, t := range c.tasks {
		if t.ParentID != "" {
			continue
		}
		view := TaskView{Task: t, Subtasks: subtasks[t.ID]}
		for _, tagID := range t.TagIDs {
			if tag, ok := c.tags[tagID]; ok {
				view.Tags = append(view.Tags, tag)
			}
		}
		views = append(views, view)
	}
	sort.Slice(views, func(i, j int) bool { return views[i].Order < views[j].Order })
	return views
}

// ApplyEvent merges one pushed change event into the cache. Unknown entity
// types are ignored; the stream may carry events this client does not
// display.
func (c *Cache) ApplyEvent(entity events.EntityType, action events.Action, payload json.RawMessage) error {
	switch entity {
	case events.EntityTask:
		return c.applyTaskEvent(action, payload)
	case events.EntityTag:
		return c.applyTagEvent(action, payload)
	default:
		return nil
	}
}

func (c *Cache) applyTaskEvent(action events.Action, payload json.RawMessage) error {
	switch action {
	case events.ActionCreate, events.ActionUpdate:
		var task types.Task
		if err := json.Unmarshal(payload, &task); err != nil {
			return fmt.Errorf("bad task payload: %w", err)
		}
		c.UpsertTask(&task)
	case events.ActionDelete:
		var del events.Deleted
		if err := json.Unmarshal(payload, &del); err != nil {
			return fmt.Errorf("bad delete payload: %w", err)
		}
		c.DeleteTask(del.ID)
	case events.ActionReorder:
		var updates []types.OrderUpdate
		if err := json.Unmarshal(payload, &updates); err != nil {
			return fmt.Errorf("bad reorder payload: %w", err)
		}
		c.ApplyOrder(updates)
	}
	return nil
}

func (c *Cache) applyTagEvent(action events.Action, payload json.RawMessage) error {
	switch action {
	case events.ActionCreate, events.ActionUpdate:
		var tag types.Tag
		if err := json.Unmarshal(payload, &tag); err != nil {
			return fmt.Errorf("bad tag payload: %w", err)
		}
		c.mu.Lock()
		c.tags[tag.ID] = &tag
		c.mu.Unlock()
	case events.ActionDelete:
		var del events.Deleted
		if err := json.Unmarshal(payload, &del); err != nil {
			return fmt.Errorf("bad delete payload: %w", err)
		}
		c.mu.Lock()
		delete(c.tags, del.ID)
		c.mu.Unlock()
	}
	return nil
}
