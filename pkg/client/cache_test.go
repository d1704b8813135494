package client

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stride-app/stride/pkg/events"
	"github.com/stride-app/stride/pkg/types"
)

func TestCacheApplyTaskEvents(t *testing.T) {
	c := NewCache()

	created, _ := json.Marshal(&types.Task{ID: "t1", Title: "Buy milk", Order: 1})
	require.NoError(t, c.ApplyEvent(events.EntityTask, events.ActionCreate, created))

	got, ok := c.Task("t1")
	require.True(t, ok)
	assert.Equal(t, "Buy milk", got.Title)

	updated, _ := json.Marshal(&types.Task{ID: "t1", Title: "Buy oat milk", Order: 1})
	require.NoError(t, c.ApplyEvent(events.EntityTask, events.ActionUpdate, updated))

	got, _ = c.Task("t1")
	assert.Equal(t, "Buy oat milk", got.Title)

	deleted, _ := json.Marshal(events.Deleted{ID: "t1"})
	require.NoError(t, c.ApplyEvent(events.EntityTask, events.ActionDelete, deleted))

	_, ok = c.Task("t1")
	assert.False(t, ok)
}

func TestCacheApplyReorderEvent(t *testing.T) {
	c := NewCache()
	c.ReplaceTasks([]*types.Task{
		{ID: "a", Order: 1},
		{ID: "b", Order: 2},
		{ID: "c", Order: 3},
	})

	payload, _ := json.Marshal([]types.OrderUpdate{
		{ID: "c", Order: 1},
		{ID: "a", Order: 2},
		{ID: "b", Order: 3},
		{ID: "ghost", Order: 4}, // deleted concurrently, skipped
	})
	require.NoError(t, c.ApplyEvent(events.EntityTask, events.ActionReorder, payload))

	tasks := c.Tasks()
	require.Len(t, tasks, 3)
	assert.Equal(t, "c", tasks[0].ID)
	assert.Equal(t, "a", tasks[1].ID)
	assert.Equal(t, "b", tasks[2].ID)
}

func TestCacheApplyEventUnknownEntityIgnored(t *testing.T) {
	c := NewCache()
	assert.NoError(t, c.ApplyEvent(events.EntityType("habit"), events.ActionCreate, json.RawMessage(`{}`)))
}

func TestCacheApplyEventBadPayload(t *testing.T) {
	c := NewCache()
	assert.Error(t, c.ApplyEvent(events.EntityTask, events.ActionCreate, json.RawMessage(`not json`)))
}

func TestCacheViews(t *testing.T) {
	c := NewCache()
	c.ReplaceTags([]*types.Tag{
		{ID: "tag1", Name: "errand"},
	})
	c.ReplaceTasks([]*types.Task{
		{ID: "p1", Title: "Groceries", Order: 2, TagIDs: []string{"tag1", "missing"}},
		{ID: "p2", Title: "Taxes", Order: 1},
		{ID: "s1", Title: "Milk", ParentID: "p1", Order: 2},
		{ID: "s2", Title: "Bread", ParentID: "p1", Order: 1},
	})

	views := c.Views()
	require.Len(t, views, 2)

	assert.Equal(t, "p2", views[0].ID)
	assert.Empty(t, views[0].Subtasks)

	assert.Equal(t, "p1", views[1].ID)
	require.Len(t, views[1].Subtasks, 2)
	assert.Equal(t, "s2", views[1].Subtasks[0].ID)
	assert.Equal(t, "s1", views[1].Subtasks[1].ID)

	// Unknown tag ids resolve to nothing rather than failing the view.
	require.Len(t, views[1].Tags, 1)
	assert.Equal(t, "errand", views[1].Tags[0].Name)
}

func TestCacheApplyTagEvents(t *testing.T) {
	c := NewCache()

	created, _ := json.Marshal(&types.Tag{ID: "tag1", Name: "work"})
	require.NoError(t, c.ApplyEvent(events.EntityTag, events.ActionCreate, created))

	c.ReplaceTasks([]*types.Task{{ID: "t1", TagIDs: []string{"tag1"}}})
	views := c.Views()
	require.Len(t, views, 1)
	require.Len(t, views[0].Tags, 1)

	deleted, _ := json.Marshal(events.Deleted{ID: "tag1"})
	require.NoError(t, c.ApplyEvent(events.EntityTag, events.ActionDelete, deleted))

	views = c.Views()
	require.Len(t, views, 1)
	assert.Empty(t, views[0].Tags)
}
