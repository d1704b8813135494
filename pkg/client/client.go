package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/stride-app/stride/pkg/log"
	"github.com/stride-app/stride/pkg/types"
)

// Client is the reconciliation side of Stride's live sync: a REST client
// plus an event-stream subscriber that merges pushed changes into a local
// cache and tracks online/offline sync state.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
	logger  zerolog.Logger

	mu           sync.RWMutex
	clientID     string
	cancelStream context.CancelFunc

	cache *Cache
	sync  *SyncState
}

// NewClient creates a client for the given server and bearer token.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpc:   &http.Client{Timeout: 10 * time.Second},
		logger:  log.WithComponent("client"),
		cache:   NewCache(),
		sync:    NewSyncState(),
	}
}

// Cache returns the client's local entity cache.
func (c *Client) Cache() *Cache {
	return c.cache
}

// Sync returns the client's connectivity and sync bookkeeping.
func (c *Client) Sync() *SyncState {
	return c.sync
}

// ClientID returns the stream id assigned on connect, or empty if no stream
// has connected yet. Every mutation is tagged with it so the server does not
// echo the client's own changes back.
func (c *Client) ClientID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.clientID
}

func (c *Client) setClientID(id string) {
	c.mu.Lock()
	c.clientID = id
	c.mu.Unlock()
}

// do issues one authenticated request and decodes the response into out.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var buf io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		buf = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, buf)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := c.ClientID(); id != "" {
		req.Header.Set("X-Client-Id", id)
	}

	c.sync.BeginSync()
	defer c.sync.EndSync()

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: %s (status %d)", method, path, apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// taskBody is the wire shape of a task mutation. The server owns id,
// user id, and the timestamps, and rejects bodies that carry unknown
// fields, so only the mutable fields go out.
type taskBody struct {
	Title     string     `json:"title"`
	Notes     string     `json:"notes"`
	FolderID  string     `json:"folderId"`
	SectionID string     `json:"sectionId"`
	ParentID  string     `json:"parentId"`
	Completed bool       `json:"completed"`
	Order     int        `json:"order"`
	TagIDs    []string   `json:"tagIds"`
	DueDate   *time.Time `json:"dueDate"`
}

func taskBodyFrom(t *types.Task) taskBody {
	return taskBody{
		Title:     t.Title,
		Notes:     t.Notes,
		FolderID:  t.FolderID,
		SectionID: t.SectionID,
		ParentID:  t.ParentID,
		Completed: t.Completed,
		Order:     t.Order,
		TagIDs:    t.TagIDs,
		DueDate:   t.DueDate,
	}
}

// CreateTask creates a task and upserts it into the cache.
func (c *Client) CreateTask(ctx context.Context, req *types.Task) (*types.Task, error) {
	var task types.Task
	if err := c.do(ctx, http.MethodPost, "/v1/tasks", taskBodyFrom(req), &task); err != nil {
		return nil, err
	}
	c.cache.UpsertTask(&task)
	return &task, nil
}

// ListTasks fetches all tasks and replaces the cache contents.
func (c *Client) ListTasks(ctx context.Context) ([]*types.Task, error) {
	var tasks []*types.Task
	if err := c.do(ctx, http.MethodGet, "/v1/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	c.cache.ReplaceTasks(tasks)
	return tasks, nil
}

// UpdateTask updates a task and upserts the result into the cache.
func (c *Client) UpdateTask(ctx context.Context, task *types.Task) (*types.Task, error) {
	var updated types.Task
	if err := c.do(ctx, http.MethodPut, "/v1/tasks/"+task.ID, taskBodyFrom(task), &updated); err != nil {
		return nil, err
	}
	c.cache.UpsertTask(&updated)
	return &updated, nil
}

// DeleteTask deletes a task and drops it from the cache.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/v1/tasks/"+id, nil, nil); err != nil {
		return err
	}
	c.cache.DeleteTask(id)
	return nil
}

// ReorderTasks applies the move optimistically, persists it, and replaces
// the cache with the server's authoritative list. On failure the optimistic
// ranks are overwritten by the next refetch.
func (c *Client) ReorderTasks(ctx context.Context, updates []types.OrderUpdate) ([]*types.Task, error) {
	c.cache.ApplyOrder(updates)

	var tasks []*types.Task
	body := map[string][]types.OrderUpdate{"updates": updates}
	if err := c.do(ctx, http.MethodPut, "/v1/tasks/reorder", body, &tasks); err != nil {
		return nil, err
	}
	c.cache.ReplaceTasks(tasks)
	return tasks, nil
}

// ListTags fetches all tags and replaces the cache's tag table, which backs
// tag resolution on task views.
func (c *Client) ListTags(ctx context.Context) ([]*types.Tag, error) {
	var tags []*types.Tag
	if err := c.do(ctx, http.MethodGet, "/v1/tags", nil, &tags); err != nil {
		return nil, err
	}
	c.cache.ReplaceTags(tags)
	return tags, nil
}

// refetch reconciles local state after a reconnect. Events missed while
// disconnected are not replayed; a full refetch covers them.
func (c *Client) refetch(ctx context.Context) error {
	if _, err := c.ListTasks(ctx); err != nil {
		return err
	}
	if _, err := c.ListTags(ctx); err != nil {
		return err
	}
	c.sync.RecordSync(SyncRecord{Kind: "refetch", At: time.Now()})
	return nil
}
