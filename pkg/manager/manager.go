package manager

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/stride-app/stride/pkg/events"
	"github.com/stride-app/stride/pkg/log"
	"github.com/stride-app/stride/pkg/metrics"
	"github.com/stride-app/stride/pkg/storage"
	"github.com/stride-app/stride/pkg/types"
)

// Manager coordinates persistence and live fan-out. Every mutation persists
// first, then broadcasts to the user's other connected clients; a broadcast
// problem never turns a successful mutation into an error.
type Manager struct {
	store      storage.Store
	dispatcher *events.Dispatcher
	logger     zerolog.Logger
}

// NewManager creates a manager over a store and dispatcher.
func NewManager(store storage.Store, dispatcher *events.Dispatcher) *Manager {
	return &Manager{
		store:      store,
		dispatcher: dispatcher,
		logger:     log.WithComponent("manager"),
	}
}

// Task operations

func (m *Manager) CreateTask(task *types.Task, originClientID string) error {
	if err := m.store.CreateTask(task); err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	metrics.MutationsTotal.WithLabelValues("task", "create").Inc()
	m.dispatcher.Created(task.UserID, events.EntityTask, task, originClientID)
	return nil
}

func (m *Manager) GetTask(userID, id string) (*types.Task, error) {
	return m.store.GetTask(userID, id)
}

func (m *Manager) ListTasks(userID string) ([]*types.Task, error) {
	return m.store.ListTasks(userID)
}

func (m *Manager) UpdateTask(task *types.Task, originClientID string) error {
	task.UpdatedAt = time.Now()
	if err := m.store.UpdateTask(task); err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	metrics.MutationsTotal.WithLabelValues("task", "update").Inc()
	m.dispatcher.Updated(task.UserID, events.EntityTask, task, originClientID)
	return nil
}

func (m *Manager) DeleteTask(userID, id, originClientID string) error {
	if err := m.store.DeleteTask(userID, id); err != nil {
		return err
	}
	metrics.MutationsTotal.WithLabelValues("task", "delete").Inc()
	m.dispatcher.Deleted(userID, events.EntityTask, id, originClientID)
	return nil
}

// ReorderTasks persists the new ranks atomically, then broadcasts the full
// order list so receivers replace their ordering wholesale. It returns the
// user's tasks with the new ranks applied.
func (m *Manager) ReorderTasks(userID string, updates []types.OrderUpdate, originClientID string) ([]*types.Task, error) {
	if err := m.store.ReorderTasks(userID, updates); err != nil {
		return nil, err
	}
	metrics.MutationsTotal.WithLabelValues("task", "reorder").Inc()
	m.dispatcher.Reordered(userID, events.EntityTask, updates, originClientID)
	return m.store.ListTasks(userID)
}

// Section operations

func (m *Manager) CreateSection(section *types.Section, originClientID string) error {
	if err := m.store.CreateSection(section); err != nil {
		return fmt.Errorf("failed to create section: %w", err)
	}
	metrics.MutationsTotal.WithLabelValues("section", "create").Inc()
	m.dispatcher.Created(section.UserID, events.EntitySection, section, originClientID)
	return nil
}

func (m *Manager) GetSection(userID, id string) (*types.Section, error) {
	return m.store.GetSection(userID, id)
}

func (m *Manager) ListSections(userID string) ([]*types.Section, error) {
	return m.store.ListSections(userID)
}

func (m *Manager) UpdateSection(section *types.Section, originClientID string) error {
	section.UpdatedAt = time.Now()
	if err := m.store.UpdateSection(section); err != nil {
		return fmt.Errorf("failed to update section: %w", err)
	}
	metrics.MutationsTotal.WithLabelValues("section", "update").Inc()
	m.dispatcher.Updated(section.UserID, events.EntitySection, section, originClientID)
	return nil
}

func (m *Manager) DeleteSection(userID, id, originClientID string) error {
	if err := m.store.DeleteSection(userID, id); err != nil {
		return err
	}
	metrics.MutationsTotal.WithLabelValues("section", "delete").Inc()
	m.dispatcher.Deleted(userID, events.EntitySection, id, originClientID)
	return nil
}

func (m *Manager) ReorderSections(userID string, updates []types.OrderUpdate, originClientID string) ([]*types.Section, error) {
	if err := m.store.ReorderSections(userID, updates); err != nil {
		return nil, err
	}
	metrics.MutationsTotal.WithLabelValues("section", "reorder").Inc()
	m.dispatcher.Reordered(userID, events.EntitySection, updates, originClientID)
	return m.store.ListSections(userID)
}

// Folder operations

func (m *Manager) CreateFolder(folder *types.Folder, originClientID string) error {
	if err := m.store.CreateFolder(folder); err != nil {
		return fmt.Errorf("failed to create folder: %w", err)
	}
	metrics.MutationsTotal.WithLabelValues("folder", "create").Inc()
	m.dispatcher.Created(folder.UserID, events.EntityFolder, folder, originClientID)
	return nil
}

func (m *Manager) GetFolder(userID, id string) (*types.Folder, error) {
	return m.store.GetFolder(userID, id)
}

func (m *Manager) ListFolders(userID string) ([]*types.Folder, error) {
	return m.store.ListFolders(userID)
}

func (m *Manager) UpdateFolder(folder *types.Folder, originClientID string) error {
	folder.UpdatedAt = time.Now()
	if err := m.store.UpdateFolder(folder); err != nil {
		return fmt.Errorf("failed to update folder: %w", err)
	}
	metrics.MutationsTotal.WithLabelValues("folder", "update").Inc()
	m.dispatcher.Updated(folder.UserID, events.EntityFolder, folder, originClientID)
	return nil
}

func (m *Manager) DeleteFolder(userID, id, originClientID string) error {
	if err := m.store.DeleteFolder(userID, id); err != nil {
		return err
	}
	metrics.MutationsTotal.WithLabelValues("folder", "delete").Inc()
	m.dispatcher.Deleted(userID, events.EntityFolder, id, originClientID)
	return nil
}

// Smart folder operations

func (m *Manager) CreateSmartFolder(sf *types.SmartFolder, originClientID string) error {
	if err := m.store.CreateSmartFolder(sf); err != nil {
		return fmt.Errorf("failed to create smart folder: %w", err)
	}
	metrics.MutationsTotal.WithLabelValues("smart-folder", "create").Inc()
	m.dispatcher.Created(sf.UserID, events.EntitySmartFolder, sf, originClientID)
	return nil
}

func (m *Manager) GetSmartFolder(userID, id string) (*types.SmartFolder, error) {
	return m.store.GetSmartFolder(userID, id)
}

func (m *Manager) ListSmartFolders(userID string) ([]*types.SmartFolder, error) {
	return m.store.ListSmartFolders(userID)
}

func (m *Manager) UpdateSmartFolder(sf *types.SmartFolder, originClientID string) error {
	sf.UpdatedAt = time.Now()
	if err := m.store.UpdateSmartFolder(sf); err != nil {
		return fmt.Errorf("failed to update smart folder: %w", err)
	}
	metrics.MutationsTotal.WithLabelValues("smart-folder", "update").Inc()
	m.dispatcher.Updated(sf.UserID, events.EntitySmartFolder, sf, originClientID)
	return nil
}

func (m *Manager) DeleteSmartFolder(userID, id, originClientID string) error {
	if err := m.store.DeleteSmartFolder(userID, id); err != nil {
		return err
	}
	metrics.MutationsTotal.WithLabelValues("smart-folder", "delete").Inc()
	m.dispatcher.Deleted(userID, events.EntitySmartFolder, id, originClientID)
	return nil
}

// QuerySmartFolder evaluates a smart folder's filter against the user's
// tasks.
func (m *Manager) QuerySmartFolder(userID, id string) ([]*types.Task, error) {
	sf, err := m.store.GetSmartFolder(userID, id)
	if err != nil {
		return nil, err
	}

	tasks, err := m.store.ListTasks(userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var matched []*types.Task
	for _, task := range tasks {
		if sf.Filter.Matches(task, now) {
			matched = append(matched, task)
		}
	}
	return matched, nil
}

// Tag operations

func (m *Manager) CreateTag(tag *types.Tag, originClientID string) error {
	if err := m.store.CreateTag(tag); err != nil {
		return fmt.Errorf("failed to create tag: %w", err)
	}
	metrics.MutationsTotal.WithLabelValues("tag", "create").Inc()
	m.dispatcher.Created(tag.UserID, events.EntityTag, tag, originClientID)
	return nil
}

func (m *Manager) GetTag(userID, id string) (*types.Tag, error) {
	return m.store.GetTag(userID, id)
}

func (m *Manager) ListTags(userID string) ([]*types.Tag, error) {
	return m.store.ListTags(userID)
}

func (m *Manager) UpdateTag(tag *types.Tag, originClientID string) error {
	tag.UpdatedAt = time.Now()
	if err := m.store.UpdateTag(tag); err != nil {
		return fmt.Errorf("failed to update tag: %w", err)
	}
	metrics.MutationsTotal.WithLabelValues("tag", "update").Inc()
	m.dispatcher.Updated(tag.UserID, events.EntityTag, tag, originClientID)
	return nil
}

func (m *Manager) DeleteTag(userID, id, originClientID string) error {
	if err := m.store.DeleteTag(userID, id); err != nil {
		return err
	}
	metrics.MutationsTotal.WithLabelValues("tag", "delete").Inc()
	m.dispatcher.Deleted(userID, events.EntityTag, id, originClientID)
	return nil
}
