package storage

import (
	"errors"

	"github.com/stride-app/stride/pkg/types"
)

// ErrNotFound is returned when an entity does not exist or is not owned by
// the requesting user. Callers map it to a 404.
var ErrNotFound = errors.New("not found")

// Store defines the persistence interface for Stride entities. All reads and
// writes are scoped to one user; an id belonging to another user behaves as
// absent.
type Store interface {
	// Task operations
	CreateTask(task *types.Task) error
	GetTask(userID, id string) (*types.Task, error)
	ListTasks(userID string) ([]*types.Task, error)
	UpdateTask(task *types.Task) error
	DeleteTask(userID, id string) error
	// ReorderTasks persists all ranks in one transaction. Either every
	// update applies or none does.
	ReorderTasks(userID string, updates []types.OrderUpdate) error

	// Section operations
	CreateSection(section *types.Section) error
	GetSection(userID, id string) (*types.Section, error)
	ListSections(userID string) ([]*types.Section, error)
	UpdateSection(section *types.Section) error
	DeleteSection(userID, id string) error
	ReorderSections(userID string, updates []types.OrderUpdate) error

	// Folder operations
	CreateFolder(folder *types.Folder) error
	GetFolder(userID, id string) (*types.Folder, error)
	ListFolders(userID string) ([]*types.Folder, error)
	UpdateFolder(folder *types.Folder) error
	DeleteFolder(userID, id string) error

	// Smart folder operations
	CreateSmartFolder(sf *types.SmartFolder) error
	GetSmartFolder(userID, id string) (*types.SmartFolder, error)
	ListSmartFolders(userID string) ([]*types.SmartFolder, error)
	UpdateSmartFolder(sf *types.SmartFolder) error
	DeleteSmartFolder(userID, id string) error

	// Tag operations
	CreateTag(tag *types.Tag) error
	GetTag(userID, id string) (*types.Tag, error)
	ListTags(userID string) ([]*types.Tag, error)
	UpdateTag(tag *types.Tag) error
	DeleteTag(userID, id string) error

	// Close closes the underlying database
	Close() error
}
