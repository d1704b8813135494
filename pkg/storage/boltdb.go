package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"

	bolt "go.etcd.io/bbolt"

	"github.com/stride-app/stride/pkg/types"
)

var (
	// Bucket names
	bucketTasks        = []byte("tasks")
	bucketSections     = []byte("sections")
	bucketFolders      = []byte("folders")
	bucketSmartFolders = []byte("smart_folders")
	bucketTags         = []byte("tags")
)

// BoltStore implements Store interface using BoltDB. Keys are scoped per
// user as "<userID>/<entityID>" so list operations are prefix scans and an
// entity owned by another user is indistinguishable from a missing one.
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore creates a new BoltDB-backed store
func NewBoltStore(dataDir string) (*BoltStore, error) {
	dbPath := filepath.Join(dataDir, "stride.db")

	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		buckets := [][]byte{
			bucketTasks,
			bucketSections,
			bucketFolders,
			bucketSmartFolders,
			bucketTags,
		}

		for _, bucket := range buckets {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})

	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

// Close closes the database
func (s *BoltStore) Close() error {
	return s.db.Close()
}

func entityKey(userID, id string) []byte {
	return []byte(userID + "/" + id)
}

func userPrefix(userID string) []byte {
	return []byte(userID + "/")
}

// put marshals v and stores it under the user-scoped key (upsert).
func (s *BoltStore) put(bucket []byte, userID, id string, v any) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		return b.Put(entityKey(userID, id), data)
	})
}

// get unmarshals the entity under the user-scoped key into out.
func (s *BoltStore) get(bucket []byte, userID, id string, out any) error {
	return s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		data := b.Get(entityKey(userID, id))
		if data == nil {
			return fmt.Errorf("%s/%s: %w", bucket, id, ErrNotFound)
		}
		return json.Unmarshal(data, out)
	})
}

// del removes the entity under the user-scoped key. Deleting an absent key
// is reported as not found so handlers can return a 404.
func (s *BoltStore) del(bucket []byte, userID, id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		key := entityKey(userID, id)
		if b.Get(key) == nil {
			return fmt.Errorf("%s/%s: %w", bucket, id, ErrNotFound)
		}
		return b.Delete(key)
	})
}

// scan walks all entities of one user in a bucket, invoking fn with each raw
// value.
func (s *BoltStore) scan(bucket []byte, userID string, fn func(v []byte) error) error {
	prefix := userPrefix(userID)
	return s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucket).Cursor()
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			if err := fn(v); err != nil {
				return err
			}
		}
		return nil
	})
}

// reorder assigns ranks inside a single transaction so a concurrent reader
// never observes a partial reorder. An unknown id aborts the whole batch.
func (s *BoltStore) reorder(bucket []byte, userID string, updates []types.OrderUpdate, apply func(data []byte, order int) ([]byte, error)) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		for _, u := range updates {
			key := entityKey(userID, u.ID)
			data := b.Get(key)
			if data == nil {
				return fmt.Errorf("%s/%s: %w", bucket, u.ID, ErrNotFound)
			}
			updated, err := apply(data, u.Order)
			if err != nil {
				return err
			}
			if err := b.Put(key, updated); err != nil {
				return err
			}
		}
		return nil
	})
}

// Task operations

func (s *BoltStore) CreateTask(task *types.Task) error {
	return s.put(bucketTasks, task.UserID, task.ID, task)
}

func (s *BoltStore) GetTask(userID, id string) (*types.Task, error) {
	var task types.Task
	if err := s.get(bucketTasks, userID, id, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *BoltStore) ListTasks(userID string) ([]*types.Task, error) {
	var tasks []*types.Task
	err := s.scan(bucketTasks, userID, func(v []byte) error {
		var task types.Task
		if err := json.Unmarshal(v, &task); err != nil {
			return err
		}
		tasks = append(tasks, &task)
		return nil
	})
	return tasks, err
}

func (s *BoltStore) UpdateTask(task *types.Task) error {
	return s.CreateTask(task) // Same as create (upsert)
}

func (s *BoltStore) DeleteTask(userID, id string) error {
	return s.del(bucketTasks, userID, id)
}

func (s *BoltStore) ReorderTasks(userID string, updates []types.OrderUpdate) error {
	return s.reorder(bucketTasks, userID, updates, func(data []byte, order int) ([]byte, error) {
		var task types.Task
		if err := json.Unmarshal(data, &task); err != nil {
			return nil, err
		}
		task.Order = order
		return json.Marshal(&task)
	})
}

// Section operations

func (s *BoltStore) CreateSection(section *types.Section) error {
	return s.put(bucketSections, section.UserID, section.ID, section)
}

func (s *BoltStore) GetSection(userID, id string) (*types.Section, error) {
	var section types.Section
	if err := s.get(bucketSections, userID, id, &section); err != nil {
		return nil, err
	}
	return &section, nil
}

func (s *BoltStore) ListSections(userID string) ([]*types.Section, error) {
	var sections []*types.Section
	err := s.scan(bucketSections, userID, func(v []byte) error {
		var section types.Section
		if err := json.Unmarshal(v, &section); err != nil {
			return err
		}
		sections = append(sections, &section)
		return nil
	})
	return sections, err
}

func (s *BoltStore) UpdateSection(section *types.Section) error {
	return s.CreateSection(section)
}

func (s *BoltStore) DeleteSection(userID, id string) error {
	return s.del(bucketSections, userID, id)
}

func (s *BoltStore) ReorderSections(userID string, updates []types.OrderUpdate) error {
	return s.reorder(bucketSections, userID, updates, func(data []byte, order int) ([]byte, error) {
		var section types.Section
		if err := json.Unmarshal(data, &section); err != nil {
			return nil, err
		}
		section.Order = order
		return json.Marshal(&section)
	})
}

// Folder operations

func (s *BoltStore) CreateFolder(folder *types.Folder) error {
	return s.put(bucketFolders, folder.UserID, folder.ID, folder)
}

func (s *BoltStore) GetFolder(userID, id string) (*types.Folder, error) {
	var folder types.Folder
	if err := s.get(bucketFolders, userID, id, &folder); err != nil {
		return nil, err
	}
	return &folder, nil
}

func (s *BoltStore) ListFolders(userID string) ([]*types.Folder, error) {
	var folders []*types.Folder
	err := s.scan(bucketFolders, userID, func(v []byte) error {
		var folder types.Folder
		if err := json.Unmarshal(v, &folder); err != nil {
			return err
		}
		folders = append(folders, &folder)
		return nil
	})
	return folders, err
}

func (s *BoltStore) UpdateFolder(folder *types.Folder) error {
	return s.CreateFolder(folder)
}

func (s *BoltStore) DeleteFolder(userID, id string) error {
	return s.del(bucketFolders, userID, id)
}

// Smart folder operations

func (s *BoltStore) CreateSmartFolder(sf *types.SmartFolder) error {
	return s.put(bucketSmartFolders, sf.UserID, sf.ID, sf)
}

func (s *BoltStore) GetSmartFolder(userID, id string) (*types.SmartFolder, error) {
	var sf types.SmartFolder
	if err := s.get(bucketSmartFolders, userID, id, &sf); err != nil {
		return nil, err
	}
	return &sf, nil
}

func (s *BoltStore) ListSmartFolders(userID string) ([]*types.SmartFolder, error) {
	var sfs []*types.SmartFolder
	err := s.scan(bucketSmartFolders, userID, func(v []byte) error {
		var sf types.SmartFolder
		if err := json.Unmarshal(v, &sf); err != nil {
			return err
		}
		sfs = append(sfs, &sf)
		return nil
	})
	return sfs, err
}

func (s *BoltStore) UpdateSmartFolder(sf *types.SmartFolder) error {
	return s.CreateSmartFolder(sf)
}

func (s *BoltStore) DeleteSmartFolder(userID, id string) error {
	return s.del(bucketSmartFolders, userID, id)
}

// Tag operations

func (s *BoltStore) CreateTag(tag *types.Tag) error {
	return s.put(bucketTags, tag.UserID, tag.ID, tag)
}

func (s *BoltStore) GetTag(userID, id string) (*types.Tag, error) {
	var tag types.Tag
	if err := s.get(bucketTags, userID, id, &tag); err != nil {
		return nil, err
	}
	return &tag, nil
}

func (s *BoltStore) ListTags(userID string) ([]*types.Tag, error) {
	var tags []*types.Tag
	err := s.scan(bucketTags, userID, func(v []byte) error {
		var tag types.Tag
		if err := json.Unmarshal(v, &tag); err != nil {
			return err
		}
		tags = append(tags, &tag)
		return nil
	})
	return tags, err
}

func (s *BoltStore) UpdateTag(tag *types.Tag) error {
	return s.CreateTag(tag)
}

func (s *BoltStore) DeleteTag(userID, id string) error {
	return s.del(bucketTags, userID, id)
}
