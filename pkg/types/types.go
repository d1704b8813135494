package types

import "time"

// Task represents a single to-do item. A task may live inside a folder and a
// section, and may be a subtask of another task via ParentID.
type Task struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	FolderID  string     `json:"folderId,omitempty"`
	SectionID string     `json:"sectionId,omitempty"`
	ParentID  string     `json:"parentId,omitempty"`
	Title     string     `json:"title"`
	Notes     string     `json:"notes,omitempty"`
	Completed bool       `json:"completed"`
	Order     int        `json:"order"`
	TagIDs    []string   `json:"tagIds,omitempty"`
	DueDate   *time.Time `json:"dueDate,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Section is a named column inside a folder's board view.
type Section struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	FolderID  string    `json:"folderId,omitempty"`
	Name      string    `json:"name"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Folder groups tasks and sections into a project or area.
type Folder struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Color     string    `json:"color,omitempty"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Tag is a flat label that tasks reference by id.
type Tag struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Color     string    `json:"color,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SmartFolder is a saved filter evaluated server-side against the user's
// tasks.
type SmartFolder struct {
	ID        string      `json:"id"`
	UserID    string      `json:"userId"`
	Name      string      `json:"name"`
	Filter    SmartFilter `json:"filter"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// SmartFilter describes which tasks a smart folder matches. Zero-valued
// fields are not applied.
type SmartFilter struct {
	Completed     *bool  `json:"completed,omitempty"`
	FolderID      string `json:"folderId,omitempty"`
	TagID         string `json:"tagId,omitempty"`
	DueWithinDays int    `json:"dueWithinDays,omitempty"`
}

// Matches reports whether a task satisfies the filter relative to now.
func (f SmartFilter) Matches(t *Task, now time.Time) bool {
	if f.Completed != nil && t.Completed != *f.Completed {
		return false
	}
	if f.FolderID != "" && t.FolderID != f.FolderID {
		return false
	}
	if f.TagID != "" {
		found := false
		for _, id := range t.TagIDs {
			if id == f.TagID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.DueWithinDays > 0 {
		if t.DueDate == nil {
			return false
		}
		cutoff := now.AddDate(0, 0, f.DueWithinDays)
		if t.DueDate.After(cutoff) {
			return false
		}
	}
	return true
}

// OrderUpdate assigns a zero-based rank to one entity during a reorder.
type OrderUpdate struct {
	ID    string `json:"id"`
	Order int    `json:"order"`
}
