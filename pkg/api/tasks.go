package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/stride-app/stride/pkg/types"
)

type taskRequest struct {
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

// reorderRequest accepts either field name for the order list; clients have
// historically sent both.
type reorderRequest struct {
	Items   []types.OrderUpdate `json:"items"`
	Updates []types.OrderUpdate `json:"updates"`
}

func (r reorderRequest) list() []types.OrderUpdate {
	if len(r.Updates) > 0 {
		return r.Updates
	}
	return r.Items
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r.Context())

	var req taskRequest
	if err := decodeBody(r, &req); err != nil {
		writeErrorDetails(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	now := time.Now()
	task := &types.Task{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     req.Title,
		Notes:     req.Notes,
		FolderID:  req.FolderID,
		SectionID: req.SectionID,
		ParentID:  req.ParentID,
		Completed: req.Completed,
		Order:     req.Order,
		TagIDs:    req.TagIDs,
		DueDate:   req.DueDate,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.manager.CreateTask(task, originClientID(r)); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.manager.ListTasks(userIDFrom(r.Context()))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if tasks == nil {
		tasks = []*types.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.manager.GetTask(userIDFrom(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r.Context())

	task, err := s.manager.GetTask(userID, mux.Vars(r)["id"])
	if err != nil {
		writeStoreError(w, err)
		return
	}

	var req taskRequest
	if err := decodeBody(r, &req); err != nil {
		writeErrorDetails(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	task.Title = req.Title
	task.Notes = req.Notes
	task.FolderID = req.FolderID
	task.SectionID = req.SectionID
	task.ParentID = req.ParentID
	task.Completed = req.Completed
	task.Order = req.Order
	task.TagIDs = req.TagIDs
	task.DueDate = req.DueDate

	if err := s.manager.UpdateTask(task, originClientID(r)); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.manager.DeleteTask(userIDFrom(r.Context()), id, originClientID(r)); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReorderTasks(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := decodeBody(r, &req); err != nil {
		writeErrorDetails(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	updates := req.list()
	if len(updates) == 0 {
		writeError(w, http.StatusBadRequest, "updates are required")
		return
	}
	for _, u := range updates {
		if u.ID == "" {
			writeError(w, http.StatusBadRequest, "update id is required")
			return
		}
	}

	tasks, err := s.manager.ReorderTasks(userIDFrom(r.Context()), updates, originClientID(r))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}
