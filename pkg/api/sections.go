package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/stride-app/stride/pkg/types"
)

type sectionRequest struct {
	Name     string `json:"name"`
	FolderID string `json:"folderId"`
	Order    int    `json:"order"`
}

func (s *Server) handleCreateSection(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r.Context())

	var req sectionRequest
	if err := decodeBody(r, &req); err != nil {
		writeErrorDetails(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	now := time.Now()
	section := &types.Section{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      req.Name,
		FolderID:  req.FolderID,
		Order:     req.Order,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.manager.CreateSection(section, originClientID(r)); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, section)
}

func (s *Server) handleListSections(w http.ResponseWriter, r *http.Request) {
	sections, err := s.manager.ListSections(userIDFrom(r.Context()))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if sections == nil {
		sections = []*types.Section{}
	}
	writeJSON(w, http.StatusOK, sections)
}

func (s *Server) handleGetSection(w http.ResponseWriter, r *http.Request) {
	section, err := s.manager.GetSection(userIDFrom(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, section)
}

func (s *Server) handleUpdateSection(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r.Context())

	section, err := s.manager.GetSection(userID, mux.Vars(r)["id"])
	if err != nil {
		writeStoreError(w, err)
		return
	}

	var req sectionRequest
	if err := decodeBody(r, &req); err != nil {
		writeErrorDetails(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	section.Name = req.Name
	section.FolderID = req.FolderID
	section.Order = req.Order

	if err := s.manager.UpdateSection(section, originClientID(r)); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, section)
}

func (s *Server) handleDeleteSection(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.manager.DeleteSection(userIDFrom(r.Context()), id, originClientID(r)); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReorderSections(w http.ResponseWriter, r *http.Request) {
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

	sections, err := s.manager.ReorderSections(userIDFrom(r.Context()), updates, originClientID(r))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sections)
}
