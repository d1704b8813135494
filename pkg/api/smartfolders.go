package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/stride-app/stride/pkg/types"
)

type smartFolderRequest struct {
	Name   string            `json:"name"`
	Filter types.SmartFilter `json:"filter"`
}

func (s *Server) handleCreateSmartFolder(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r.Context())

	var req smartFolderRequest
	if err := decodeBody(r, &req); err != nil {
		writeErrorDetails(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	now := time.Now()
	sf := &types.SmartFolder{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      req.Name,
		Filter:    req.Filter,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.manager.CreateSmartFolder(sf, originClientID(r)); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sf)
}

func (s *Server) handleListSmartFolders(w http.ResponseWriter, r *http.Request) {
	sfs, err := s.manager.ListSmartFolders(userIDFrom(r.Context()))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if sfs == nil {
		sfs = []*types.SmartFolder{}
	}
	writeJSON(w, http.StatusOK, sfs)
}

func (s *Server) handleGetSmartFolder(w http.ResponseWriter, r *http.Request) {
	sf, err := s.manager.GetSmartFolder(userIDFrom(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sf)
}

func (s *Server) handleUpdateSmartFolder(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r.Context())

	sf, err := s.manager.GetSmartFolder(userID, mux.Vars(r)["id"])
	if err != nil {
		writeStoreError(w, err)
		return
	}

	var req smartFolderRequest
	if err := decodeBody(r, &req); err != nil {
		writeErrorDetails(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	sf.Name = req.Name
	sf.Filter = req.Filter

	if err := s.manager.UpdateSmartFolder(sf, originClientID(r)); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sf)
}

func (s *Server) handleDeleteSmartFolder(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.manager.DeleteSmartFolder(userIDFrom(r.Context()), id, originClientID(r)); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleQuerySmartFolder returns the tasks matching a smart folder's filter.
func (s *Server) handleQuerySmartFolder(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.manager.QuerySmartFolder(userIDFrom(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if tasks == nil {
		tasks = []*types.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}
