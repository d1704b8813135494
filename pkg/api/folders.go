package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/stride-app/stride/pkg/types"
)

type folderRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Order int    `json:"order"`
}

func (s *Server) handleCreateFolder(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r.Context())

	var req folderRequest
	if err := decodeBody(r, &req); err != nil {
		writeErrorDetails(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	now := time.Now()
	folder := &types.Folder{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      req.Name,
		Color:     req.Color,
		Order:     req.Order,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.manager.CreateFolder(folder, originClientID(r)); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, folder)
}

func (s *Server) handleListFolders(w http.ResponseWriter, r *http.Request) {
	folders, err := s.manager.ListFolders(userIDFrom(r.Context()))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if folders == nil {
		folders = []*types.Folder{}
	}
	writeJSON(w, http.StatusOK, folders)
}

func (s *Server) handleGetFolder(w http.ResponseWriter, r *http.Request) {
	folder, err := s.manager.GetFolder(userIDFrom(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, folder)
}

func (s *Server) handleUpdateFolder(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r.Context())

	folder, err := s.manager.GetFolder(userID, mux.Vars(r)["id"])
	if err != nil {
		writeStoreError(w, err)
		return
	}

	var req folderRequest
	if err := decodeBody(r, &req); err != nil {
		writeErrorDetails(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	folder.Name = req.Name
	folder.Color = req.Color
	folder.Order = req.Order

	if err := s.manager.UpdateFolder(folder, originClientID(r)); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, folder)
}

func (s *Server) handleDeleteFolder(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.manager.DeleteFolder(userIDFrom(r.Context()), id, originClientID(r)); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
