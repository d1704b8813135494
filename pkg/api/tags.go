package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/stride-app/stride/pkg/types"
)

type tagRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (s *Server) handleCreateTag(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r.Context())

	var req tagRequest
	if err := decodeBody(r, &req); err != nil {
		writeErrorDetails(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	now := time.Now()
	tag := &types.Tag{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      req.Name,
		Color:     req.Color,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.manager.CreateTag(tag, originClientID(r)); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tag)
}

func (s *Server) handleListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.manager.ListTags(userIDFrom(r.Context()))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if tags == nil {
		tags = []*types.Tag{}
	}
	writeJSON(w, http.StatusOK, tags)
}

func (s *Server) handleGetTag(w http.ResponseWriter, r *http.Request) {
	tag, err := s.manager.GetTag(userIDFrom(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tag)
}

func (s *Server) handleUpdateTag(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r.Context())

	tag, err := s.manager.GetTag(userID, mux.Vars(r)["id"])
	if err != nil {
		writeStoreError(w, err)
		return
	}

	var req tagRequest
	if err := decodeBody(r, &req); err != nil {
		writeErrorDetails(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	tag.Name = req.Name
	tag.Color = req.Color

	if err := s.manager.UpdateTag(tag, originClientID(r)); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tag)
}

func (s *Server) handleDeleteTag(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.manager.DeleteTag(userIDFrom(r.Context()), id, originClientID(r)); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
