// Copyright (c) 2025-2026 Kasa Serena Designs
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kasaserena/serena-go/internal/middleware"
	"github.com/kasaserena/serena-go/internal/model"
	"github.com/kasaserena/serena-go/internal/store"
)

func idParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

type createProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

// CreateProject handles POST /api/projects. The project is always owned by
// the session user.
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	var req createProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	details := make(map[string]string)
	if strings.TrimSpace(req.Name) == "" {
		details["name"] = "is required"
	}
	if !model.IsValidProjectType(req.Type) {
		details["type"] = "must be one of: " + strings.Join(model.ProjectTypes, ", ")
	}
	if len(details) > 0 {
		WriteBadRequest(w, "Validation failed", details)
		return
	}

	project, err := h.st.CreateProject(r.Context(), store.CreateProjectParams{
		UserID:      user.ID,
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Type:        req.Type,
	})
	if err != nil {
		h.storeError(w, err, "project")
		return
	}
	WriteJSON(w, http.StatusCreated, project)
}

// GetProject handles GET /api/projects/{id}.
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		WriteBadRequest(w, "Invalid project id", nil)
		return
	}
	project, err := h.st.GetProjectByID(r.Context(), id)
	if err != nil {
		h.storeError(w, err, "project")
		return
	}
	WriteJSON(w, http.StatusOK, project)
}

// ListProjects handles GET /api/projects.
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.st.ListProjects(r.Context())
	if err != nil {
		h.storeError(w, err, "projects")
		return
	}
	if projects == nil {
		projects = []model.Project{}
	}
	WriteJSON(w, http.StatusOK, projects)
}

// ListUserProjects handles GET /api/projects/user.
func (h *Handler) ListUserProjects(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	projects, err := h.st.ListProjectsByUser(r.Context(), user.ID)
	if err != nil {
		h.storeError(w, err, "projects")
		return
	}
	if projects == nil {
		projects = []model.Project{}
	}
	WriteJSON(w, http.StatusOK, projects)
}

type updateProjectRequest struct {
	Name                  *string `json:"name"`
	Description           *string `json:"description"`
	Status                *string `json:"status"`
	Cost                  *int64  `json:"cost"`
	EstimatedDeliveryTime *string `json:"estimatedDeliveryTime"`
	ImageURL              *string `json:"imageUrl"`
	AIAnalysis            *string `json:"aiAnalysis"`
	MaterialsList         *string `json:"materialsList"`
}

// UpdateProject handles PUT /api/projects/{id}. Owner-only.
func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	id, ok := idParam(r)
	if !ok {
		WriteBadRequest(w, "Invalid project id", nil)
		return
	}

	project, err := h.st.GetProjectByID(r.Context(), id)
	if err != nil {
		h.storeError(w, err, "project")
		return
	}
	if project.UserID != user.ID {
		WriteForbidden(w, "Not the project owner")
		return
	}

	var req updateProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	if req.Status != nil && !model.IsValidProjectStatus(*req.Status) {
		WriteBadRequest(w, "Validation failed",
			map[string]string{"status": "must be draft, in_progress or completed"})
		return
	}

	updated, err := h.st.UpdateProject(r.Context(), id, store.UpdateProjectParams{
		Name:                  req.Name,
		Description:           req.Description,
		Status:                req.Status,
		Cost:                  req.Cost,
		EstimatedDeliveryTime: req.EstimatedDeliveryTime,
		ImageURL:              req.ImageURL,
		AIAnalysis:            req.AIAnalysis,
		MaterialsList:         req.MaterialsList,
	})
	if err != nil {
		h.storeError(w, err, "project")
		return
	}
	WriteJSON(w, http.StatusOK, updated)
}

// DeleteProject handles DELETE /api/projects/{id}. Owner-only.
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	id, ok := idParam(r)
	if !ok {
		WriteBadRequest(w, "Invalid project id", nil)
		return
	}

	project, err := h.st.GetProjectByID(r.Context(), id)
	if err != nil {
		h.storeError(w, err, "project")
		return
	}
	if project.UserID != user.ID {
		WriteForbidden(w, "Not the project owner")
		return
	}

	if err := h.st.DeleteProject(r.Context(), id); err != nil {
		h.storeError(w, err, "project")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
