// Copyright (c) 2025-2026 Kasa Serena Designs
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kasaserena/serena-go/internal/model"
)

// The catalog is seed data and changes only on deploy, so list responses
// are cached as raw JSON.

func (h *Handler) cachedList(w http.ResponseWriter, r *http.Request, key string, load func() (any, error)) {
	if h.cache != nil {
		if raw, err := h.cache.Get(r.Context(), key); err == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(raw)
			return
		}
	}

	data, err := load()
	if err != nil {
		h.storeError(w, err, "catalog")
		return
	}

	raw, err := json.Marshal(data)
	if err != nil {
		h.log.Error("marshaling catalog", "key", key, "error", err)
		WriteInternalError(w, "Internal server error")
		return
	}
	if h.cache != nil {
		if err := h.cache.Set(r.Context(), key, raw, h.cacheTTL); err != nil {
			h.log.Warn("caching catalog response", "key", key, "error", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}

// ListMaterials handles GET /api/materials.
func (h *Handler) ListMaterials(w http.ResponseWriter, r *http.Request) {
	h.cachedList(w, r, "materials", func() (any, error) {
		materials, err := h.st.ListMaterials(r.Context())
		if materials == nil {
			materials = []model.Material{}
		}
		return materials, err
	})
}

// ListMaterialsByType handles GET /api/materials/type/{type}.
func (h *Handler) ListMaterialsByType(w http.ResponseWriter, r *http.Request) {
	materialType := chi.URLParam(r, "type")
	h.cachedList(w, r, "materials:"+materialType, func() (any, error) {
		materials, err := h.st.ListMaterialsByType(r.Context(), materialType)
		if materials == nil {
			materials = []model.Material{}
		}
		return materials, err
	})
}

// ListDistributors handles GET /api/distributors.
func (h *Handler) ListDistributors(w http.ResponseWriter, r *http.Request) {
	h.cachedList(w, r, "distributors", func() (any, error) {
		distributors, err := h.st.ListDistributors(r.Context())
		if distributors == nil {
			distributors = []model.Distributor{}
		}
		return distributors, err
	})
}

// GetDistributor handles GET /api/distributors/{id}.
func (h *Handler) GetDistributor(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		WriteBadRequest(w, "Invalid distributor id", nil)
		return
	}
	distributor, err := h.st.GetDistributorByID(r.Context(), id)
	if err != nil {
		h.storeError(w, err, "distributor")
		return
	}
	WriteJSON(w, http.StatusOK, distributor)
}
