// Copyright (c) 2025-2026 Kasa Serena Designs
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/kasaserena/serena-go/internal/imaging"
)

// maxUploadSize caps image uploads at 10 MB.
const maxUploadSize = 10 << 20

// readImageUpload reads the "image" part of a multipart request, enforcing
// the size cap and the supported-format whitelist. On failure it writes the
// error response and returns ok=false.
func (h *Handler) readImageUpload(w http.ResponseWriter, r *http.Request) (data []byte, mimeType string, ok bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			WriteError(w, http.StatusRequestEntityTooLarge, "file_too_large",
				"Image must be 10 MB or smaller", nil)
			return nil, "", false
		}
		WriteBadRequest(w, "Expected multipart form data with an image field", nil)
		return nil, "", false
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		WriteBadRequest(w, "Missing image field", nil)
		return nil, "", false
	}
	defer file.Close()

	data, err = io.ReadAll(file)
	if err != nil {
		WriteBadRequest(w, "Could not read uploaded image", nil)
		return nil, "", false
	}
	if len(data) == 0 {
		WriteBadRequest(w, "Uploaded image is empty", nil)
		return nil, "", false
	}

	mimeType = imaging.DetectMimeType(data)
	if !imaging.IsSupported(mimeType) {
		WriteBadRequest(w, "Unsupported image format", map[string]string{
			"image": "must be JPEG, PNG, GIF, WebP or HEIC",
		})
		return nil, "", false
	}
	return data, mimeType, true
}

// ConvertHEIC handles POST /api/convert-heic: accepts any supported image
// upload and responds with the JPEG re-encoding. Used by the SPA before
// preview, since browsers can't render HEIC.
func (h *Handler) ConvertHEIC(w http.ResponseWriter, r *http.Request) {
	data, _, ok := h.readImageUpload(w, r)
	if !ok {
		return
	}

	converted, err := h.img.ConvertToJPEG(data)
	if err != nil {
		h.log.Warn("image conversion failed", "error", err)
		WriteBadRequest(w, "Image could not be decoded", nil)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(converted)
}
