// Copyright (c) 2025-2026 Kasa Serena Designs
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging handles uploaded photos: format detection, HEIC
// conversion, EXIF auto-rotation and JPEG re-encoding.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrium/goheif"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder

	"github.com/kasaserena/serena-go/internal/util"
)

const jpegQuality = 90

// Processor converts and stores uploaded images.
type Processor struct {
	uploadsDir string
}

// NewProcessor creates a processor writing to uploadsDir.
func NewProcessor(uploadsDir string) *Processor {
	return &Processor{uploadsDir: uploadsDir}
}

// DetectMimeType sniffs the MIME type of image data. HEIC is detected by
// its ftyp box since net/http doesn't know it.
func DetectMimeType(data []byte) string {
	if isHEIC(data) {
		return "image/heic"
	}
	contentType := http.DetectContentType(data)
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = contentType[:idx]
	}
	return contentType
}

// IsSupported reports whether the MIME type can be decoded.
func IsSupported(mimeType string) bool {
	switch mimeType {
	case "image/jpeg", "image/png", "image/gif", "image/webp", "image/heic", "image/heif":
		return true
	}
	return false
}

// isHEIC checks the ISO BMFF ftyp brand for HEIF/HEIC containers.
func isHEIC(data []byte) bool {
	if len(data) < 12 || string(data[4:8]) != "ftyp" {
		return false
	}
	switch string(data[8:12]) {
	case "heic", "heix", "hevc", "hevx", "mif1", "msf1":
		return true
	}
	return false
}

// decode decodes any supported format, routing HEIC to goheif.
func decode(data []byte) (image.Image, error) {
	if isHEIC(data) {
		img, err := goheif.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decoding heic: %w", err)
		}
		return img, nil
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return img, nil
}

// ConvertToJPEG decodes an uploaded image (JPEG/PNG/GIF/WebP/HEIC),
// applies the EXIF orientation, and re-encodes it as JPEG. EXIF metadata is
// not carried over.
func (p *Processor) ConvertToJPEG(data []byte) ([]byte, error) {
	img, err := decode(data)
	if err != nil {
		return nil, err
	}

	img = applyOrientation(img, readExifOrientation(bytes.NewReader(data)))

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encoding jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes converted image bytes under the uploads directory with a
// collision-free name derived from the original filename.
func (p *Processor) Save(data []byte, originalName string) (string, error) {
	base := util.Slugify(strings.TrimSuffix(originalName, filepath.Ext(originalName)))
	if base == "" {
		base = "upload"
	}
	name := fmt.Sprintf("%s-%s.jpg", base, uuid.New().String()[:8])

	if err := os.MkdirAll(p.uploadsDir, 0o755); err != nil {
		return "", fmt.Errorf("creating uploads dir: %w", err)
	}
	path := filepath.Join(p.uploadsDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing upload: %w", err)
	}
	return path, nil
}

// readExifOrientation returns the EXIF orientation tag, or 1 (normal) when
// it cannot be determined.
func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return orientation
}

// applyOrientation normalizes an image per its EXIF orientation value.
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.FlipH(imaging.Rotate270(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.FlipH(imaging.Rotate90(img))
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}
