// Lightbox - Personal Media Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lightbox

package library

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/tomtom215/lightbox/internal/models"
)

type mediaKind struct {
	mediaType string
	mimeType  string
}

// extensions maps lowercase file extensions to their media type.
var extensions = map[string]mediaKind{
	".jpg":  {models.MediaTypeImage, "image/jpeg"},
	".jpeg": {models.MediaTypeImage, "image/jpeg"},
	".png":  {models.MediaTypeImage, "image/png"},
	".gif":  {models.MediaTypeImage, "image/gif"},
	".webp": {models.MediaTypeImage, "image/webp"},
	".bmp":  {models.MediaTypeImage, "image/bmp"},
	".tif":  {models.MediaTypeImage, "image/tiff"},
	".tiff": {models.MediaTypeImage, "image/tiff"},
	".heic": {models.MediaTypeImage, "image/heic"},
	".heif": {models.MediaTypeImage, "image/heif"},
	".avif": {models.MediaTypeImage, "image/avif"},
	".svg":  {models.MediaTypeImage, "image/svg+xml"},
	".mp4":  {models.MediaTypeVideo, "video/mp4"},
	".m4v":  {models.MediaTypeVideo, "video/x-m4v"},
	".mov":  {models.MediaTypeVideo, "video/quicktime"},
	".mkv":  {models.MediaTypeVideo, "video/x-matroska"},
	".webm": {models.MediaTypeVideo, "video/webm"},
	".avi":  {models.MediaTypeVideo, "video/x-msvideo"},
	".wmv":  {models.MediaTypeVideo, "video/x-ms-wmv"},
	".flv":  {models.MediaTypeVideo, "video/x-flv"},
	".mpg":  {models.MediaTypeVideo, "video/mpeg"},
	".mpeg": {models.MediaTypeVideo, "video/mpeg"},
	".3gp":  {models.MediaTypeVideo, "video/3gpp"},
}

// ClassifyExtension classifies a file by its extension alone.
func ClassifyExtension(path string) (mediaType, mimeType string, ok bool) {
	k, ok := extensions[strings.ToLower(filepath.Ext(path))]
	return k.mediaType, k.mimeType, ok
}

// Classify reports whether path is an image or video. The extension is
// tried first; unknown extensions fall back to reading the file header.
func Classify(path string) (mediaType, mimeType string, ok bool) {
	if mediaType, mimeType, ok = ClassifyExtension(path); ok {
		return mediaType, mimeType, true
	}
	return sniff(path)
}

func sniff(path string) (mediaType, mimeType string, ok bool) {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return "", "", false
	}
	mimeType, _, _ = strings.Cut(mt.String(), ";")
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return models.MediaTypeImage, mimeType, true
	case strings.HasPrefix(mimeType, "video/"):
		return models.MediaTypeVideo, mimeType, true
	default:
		return "", "", false
	}
}
