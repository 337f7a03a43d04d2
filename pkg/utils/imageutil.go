package utils

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// DetectContentType sniffs the leading bytes of a file and returns its MIME
// type and canonical extension (".png", ".jpg", ...).
func DetectContentType(head []byte) (string, string) {
	mt := mimetype.Detect(head)
	return mt.String(), mt.Extension()
}

// IsValidImageType checks if content type is a valid image type
func IsValidImageType(contentType string) bool {
	validTypes := []string{
		"image/jpeg",
		"image/jpg",
		"image/png",
		"image/gif",
		"image/webp",
		"image/bmp",
		"image/tiff",
	}

	ct := strings.ToLower(contentType)
	for _, validType := range validTypes {
		if strings.Contains(ct, validType) {
			return true
		}
	}
	return false
}

// TempPath returns a hidden sibling of dest used while a download is in flight.
func TempPath(dest string) string {
	dir, base := filepath.Split(dest)
	id := uuid.New().String()[:8]

	return filepath.Join(dir, fmt.Sprintf(".%s.%s.part", base, id))
}

// DerivedFilename inserts suffix before the extension: "a/b.png" -> "a/b_thumb.png".
func DerivedFilename(path, suffix string) string {
	ext := filepath.Ext(path)
	name := strings.TrimSuffix(path, ext)

	return fmt.Sprintf("%s_%s%s", name, suffix, ext)
}
