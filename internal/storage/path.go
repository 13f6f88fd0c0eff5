package storage

import (
	"path"
	"strings"

	"github.com/google/uuid"
)

// imagePrefix is the key prefix under which recipe images are stored.
const imagePrefix = "recipe"

// ImageKey generates a unique storage key for an uploaded image,
// preserving the original file extension.
//
// Example:
//
//	filename: "dinner.JPG"
//	result:   "recipe/3f1a9c52-....jpg"
func ImageKey(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return path.Join(imagePrefix, uuid.New().String()+ext)
}
