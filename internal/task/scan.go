package task

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var (
	// ErrSourceDirNotFound is returned when the image directory does not exist
	ErrSourceDirNotFound = errors.New("image directory does not exist")
	// ErrInvalidTaskSize is returned for a batch size below 1
	ErrInvalidTaskSize = errors.New("task size must be greater than 0")
	// ErrNoImages is returned when there is nothing to split
	ErrNoImages = errors.New("no image files to split")
)

// imageExts is the allow-list of image extensions, compared lowercase
var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".jpe":  true,
	".png":  true,
	".bmp":  true,
	".gif":  true,
	".tiff": true,
}

// IsImageFile reports whether name carries an accepted image extension
func IsImageFile(name string) bool {
	return imageExts[strings.ToLower(filepath.Ext(name))]
}

// ScanImages lists the image files directly inside dir, sorted by name.
// Subdirectories and files with other extensions are ignored.
func ScanImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSourceDirNotFound, dir)
		}
		return nil, fmt.Errorf("failed to read image directory: %w", err)
	}

	var images []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !IsImageFile(entry.Name()) {
			continue
		}
		images = append(images, entry.Name())
	}

	sort.Strings(images)
	return images, nil
}
