/*
Package inbox finds capture images on disk: either once (a file or a
directory) or continuously, by watching a directory for new files.
*/
package inbox

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tuumbleweed/xerr"
)

var ErrEmptyPath = errors.New("input path is empty")

// IsImage reports whether name has a supported image extension.
func IsImage(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png":
		return true
	default:
		return false
	}
}

// ResolveImages returns inputPath itself when it is an image file, or every
// image directly inside it when it is a directory, sorted by name.
func ResolveImages(inputPath string) (images []string, e *xerr.Error) {
	trimmed := strings.TrimSpace(inputPath)
	if trimmed == "" {
		return nil, xerr.NewError(ErrEmptyPath, "missing image input", inputPath)
	}

	info, err := os.Stat(trimmed)
	if err != nil {
		return nil, xerr.NewError(err, "stat image input path", trimmed)
	}

	if info.IsDir() {
		return ListImages(trimmed)
	}

	if !IsImage(trimmed) {
		err = fmt.Errorf("unsupported image extension: %s", filepath.Ext(trimmed))
		return nil, xerr.NewError(err, "input file is not .jpg/.jpeg/.png", trimmed)
	}

	return []string{trimmed}, nil
}

// ListImages lists the images directly inside dirPath, sorted by name.
func ListImages(dirPath string) (images []string, e *xerr.Error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, xerr.NewError(err, "read directory", dirPath)
	}

	for _, entry := range entries {
		if entry.IsDir() || !IsImage(entry.Name()) {
			continue
		}
		images = append(images, filepath.Join(dirPath, entry.Name()))
	}

	sort.Strings(images)
	return images, nil
}
