package level

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Entry is a level file found by ScanDirectory.
type Entry struct {
	Name string // Level name from the file
	Path string
}

// ScanDirectory lists the valid level files in dir. Files that fail to parse
// are skipped.
func ScanDirectory(dir string) ([]Entry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read level directory: %w", err)
	}

	var levels []Entry
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(strings.ToLower(name), ".json") {
			continue
		}

		path := filepath.Join(dir, name)
		lvl, err := LoadLevel(path)
		if err != nil {
			continue
		}
		levels = append(levels, Entry{Name: lvl.Name, Path: path})
	}
	return levels, nil
}
