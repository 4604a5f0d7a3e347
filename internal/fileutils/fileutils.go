// Package fileutils provides the file system helpers used by the commands.
package fileutils

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// FileExists checks if a file exists and is not a directory
func FileExists(filePath string) bool {
	info, err := os.Stat(filePath)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirectoryExists checks if a directory exists
func DirectoryExists(dirPath string) bool {
	info, err := os.Stat(dirPath)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// ListFiles returns the regular files directly under dirPath whose name
// satisfies match, sorted by name. Hidden files and office lock files
// ("~$...") are skipped.
func ListFiles(dirPath string, match func(name string) bool) ([]string, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name[0] == '.' || (len(name) > 1 && name[:2] == "~$") {
			continue
		}
		if match == nil || match(name) {
			files = append(files, filepath.Join(dirPath, name))
		}
	}
	sort.Strings(files)
	return files, nil
}
