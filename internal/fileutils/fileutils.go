// Package fileutils provides common file operations used throughout the
// application, including the input-collection step of a consolidation run.
package fileutils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gastos-csv/internal/logging"
)

// WorkbookExtension is the only input format the pipeline accepts.
const WorkbookExtension = ".xlsx"

var log logging.Logger = logging.NewLogrusAdapter("info", "text")

// SetLogger sets a custom logger for this package.
func SetLogger(logger logging.Logger) {
	if logger != nil {
		log = logger
	}
}

// FileExists checks if a file exists and is not a directory.
func FileExists(filePath string) bool {
	info, err := os.Stat(filePath)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirectoryExists checks if a directory exists.
func DirectoryExists(dirPath string) bool {
	info, err := os.Stat(dirPath)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// EnsureDirectoryExists creates a directory if it doesn't exist.
func EnsureDirectoryExists(dirPath string) error {
	if !DirectoryExists(dirPath) {
		if err := os.MkdirAll(dirPath, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	return nil
}

// CollectWorkbooks expands each input into workbook paths. An input may be a
// single file, a directory (walked recursively) or a glob pattern. Excel
// lock files ("~$" prefix) are skipped, duplicates are dropped, and the
// first-seen order is preserved so output order follows the argument order.
func CollectWorkbooks(inputs []string) ([]string, error) {
	var paths []string
	seen := make(map[string]bool)

	add := func(path string) {
		if !isWorkbook(path) || seen[path] {
			return
		}
		seen[path] = true
		paths = append(paths, path)
	}

	for _, input := range inputs {
		switch {
		case DirectoryExists(input):
			found, err := listWorkbooks(input)
			if err != nil {
				return nil, err
			}
			for _, path := range found {
				add(path)
			}
		case FileExists(input):
			add(input)
		default:
			matches, err := filepath.Glob(input)
			if err != nil {
				return nil, fmt.Errorf("invalid input pattern %q: %w", input, err)
			}
			if len(matches) == 0 {
				return nil, fmt.Errorf("input does not exist: %s", input)
			}
			for _, match := range matches {
				if FileExists(match) {
					add(match)
				}
			}
		}
	}

	log.Debug("Collected input workbooks",
		logging.F("inputs", len(inputs)),
		logging.F("workbooks", len(paths)))
	return paths, nil
}

// listWorkbooks returns the workbook files under dirPath, walked recursively
// in lexical order.
func listWorkbooks(dirPath string) ([]string, error) {
	var files []string
	err := filepath.Walk(dirPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && isWorkbook(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	return files, nil
}

func isWorkbook(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, "~$") {
		return false
	}
	return strings.EqualFold(filepath.Ext(base), WorkbookExtension)
}
