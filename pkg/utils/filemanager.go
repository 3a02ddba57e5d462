// =============================================================================
// Quarterly Sales Report - File Utilities
// =============================================================================
//
// This module provides the small file-system helpers the commands need:
//   - Input discovery (a single file or a directory tree of exports)
//   - Run identifiers, printed in the report header and attached to logs
//
// Discovered paths are returned sorted so that a run over the same directory
// always folds records in the same order.
//
// =============================================================================

package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// ErrNoInputFiles is returned when discovery finds nothing to load.
var ErrNoInputFiles = errors.New("no input files found")

// DefaultInputExtensions are the file types the loader understands.
var DefaultInputExtensions = []string{".csv", ".xlsx"}

// =============================================================================
// FILE DISCOVERY
// =============================================================================

// DiscoverInputFiles resolves path to the list of input files.
//
// PARAMETERS:
//   - path: A file or a directory. Directories are walked recursively.
//   - extensions: Accepted extensions, matched case-insensitively.
//                 If empty, DefaultInputExtensions is used.
//
// RETURNS:
//   - The matching file paths, sorted.
//   - ErrNoInputFiles if nothing matched, or an error if path cannot be read.
//
// A path naming a single file is returned as-is, whatever its extension, so
// that an unsupported file is reported by the loader rather than silently
// ignored. Office lock files ("~$...") and hidden files are skipped.
func DiscoverInputFiles(path string, extensions []string) ([]string, error) {
	if len(extensions) == 0 {
		extensions = DefaultInputExtensions
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat input path: %w", err)
	}

	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		name := d.Name()
		if strings.HasPrefix(name, "~$") || strings.HasPrefix(name, ".") {
			return nil
		}
		if hasExtension(name, extensions) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk input directory: %w", err)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoInputFiles, path)
	}

	sort.Strings(files)
	return files, nil
}

func hasExtension(name string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range extensions {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}

// =============================================================================
// RUN IDENTIFIERS
// =============================================================================

// NewRunID returns a random identifier for one report run.
func NewRunID() string {
	return uuid.New().String()
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
