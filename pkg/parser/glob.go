package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DatalogExtensions lists the file extensions picked up when a directory
// is given as input.
var DatalogExtensions = []string{
	".csv", ".txt", ".log", ".tsv", ".xlsx",
	".gz", ".xz", ".zst", ".zstd",
}

// ExpandGlobs expands file paths, glob patterns and directories into a
// sorted, deduplicated list of datalog paths. Patterns that match nothing
// are returned as-is so the caller reports a file-not-found error.
func ExpandGlobs(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var result []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			result = append(result, p)
		}
	}

	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}

		if len(matches) == 0 {
			add(pattern)
			continue
		}

		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil || !info.IsDir() {
				add(match)
				continue
			}
			files, err := datalogsIn(match)
			if err != nil {
				return nil, err
			}
			for _, f := range files {
				add(f)
			}
		}
	}

	// Sort for deterministic ordering
	sort.Strings(result)

	return result, nil
}

// datalogsIn lists datalog files directly inside dir (not recursive).
func datalogsIn(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !isDatalogName(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return files, nil
}

func isDatalogName(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, want := range DatalogExtensions {
		if ext == want {
			return true
		}
	}
	return false
}
