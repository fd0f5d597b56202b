package ingest

import (
	"fmt"
	"os"
	"regexp"
	"sort"
)

// Discover lists the files in dir named YYYY-MM-DD*<ext>, sorted by name
func Discover(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data folder %s: %w", dir, err)
	}

	pattern := regexp.MustCompile(`^\d{4}-\d{2}-\d{2}.*` + regexp.QuoteMeta(ext) + `$`)

	var names []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if pattern.MatchString(entry.Name()) {
			names = append(names, entry.Name())
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%s files in %s: %w", ext, dir, ErrNoFiles)
	}

	sort.Strings(names)
	return names, nil
}
