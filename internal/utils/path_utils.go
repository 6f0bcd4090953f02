package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/funvibe/packsig/internal/config"
)

// SourceName derives a display name from a file path.
// It takes the base filename and removes any recognized source extension.
func SourceName(path string) string {
	name := filepath.Base(path)
	return config.TrimSourceExt(name)
}

// CollectSourceFiles expands the given arguments into a list of source
// files. A file argument is kept as is; a directory argument contributes
// every recognized source file directly inside it, in sorted order.
func CollectSourceFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("reading directory %s: %w", arg, err)
		}
		var found []string
		for _, entry := range entries {
			if !entry.IsDir() && config.HasSourceExt(entry.Name()) {
				found = append(found, filepath.Join(arg, entry.Name()))
			}
		}
		sort.Strings(found)
		files = append(files, found...)
	}
	return files, nil
}
