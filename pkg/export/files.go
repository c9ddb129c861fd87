package export

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"vk-image-export/pkg/utils"
)

// inputFilePattern matches chat export pages: "messages.html",
// "messages12.html" and so on.
var inputFilePattern = regexp.MustCompile(`^messages\d*\.html$`)

// DiscoverInputFiles lists the chat export pages in sourceDir, sorted by
// name so indices are stable between runs. The returned paths include
// sourceDir.
func DiscoverInputFiles(sourceDir string) ([]string, error) {
	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("%w: reading source directory '%s': %w", utils.ErrFilesystem, sourceDir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !inputFilePattern.MatchString(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(sourceDir, entry.Name()))
	}
	return files, nil
}
