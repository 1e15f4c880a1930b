package prober

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// writeValidURLs creates a fresh file holding one URL per line and returns its path.
// An existing file with the same name is never overwritten; a numeric suffix is added.
func writeValidURLs(path string, urls []string) (string, error) {
	var b strings.Builder
	for _, u := range urls {
		b.WriteString(u)
		b.WriteByte('\n')
	}

	base := strings.TrimSuffix(path, ".txt")
	candidate := path
	for n := 2; ; n++ {
		file, err := os.OpenFile(candidate, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
		if errors.Is(err, fs.ErrExist) {
			candidate = fmt.Sprintf("%s-%d.txt", base, n)
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to create output file: %w", err)
		}

		if _, err := file.WriteString(b.String()); err != nil {
			file.Close()
			return "", fmt.Errorf("failed to write output file %s: %w", candidate, err)
		}
		if err := file.Close(); err != nil {
			return "", fmt.Errorf("failed to close output file %s: %w", candidate, err)
		}
		return candidate, nil
	}
}
