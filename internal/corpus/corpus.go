// Package corpus loads source texts for indexing.
package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// SourceDoc is one source text to be chunked and indexed.
type SourceDoc struct {
	Title string
	Path  string
	Text  string
}

// LoadGlobs expands the given glob patterns (doublestar syntax, so
// "texts/**/*.md" works) and loads each matching file as a SourceDoc.
// A pattern matching nothing is an error: a silently empty index build
// helps nobody.
func LoadGlobs(patterns []string) ([]SourceDoc, error) {
	var docs []SourceDoc
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad glob %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("glob %q matched no files", pattern)
		}

		for _, path := range matches {
			if seen[path] {
				continue
			}
			seen[path] = true

			info, err := os.Stat(path)
			if err != nil {
				return nil, fmt.Errorf("stat %s: %w", path, err)
			}
			if info.IsDir() {
				continue
			}

			doc, err := LoadFile(path)
			if err != nil {
				return nil, err
			}
			docs = append(docs, doc)
		}
	}

	if len(docs) == 0 {
		return nil, fmt.Errorf("no source files found")
	}
	return docs, nil
}

// LoadFile reads one source file. The title comes from the first top-level
// markdown heading, falling back to the file name.
func LoadFile(path string) (SourceDoc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SourceDoc{}, fmt.Errorf("reading %s: %w", path, err)
	}
	text := string(data)
	if strings.TrimSpace(text) == "" {
		return SourceDoc{}, fmt.Errorf("%s is empty", path)
	}

	title := TitleOf(text)
	if title == "" {
		base := filepath.Base(path)
		title = strings.TrimSuffix(base, filepath.Ext(base))
	}

	return SourceDoc{Title: title, Path: path, Text: text}, nil
}

// TitleOf returns the text of the first level-one heading, or "".
func TitleOf(text string) string {
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if after, ok := strings.CutPrefix(trimmed, "# "); ok {
			return strings.TrimSpace(after)
		}
	}
	return ""
}
