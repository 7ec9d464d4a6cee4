// Package docs renders operator documentation from AsciiDoc sources,
// caching the HTML per document.
package docs

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bytesparadise/libasciidoc"
	"github.com/bytesparadise/libasciidoc/pkg/configuration"
)

// Service renders .adoc files from a single directory.
type Service struct {
	dir   string
	mu    sync.RWMutex
	cache map[string]string // filename -> rendered html
}

// NewService creates a docs service rooted at dir.
func NewService(dir string) *Service {
	return &Service{
		dir:   dir,
		cache: make(map[string]string),
	}
}

// List returns the available document filenames.
func (s *Service) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read docs directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".adoc") {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// Render converts one document to HTML, serving repeats from cache.
// The name must be a bare filename; path separators are rejected.
func (s *Service) Render(ctx context.Context, name string) (string, error) {
	if name == "" || name != filepath.Base(name) {
		return "", fmt.Errorf("invalid document name %q", name)
	}

	s.mu.RLock()
	html, ok := s.cache[name]
	s.mu.RUnlock()
	if ok {
		return html, nil
	}

	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}

	output := bytes.NewBuffer(nil)
	cfg := configuration.NewConfiguration(
		configuration.WithHeaderFooter(false),
		configuration.WithAttribute("toc", "left"),
	)
	if _, err := libasciidoc.Convert(bytes.NewReader(data), output, cfg); err != nil {
		return "", fmt.Errorf("convert asciidoc: %w", err)
	}

	html = output.String()
	s.mu.Lock()
	s.cache[name] = html
	s.mu.Unlock()

	return html, nil
}
