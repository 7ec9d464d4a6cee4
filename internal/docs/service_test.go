package docs

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setupDocs(t *testing.T) *Service {
	t.Helper()
	dir := t.TempDir()
	content := "= Runbook\n\n== Restarting\n\nStop the process, start the process.\n"
	if err := os.WriteFile(filepath.Join(dir, "runbook.adoc"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not a doc"), 0o644); err != nil {
		t.Fatal(err)
	}
	return NewService(dir)
}

func TestListFiltersExtension(t *testing.T) {
	s := setupDocs(t)

	names, err := s.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(names) != 1 || names[0] != "runbook.adoc" {
		t.Errorf("Expected only .adoc files, got %v", names)
	}
}

func TestRender(t *testing.T) {
	s := setupDocs(t)

	html, err := s.Render(context.Background(), "runbook.adoc")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(html, "Restarting") {
		t.Errorf("Expected section title in output, got %q", html)
	}
	if strings.Contains(html, "== ") {
		t.Error("Expected AsciiDoc markup to be converted")
	}
}

func TestRenderRejectsPaths(t *testing.T) {
	s := setupDocs(t)

	for _, name := range []string{"", "../runbook.adoc", "sub/runbook.adoc"} {
		if _, err := s.Render(context.Background(), name); err == nil {
			t.Errorf("Expected %q to be rejected", name)
		}
	}
}

func TestRenderMissing(t *testing.T) {
	s := setupDocs(t)
	if _, err := s.Render(context.Background(), "ghost.adoc"); err == nil {
		t.Error("Expected error for missing document")
	}
}
