package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandleHealth(t *testing.T) {
	svc, _, _ := setupTest(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	svc.HandleHealth(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status OK, got %v", resp.Status)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("Expected status ok, got %q", body["status"])
	}
}

func TestHandleVersion(t *testing.T) {
	svc, _, _ := setupTest(t)

	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	w := httptest.NewRecorder()
	svc.HandleVersion(w, req)

	var body map[string]string
	if err := json.NewDecoder(w.Result().Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body["version"] == "" || body["go_ver"] == "" {
		t.Errorf("Expected version info, got %+v", body)
	}
}

func TestHandleDocs(t *testing.T) {
	svc, _, _ := setupTest(t)

	req := httptest.NewRequest(http.MethodGet, "/api/docs", nil)
	w := httptest.NewRecorder()
	svc.HandleDocsList(w, req)

	var names []string
	if err := json.NewDecoder(w.Result().Body).Decode(&names); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(names) != 1 || names[0] != "operations.adoc" {
		t.Errorf("Expected the seeded document, got %v", names)
	}
}

func TestHandleDocRendersHTML(t *testing.T) {
	svc, _, _ := setupTest(t)

	req := httptest.NewRequest(http.MethodGet, "/api/docs/operations.adoc", nil)
	req = muxSetVars(req, map[string]string{"name": "operations.adoc"})
	w := httptest.NewRecorder()
	svc.HandleDoc(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status OK, got %v", resp.Status)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Expected HTML content type, got %q", ct)
	}
}

func TestHandleDocRejectsTraversal(t *testing.T) {
	svc, _, _ := setupTest(t)

	req := httptest.NewRequest(http.MethodGet, "/api/docs/x", nil)
	req = muxSetVars(req, map[string]string{"name": "../secrets.adoc"})
	w := httptest.NewRecorder()
	svc.HandleDoc(w, req)

	if w.Result().StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 for path traversal, got %v", w.Result().Status)
	}
}
