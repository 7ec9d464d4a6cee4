package api

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gorilla/mux"

	"github.com/arif-itm/FarmProof/internal/backing"
	"github.com/arif-itm/FarmProof/internal/bus"
	"github.com/arif-itm/FarmProof/internal/docs"
	"github.com/arif-itm/FarmProof/internal/logger"
	"github.com/arif-itm/FarmProof/internal/store"
	"github.com/arif-itm/FarmProof/internal/weather"
)

// setupTest builds a service over memory backing, an unreachable
// weather upstream (so readings take the fallback path), and a temp
// docs directory with one document.
func setupTest(t *testing.T) (*Service, *store.Store, *bus.Local) {
	t.Helper()

	notifier := bus.NewLocal()
	st, err := store.New(backing.NewMemory(), notifier)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	t.Cleanup(upstream.Close)

	docsDir := t.TempDir()
	doc := "= Test Document\n\nSome operator guidance.\n"
	if err := os.WriteFile(filepath.Join(docsDir, "operations.adoc"), []byte(doc), 0o644); err != nil {
		t.Fatalf("Failed to seed docs dir: %v", err)
	}

	svc := NewService(st, weather.NewServiceWithBaseURL(upstream.URL), docs.NewService(docsDir), logger.New(100), nil)
	return svc, st, notifier
}

// muxSetVars injects router variables for handlers reached without a
// real router.
func muxSetVars(r *http.Request, vars map[string]string) *http.Request {
	return mux.SetURLVars(r, vars)
}
