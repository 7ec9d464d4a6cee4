package api

import (
	"fmt"
	"net/http"
	"os"
	"runtime"

	"github.com/arif-itm/FarmProof/internal/types"
)

// @Title: Get Health
// @Route: GET /api/health
// @Description: Returns server health status
// @Response: {"status": "ok"}
func (s *Service) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// @Title: Get Version
// @Route: GET /api/version
// @Description: Returns FarmProof version and build info
// @Response: {"version": "...", "status": "ok"}
func (s *Service) HandleVersion(w http.ResponseWriter, r *http.Request) {
	hostname, _ := os.Hostname()

	s.writeJSON(w, http.StatusOK, map[string]string{
		"version":  types.Version,
		"build":    types.BuildTime,
		"status":   "ok",
		"hostname": hostname,
		"go_ver":   runtime.Version(),
		"os_arch":  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	})
}
