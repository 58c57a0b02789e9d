package api

import (
	"net/http"

	"github.com/seenimoa/fingateway/internal/config"
)

// handleTestKeys reports which API keys are present and how long they are.
// Key values are never returned.
func (s *Server) handleTestKeys(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, keyReport(config.CheckAPIKeys(s.cfg)))
}

// keyReport flattens key statuses into the <prefix>_key_exists and
// <prefix>_key_length fields the frontend reads.
func keyReport(keys []config.KeyStatus) map[string]any {
	out := make(map[string]any, 2*len(keys))
	for _, k := range keys {
		out[k.Prefix+"_key_exists"] = k.IsSet
		out[k.Prefix+"_key_length"] = k.Length
	}
	return out
}
