package handlers

import (
	"net/http"

	"github.com/ravetok/nexus/internal/httpserver/deps"
	"github.com/ravetok/nexus/internal/logger"
)

// WipeArchive clears the local archive and, best effort, the cloud store.
// Network-level guards (CIDR, host) sit in front of this route; on top of
// that the session must hold curation authority. The local clear never
// waits for the cloud.
func WipeArchive(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := d.Engine.Session()
		if !user.IsAuthority() {
			writeError(w, http.StatusForbidden, "curation authority required")
			return
		}

		d.Logger.Warn("archive wipe requested",
			logger.String("username", user.Username),
			logger.String("remote_ip", r.RemoteAddr))
		d.Engine.Wipe(r.Context())
		w.WriteHeader(http.StatusAccepted)
	}
}
