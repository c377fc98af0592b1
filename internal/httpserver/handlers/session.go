package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ravetok/nexus/internal/domain"
	"github.com/ravetok/nexus/internal/httpserver/deps"
	"github.com/ravetok/nexus/internal/logger"
)

type sessionResponse struct {
	User *domain.User `json:"user"`
}

// Session reports the current session identity; user is null when nobody is
// signed in.
func Session(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, sessionResponse{User: d.Engine.Session()})
	}
}

type loginRequest struct {
	Username string `json:"username"`
}

// Login installs a session for a directory user. There is no credential
// check; identity is picked, not proven, and the directory is the roster.
func Login(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "malformed login payload")
			return
		}
		req.Username = strings.TrimSpace(req.Username)
		if req.Username == "" {
			writeError(w, http.StatusBadRequest, "missing username")
			return
		}

		user, ok := d.MemoryIndex.GetUserByUsername(req.Username)
		if !ok {
			writeError(w, http.StatusNotFound, "unknown user")
			return
		}

		d.Engine.SetSession(r.Context(), user)
		d.Logger.Info("session opened",
			logger.String("username", user.Username))
		writeJSON(w, http.StatusOK, sessionResponse{User: user})
	}
}

// Logout drops the session and the local collection for a fresh start.
func Logout(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.Engine.Logout(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}
}
