package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ravetok/nexus/internal/domain"
	"github.com/ravetok/nexus/internal/httpserver/deps"
	"github.com/ravetok/nexus/internal/logger"
)

// CreatePost authors a post from the upload surface. The payload is treated
// as untrusted and goes through the sanitizer; identity, counters and
// provenance are always assigned server-side.
func CreatePost(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.Engine.Session() == nil {
			writeError(w, http.StatusUnauthorized, "no active session")
			return
		}

		var draft domain.RawPost
		if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
			writeError(w, http.StatusBadRequest, "malformed post payload")
			return
		}

		post := d.Engine.Submit(r.Context(), &draft)
		if post == nil {
			writeError(w, http.StatusUnauthorized, "no active session")
			return
		}

		writeJSON(w, http.StatusCreated, post)
	}
}

// LikePost applies an optimistic like. Always accepted; cloud propagation
// is fire-and-forget.
func LikePost(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID := chi.URLParam(r, "id")
		if postID == "" {
			writeError(w, http.StatusBadRequest, "missing post id")
			return
		}

		d.Engine.Like(r.Context(), postID)
		w.WriteHeader(http.StatusAccepted)
	}
}

type commentRequest struct {
	Text string `json:"text"`
}

// CommentPost appends a comment authored by the current session.
func CommentPost(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID := chi.URLParam(r, "id")
		if postID == "" {
			writeError(w, http.StatusBadRequest, "missing post id")
			return
		}

		var req commentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "malformed comment payload")
			return
		}
		req.Text = strings.TrimSpace(req.Text)
		if req.Text == "" {
			writeError(w, http.StatusBadRequest, "empty comment")
			return
		}

		comment := d.Engine.Comment(r.Context(), postID, req.Text)
		if comment == nil {
			writeError(w, http.StatusUnauthorized, "no active session")
			return
		}

		writeJSON(w, http.StatusCreated, comment)
	}
}

// DeletePost soft-deletes a post. Idempotent; deleting an unknown id is
// still a success.
func DeletePost(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID := chi.URLParam(r, "id")
		if postID == "" {
			writeError(w, http.StatusBadRequest, "missing post id")
			return
		}

		d.Engine.Delete(r.Context(), postID)
		w.WriteHeader(http.StatusNoContent)
	}
}

type offerRequest struct {
	Amount  string `json:"amount"`
	Message string `json:"message,omitempty"`
}

// PostOffer accepts a marketplace offer on a post. Offers are logged and
// dropped: there is no offer inbox, the gesture is the product.
func PostOffer(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID := chi.URLParam(r, "id")
		if postID == "" {
			writeError(w, http.StatusBadRequest, "missing post id")
			return
		}

		var req offerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "malformed offer payload")
			return
		}

		d.Logger.Info("marketplace offer received",
			logger.String("post_id", postID),
			logger.String("amount", req.Amount))
		w.WriteHeader(http.StatusAccepted)
	}
}
