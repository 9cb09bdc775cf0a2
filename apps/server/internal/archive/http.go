package archive

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"mandat-lite/apps/server/internal/auth"
)

type HTTPHandler struct {
	auth    auth.Service
	archive Service
}

type errorResponse struct {
	Error string `json:"error"`
}

func NewHTTPHandler(authService auth.Service, archiveService Service) *HTTPHandler {
	return &HTTPHandler{
		auth:    authService,
		archive: archiveService,
	}
}

func (h *HTTPHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/archive/recent", h.handleRecent)
	mux.HandleFunc("/api/archive/sessions/", h.handleSessions)
}

func (h *HTTPHandler) handleRecent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	playerID, ok := h.resolvePlayerID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid session token")
		return
	}

	limit := parseLimit(r.URL.Query().Get("limit"))
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	items, err := h.archive.ListRecent(ctx, playerID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "query recent sessions failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items": items,
	})
}

func (h *HTTPHandler) handleSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if _, ok := h.resolvePlayerID(r); !ok {
		writeError(w, http.StatusUnauthorized, "invalid session token")
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/archive/sessions/")
	parts := strings.Split(strings.TrimSpace(path), "/")
	sessionID := strings.TrimSpace(parts[0])
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "missing session id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if len(parts) == 2 && parts[1] == "transcript" {
		transcript, err := h.archive.GetTranscript(ctx, sessionID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				writeError(w, http.StatusNotFound, "transcript not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "query transcript failed")
			return
		}
		writeJSON(w, http.StatusOK, transcript)
		return
	}

	if len(parts) != 1 {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	rec, err := h.archive.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "query session failed")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *HTTPHandler) resolvePlayerID(r *http.Request) (string, bool) {
	token := bearerToken(r.Header.Get("Authorization"))
	if token == "" {
		return "", false
	}
	ident, ok := h.auth.ResolveSession(token)
	if !ok {
		return "", false
	}
	return ident.PlayerID(), true
}

func parseLimit(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 20
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 20
	}
	if n > maxListLimit {
		return maxListLimit
	}
	return n
}

func bearerToken(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.HasPrefix(raw, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(raw, "Bearer "))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
