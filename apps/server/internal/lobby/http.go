package lobby

import (
	"encoding/json"
	"net/http"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// HTTPHandler serves the read-only lobby endpoints: listing, recent
// results, and a QR code that encodes a session's join link.
type HTTPHandler struct {
	lobby         *Lobby
	publicBaseURL string
}

func NewHTTPHandler(l *Lobby, publicBaseURL string) *HTTPHandler {
	return &HTTPHandler{
		lobby:         l,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

func (h *HTTPHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/lobby/sessions", h.handleList)
	mux.HandleFunc("/api/lobby/sessions/", h.handleSession)
	mux.HandleFunc("/api/lobby/recent", h.handleRecent)
}

func (h *HTTPHandler) handleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, h.lobby.List())
}

func (h *HTTPHandler) handleRecent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, h.lobby.Recent())
}

func (h *HTTPHandler) handleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/api/lobby/sessions/")
	parts := strings.Split(rest, "/")

	switch {
	case len(parts) == 1 && parts[0] != "":
		h.serveSummary(w, parts[0])
	case len(parts) == 2 && parts[1] == "qr":
		h.serveJoinQR(w, parts[0])
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

func (h *HTTPHandler) serveSummary(w http.ResponseWriter, sessionID string) {
	s := h.lobby.Get(sessionID)
	if s == nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	writeJSON(w, http.StatusOK, s.Summary())
}

// serveJoinQR renders a PNG QR code pointing at the session join link, for
// same-room play where the host shows the code to the other players.
func (h *HTTPHandler) serveJoinQR(w http.ResponseWriter, sessionID string) {
	s := h.lobby.Get(sessionID)
	if s == nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	joinURL := h.publicBaseURL + "/join/" + sessionID
	png, err := qrcode.Encode(joinURL, qrcode.Medium, 256)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "qr encode failed")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
