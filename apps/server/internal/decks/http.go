package decks

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"mandat-lite/apps/server/internal/auth"
	"mandat-lite/card"
	"mandat-lite/mandat"
)

// HTTPHandler exposes the saved-deck CRUD plus a stateless validation
// endpoint for the deck builder.
type HTTPHandler struct {
	service Service
	auth    auth.Service
	catalog *card.Catalog
}

type saveDeckRequest struct {
	Name string   `json:"name"`
	Pool []string `json:"pool"`
}

type validateRequest struct {
	Pool []string `json:"pool"`
}

func NewHTTPHandler(service Service, authService auth.Service, catalog *card.Catalog) *HTTPHandler {
	return &HTTPHandler{service: service, auth: authService, catalog: catalog}
}

func (h *HTTPHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/decks", h.handleCollection)
	mux.HandleFunc("/api/decks/", h.handleDeck)
	mux.HandleFunc("/api/decks-validate", h.handleValidate)
}

func (h *HTTPHandler) handleCollection(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		list, err := h.service.ListDecks(r.Context(), ownerID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "list decks failed")
			return
		}
		writeJSON(w, http.StatusOK, list)

	case http.MethodPost:
		var req saveDeckRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := h.service.SaveDeck(r.Context(), ownerID, strings.TrimSpace(req.Name), req.Pool); err != nil {
			if errors.Is(err, ErrInvalidName) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *HTTPHandler) handleDeck(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}
	name := strings.TrimPrefix(r.URL.Path, "/api/decks/")
	if name == "" || strings.Contains(name, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		deck, err := h.service.GetDeck(r.Context(), ownerID, name)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				writeError(w, http.StatusNotFound, "deck not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "get deck failed")
			return
		}
		writeJSON(w, http.StatusOK, deck)

	case http.MethodDelete:
		if err := h.service.DeleteDeck(r.Context(), ownerID, name); err != nil {
			if errors.Is(err, ErrNotFound) {
				writeError(w, http.StatusNotFound, "deck not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "delete deck failed")
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleValidate checks a pool against the deck-building rules without
// saving it. Open to guests; the deck builder calls it on every change.
func (h *HTTPHandler) handleValidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	writeJSON(w, http.StatusOK, mandat.ValidateDeck(h.catalog, req.Pool))
}

func (h *HTTPHandler) ownerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		writeError(w, http.StatusUnauthorized, "missing session token")
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	ident, ok := h.auth.ResolveSession(token)
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid session token")
		return "", false
	}
	return ident.PlayerID(), true
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
