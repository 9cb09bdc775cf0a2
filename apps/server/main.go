package main

import (
	"log"
	"net/http"

	"mandat-lite/apps/server/internal/archive"
	"mandat-lite/apps/server/internal/auth"
	"mandat-lite/apps/server/internal/config"
	"mandat-lite/apps/server/internal/decks"
	"mandat-lite/apps/server/internal/gateway"
	"mandat-lite/apps/server/internal/lobby"
	"mandat-lite/card"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[Server] Failed to load config: %v", err)
	}
	catalog := card.BaseCatalog()

	authService, authMode, err := auth.NewService(cfg)
	if err != nil {
		log.Fatalf("[Server] Failed to init auth service: %v", err)
	}
	defer authService.Close()

	archiveService, archiveMode, err := archive.NewService(cfg)
	if err != nil {
		log.Fatalf("[Server] Failed to init archive service: %v", err)
	}
	defer archiveService.Close()

	deckService, err := decks.NewSQLiteService(cfg.DeckSQLitePath, catalog)
	if err != nil {
		log.Fatalf("[Server] Failed to init deck service: %v", err)
	}
	defer deckService.Close()

	lby, err := lobby.New(cfg, catalog, archiveService)
	if err != nil {
		log.Fatalf("[Server] Failed to init lobby: %v", err)
	}
	defer lby.Close()

	gw := gateway.New(lby, authService)
	authHTTP := auth.NewHTTPHandler(authService)
	archiveHTTP := archive.NewHTTPHandler(authService, archiveService)
	lobbyHTTP := lobby.NewHTTPHandler(lby, cfg.PublicBaseURL)
	deckHTTP := decks.NewHTTPHandler(deckService, authService, catalog)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", gw.HandleWebSocket)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	authHTTP.RegisterRoutes(mux)
	archiveHTTP.RegisterRoutes(mux)
	lobbyHTTP.RegisterRoutes(mux)
	deckHTTP.RegisterRoutes(mux)

	log.Printf("[Server] Auth mode: %s", authMode)
	log.Printf("[Server] Archive mode: %s", archiveMode)
	log.Printf("[Server] Starting WebSocket server on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, mux); err != nil {
		log.Fatalf("[Server] Failed to start: %v", err)
	}
}
