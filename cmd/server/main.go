package main

import (
	"context"
	"log"
	"net/http"
	"path/filepath"

	"prompt-library/internal/config"
	"prompt-library/internal/db"
	"prompt-library/internal/library"
	"prompt-library/internal/server"
	"prompt-library/internal/store"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}
	cfg := config.Load()
	cfg.Warn()

	st := openStore(cfg)
	lib := library.New(st)
	if err := lib.Initialize(context.Background()); err != nil {
		log.Printf("initial fetch failed: %v", err)
	}

	srv := server.New(lib, cfg)
	addr := ":" + cfg.Port
	log.Printf("prompt-library server listening on %s", addr)
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		log.Fatal(err)
	}
}

func openStore(cfg config.Config) store.Store {
	if cfg.DatabaseURL == "" {
		path := filepath.Join(cfg.DataDir, "prompts.json")
		log.Printf("using local file store at %s", path)
		fileStore, err := store.OpenFileStore(path)
		if err != nil {
			log.Fatalf("failed to open file store: %v", err)
		}
		return fileStore
	}

	conn, err := db.Open(cfg)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}
	client := store.NewClient(conn)
	// Startup probe only: a failure here is surfaced but calls are still
	// allowed to fail individually at request time.
	if err := client.Initialize(context.Background()); err != nil {
		log.Printf("store initialize warning: %v", err)
	}
	return client
}
