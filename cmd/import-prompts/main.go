package main

import (
	"context"
	"flag"
	"log"
	"os"

	"prompt-library/internal/config"
	"prompt-library/internal/db"
	"prompt-library/internal/library"
	"prompt-library/internal/store"
)

func main() {
	filePath := flag.String("file", "prompt-library-export.json", "path to an export-format JSON file")
	flag.Parse()

	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}
	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	conn, err := db.Open(cfg)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	raw, err := os.ReadFile(*filePath)
	if err != nil {
		log.Fatalf("failed to read %s: %v", *filePath, err)
	}

	lib := library.New(store.NewClient(conn))
	result, err := lib.Import(context.Background(), raw)
	if err != nil {
		log.Fatalf("import failed: %v", err)
	}
	for _, failure := range result.Failed {
		log.Printf("failed to import %q: %v", failure.Prompt.Title, failure.Err)
	}
	log.Printf("imported %d prompts, %d failed", len(result.Succeeded), len(result.Failed))
	if len(result.Failed) > 0 {
		os.Exit(1)
	}
}
