package main

import (
	"database/sql"
	"flag"
	"log"

	"hookwire/internal/platform/config"
	"hookwire/internal/platform/database"
)

var migrationsUp = []string{
	`CREATE TABLE IF NOT EXISTS api_keys (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		name TEXT NOT NULL,
		key_hash TEXT NOT NULL,
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at INTEGER NOT NULL,
		last_used_at INTEGER
	)`,
	`CREATE INDEX IF NOT EXISTS idx_api_keys_owner ON api_keys(owner_id)`,
	`CREATE INDEX IF NOT EXISTS idx_api_keys_active ON api_keys(is_active)`,
	`CREATE TABLE IF NOT EXISTS webhook_credentials (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		destination_url TEXT NOT NULL,
		secret TEXT NOT NULL,
		trigger_event TEXT NOT NULL,
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_webhook_credentials_owner ON webhook_credentials(owner_id)`,
	`CREATE INDEX IF NOT EXISTS idx_webhook_credentials_event ON webhook_credentials(owner_id, trigger_event, is_active)`,
}

var migrationsDown = []string{
	`DROP TABLE IF EXISTS webhook_credentials`,
	`DROP TABLE IF EXISTS api_keys`,
}

func main() {
	direction := flag.String("direction", "up", "Migration direction: up or down")
	configPath := flag.String("config", "configs/config.yaml", "Path to config file")

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migrate(db, *direction); err != nil {
		log.Fatal(err)
	}

	log.Printf("Migration %s complete", *direction)
}

func migrate(db *sql.DB, direction string) error {
	statements := migrationsUp
	if direction == "down" {
		statements = migrationsDown
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
