package testutil

import (
	"database/sql"
	"os"
	"strconv"
	"testing"

	"github.com/Drago-03/Documentation.AI/internal/config"
	"github.com/Drago-03/Documentation.AI/internal/db"
)

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// OpenTestDB connects to the Postgres named by TEST_DB_* and empties every
// table. Tests are skipped when TEST_DB_HOST is unset.
func OpenTestDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()
	host := os.Getenv("TEST_DB_HOST")
	if host == "" {
		t.Skip("TEST_DB_HOST not set, skipping postgres test")
	}
	port, err := strconv.Atoi(envOr("TEST_DB_PORT", "5432"))
	if err != nil {
		t.Fatalf("parse TEST_DB_PORT: %v", err)
	}
	conn, err := db.Open(config.DatabaseConfig{
		Host:     host,
		Port:     port,
		User:     envOr("TEST_DB_USER", "docai"),
		Password: envOr("TEST_DB_PASSWORD", "docai_pass"),
		DBName:   envOr("TEST_DB_NAME", "docai_test"),
		SSLMode:  "disable",
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.ApplyMigrations(conn); err != nil {
		t.Fatalf("migrations: %v", err)
	}
	if _, err := conn.Exec(`TRUNCATE analysis_jobs, repository_cache, user_feedback, embedding_cache RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return conn, func() {
		_ = conn.Close()
	}
}
