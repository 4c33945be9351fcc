package db

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

var DB *sqlx.DB

// DSNFromEnv assembles the catalog database DSN from the PG_* variables.
// Both the sqlx and GORM layers, and catalogctl, connect with the same DSN
// so capability probes and ORM reads always see one schema. PG_SSLMODE
// defaults to disable for local compose setups.
func DSNFromEnv() string {
	host := envOr("PG_HOST", "localhost")
	port := envOr("PG_PORT", "5432")
	sslmode := envOr("PG_SSLMODE", "disable")

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		os.Getenv("PG_USER"), os.Getenv("PG_PASSWORD"),
		host, port, os.Getenv("PG_DB"), sslmode)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// InitPostgres connects the sqlx layer used by the generic store and the
// API-key repo. Retries cover the compose case where Postgres is still
// starting when the app comes up.
func InitPostgres() error {
	dsn := DSNFromEnv()

	var err error
	for i := 0; i < 10; i++ {
		DB, err = sqlx.Connect("postgres", dsn)
		if err == nil {
			DB.SetMaxOpenConns(20)
			DB.SetMaxIdleConns(5)
			DB.SetConnMaxLifetime(30 * time.Minute)
			return nil
		}
		log.Printf("postgres not ready (attempt %d/10): %v", i+1, err)
		time.Sleep(500 * time.Millisecond)
	}
	return err
}
