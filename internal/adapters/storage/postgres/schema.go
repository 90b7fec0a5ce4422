package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// EnsureSchema crea las tablas si no existen. No hay tooling de
// migraciones: el esquema es chico y estable.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS cases (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			type TEXT NOT NULL,
			species TEXT NOT NULL,
			geohash6 TEXT NOT NULL,
			consent_json JSONB NOT NULL,
			status TEXT NOT NULL DEFAULT 'open',
			created_at TIMESTAMPTZ NOT NULL,
			expires_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS photos (
			id TEXT PRIMARY KEY,
			case_id TEXT NOT NULL REFERENCES cases(id) ON DELETE CASCADE,
			url_encrypted TEXT,
			view TEXT,
			hash TEXT,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			pet_id TEXT NOT NULL,
			type TEXT NOT NULL,
			ts TIMESTAMPTZ NOT NULL,
			duration_s DOUBLE PRECISION,
			conf DOUBLE PRECISION,
			payload_json JSONB NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS alerts (
			id TEXT PRIMARY KEY,
			pet_id TEXT NOT NULL,
			room_id TEXT,
			kind TEXT NOT NULL,
			severity TEXT NOT NULL,
			state TEXT NOT NULL,
			evidence_url TEXT,
			ts TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS case_reviews (
			id TEXT PRIMARY KEY,
			case_id TEXT NOT NULL REFERENCES cases(id) ON DELETE CASCADE,
			candidate_pet_id TEXT NOT NULL,
			decision TEXT NOT NULL,
			band TEXT NOT NULL,
			score DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
