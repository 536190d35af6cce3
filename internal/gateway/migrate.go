package gateway

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// migration is one schema step. Migrations are embedded so a deployment is
// a single binary; checksums guard against editing an applied step.
type migration struct {
	version     int
	description string
	sql         string
}

var migrations = []migration{
	{
		version:     1,
		description: "catalog_tables",
		sql: `
		CREATE TABLE IF NOT EXISTS properties (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT,
			property_type TEXT NOT NULL DEFAULT '',
			city TEXT NOT NULL DEFAULT '',
			neighborhood TEXT,
			price REAL NOT NULL DEFAULT 0,
			area REAL NOT NULL DEFAULT 0,
			bedrooms INTEGER NOT NULL DEFAULT 0,
			media_urls TEXT,
			status TEXT NOT NULL,
			is_deleted INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL,
			version INTEGER NOT NULL DEFAULT 1
		);
		CREATE INDEX IF NOT EXISTS idx_properties_created ON properties(created_at);
		CREATE INDEX IF NOT EXISTS idx_properties_city ON properties(city);

		CREATE TABLE IF NOT EXISTS projects (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT,
			category TEXT NOT NULL DEFAULT '',
			city TEXT NOT NULL DEFAULT '',
			budget REAL NOT NULL DEFAULT 0,
			media_urls TEXT,
			status TEXT NOT NULL,
			is_deleted INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL,
			version INTEGER NOT NULL DEFAULT 1
		);
		CREATE INDEX IF NOT EXISTS idx_projects_created ON projects(created_at);

		CREATE TABLE IF NOT EXISTS vehicles (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL DEFAULT '',
			make TEXT NOT NULL DEFAULT '',
			model TEXT NOT NULL DEFAULT '',
			year INTEGER NOT NULL DEFAULT 0,
			mileage INTEGER NOT NULL DEFAULT 0,
			fuel_type TEXT,
			city TEXT NOT NULL DEFAULT '',
			price REAL NOT NULL DEFAULT 0,
			media_urls TEXT,
			status TEXT NOT NULL,
			is_deleted INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL,
			version INTEGER NOT NULL DEFAULT 1
		);
		CREATE INDEX IF NOT EXISTS idx_vehicles_created ON vehicles(created_at);

		CREATE TABLE IF NOT EXISTS testimonials (
			id TEXT PRIMARY KEY,
			author TEXT NOT NULL,
			message TEXT NOT NULL,
			rating INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL,
			is_deleted INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL,
			version INTEGER NOT NULL DEFAULT 1
		);

		CREATE TABLE IF NOT EXISTS contacts (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			phone TEXT,
			subject TEXT,
			message TEXT NOT NULL,
			status TEXT NOT NULL,
			is_deleted INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL,
			version INTEGER NOT NULL DEFAULT 1
		);
		`,
	},
}

// Migrate applies all pending schema migrations.
func (g *SQLite) Migrate() error {
	if err := g.initMigrations(); err != nil {
		return fmt.Errorf("failed to initialize migrations table: %w", err)
	}

	applied, err := g.appliedVersions()
	if err != nil {
		return fmt.Errorf("failed to read applied migrations: %w", err)
	}

	for _, m := range migrations {
		if checksum, ok := applied[m.version]; ok {
			if checksum != checksumOf(m.sql) {
				return fmt.Errorf("migration %d (%s) was modified after being applied", m.version, m.description)
			}
			continue
		}
		if err := g.applyMigration(m); err != nil {
			return fmt.Errorf("failed to apply migration %d (%s): %w", m.version, m.description, err)
		}
	}
	return nil
}

// initMigrations creates the schema_migrations table if it doesn't exist.
func (g *SQLite) initMigrations() error {
	query := `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY CHECK(version > 0),
		applied_at INTEGER NOT NULL CHECK(applied_at > 0),
		description TEXT NOT NULL CHECK(length(description) > 0),
		checksum TEXT NOT NULL CHECK(length(checksum) = 64)
	);`
	_, err := g.db.Exec(query)
	return err
}

// appliedVersions returns the checksum of every applied migration by version.
func (g *SQLite) appliedVersions() (map[int]string, error) {
	rows, err := g.db.Query("SELECT version, checksum FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[int]string)
	for rows.Next() {
		var version int
		var checksum string
		if err := rows.Scan(&version, &checksum); err != nil {
			return nil, err
		}
		applied[version] = checksum
	}
	return applied, rows.Err()
}

// applyMigration runs one migration and records it in a single transaction.
func (g *SQLite) applyMigration(m migration) error {
	tx, err := g.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(m.sql); err != nil {
		return fmt.Errorf("failed to execute migration SQL: %w", err)
	}

	query := `INSERT INTO schema_migrations (version, applied_at, description, checksum)
			  VALUES (?, ?, ?, ?)`
	if _, err := tx.Exec(query, m.version, time.Now().Unix(), m.description, checksumOf(m.sql)); err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}

	return tx.Commit()
}

func checksumOf(sql string) string {
	hash := sha256.Sum256([]byte(sql))
	return hex.EncodeToString(hash[:])
}
