package db

import (
	"bufio"
	"crypto/sha256"
	"embed"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	embeddedmigrations "github.com/beatforge/fieldgate/migrations"
)

// MigrationStatus represents the state of a single migration.
type MigrationStatus struct {
	ID          string
	Checksum    string
	Applied     bool
	AppliedAt   *time.Time
	ExecutionMs int64
}

// MigrateUp runs all pending migrations against the database.
// Detects driver type, selects appropriate embedded migrations,
// validates checksums, and applies pending migrations in order.
// It returns the IDs of the migrations applied by this call.
func MigrateUp(db *sqlx.DB) ([]string, error) {
	migrations, err := prepare(db)
	if err != nil {
		return nil, err
	}

	// SHA256 hash detects modification of applied migrations
	if err := validateChecksums(db, migrations); err != nil {
		return nil, fmt.Errorf("migration checksum validation failed: %w", err)
	}

	applied, err := getAppliedMigrations(db)
	if err != nil {
		return nil, fmt.Errorf("failed to query applied migrations: %w", err)
	}

	var ran []string
	for _, m := range migrations {
		if _, ok := applied[m.ID]; ok {
			continue
		}

		start := time.Now()

		// Migration and its record commit together
		tx, err := db.Beginx()
		if err != nil {
			return ran, fmt.Errorf("failed to begin transaction for migration %s: %w", m.ID, err)
		}

		if err := applyMigration(tx, m); err != nil {
			tx.Rollback()
			return ran, fmt.Errorf("failed to apply migration %s: %w", m.ID, err)
		}

		if err := recordMigration(tx, m.ID, m.Checksum, time.Since(start)); err != nil {
			tx.Rollback()
			return ran, fmt.Errorf("failed to record migration %s: %w", m.ID, err)
		}

		if err := tx.Commit(); err != nil {
			return ran, fmt.Errorf("failed to commit migration %s: %w", m.ID, err)
		}
		ran = append(ran, m.ID)
	}

	return ran, nil
}

// MigrateStatus returns the status of all migrations (applied and pending).
func MigrateStatus(db *sqlx.DB) ([]MigrationStatus, error) {
	migrations, err := prepare(db)
	if err != nil {
		return nil, err
	}

	applied, err := getAppliedMigrations(db)
	if err != nil {
		return nil, fmt.Errorf("failed to query migrations: %w", err)
	}

	statuses := make([]MigrationStatus, 0, len(migrations))
	for _, m := range migrations {
		if s, ok := applied[m.ID]; ok {
			statuses = append(statuses, s)
			continue
		}
		statuses = append(statuses, MigrationStatus{ID: m.ID, Checksum: m.Checksum})
	}

	return statuses, nil
}

// RequireMigrated returns an error unless every embedded migration has been
// applied.
func RequireMigrated(db *sqlx.DB) error {
	statuses, err := MigrateStatus(db)
	if err != nil {
		return err
	}
	for _, s := range statuses {
		if !s.Applied {
			return fmt.Errorf("migration %s not applied - run 'fieldgate migrate up' first", s.ID)
		}
	}
	return nil
}

// prepare ensures the tracking table exists and parses the embedded files
// for the connected driver.
func prepare(db *sqlx.DB) ([]migration, error) {
	var migrationsFS embed.FS
	var migrationsDir string

	switch db.DriverName() {
	case "sqlite3":
		migrationsFS = embeddedmigrations.SqliteMigrations
		migrationsDir = "sqlite"
	case "postgres":
		migrationsFS = embeddedmigrations.PostgresMigrations
		migrationsDir = "postgres"
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", db.DriverName())
	}

	if err := createMigrationsTable(db); err != nil {
		return nil, fmt.Errorf("failed to create migrations table: %w", err)
	}

	migrations, err := parseMigrationFiles(migrationsFS, migrationsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to parse migrations: %w", err)
	}
	return migrations, nil
}

// migration represents a parsed migration file
type migration struct {
	ID       string
	Checksum string
	SQL      string
}

// parseMigrationFiles extracts ordered list of migrations from embed.FS
func parseMigrationFiles(fsys embed.FS, dir string) ([]migration, error) {
	var migrations []migration

	err := fs.WalkDir(fsys, dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".sql") {
			return nil
		}

		content, err := fsys.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		migrations = append(migrations, migration{
			ID:       filepath.Base(path),
			Checksum: fmt.Sprintf("%x", sha256.Sum256(content)),
			SQL:      string(content),
		})
		return nil
	})

	if err != nil {
		return nil, err
	}

	// Filenames carry a numeric prefix
	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].ID < migrations[j].ID
	})

	return migrations, nil
}

// createMigrationsTable ensures migrations tracking table exists.
// Schema must match the migrations table in 001_initial_schema.sql.
func createMigrationsTable(db *sqlx.DB) error {
	var createSQL string

	if db.DriverName() == "sqlite3" {
		createSQL = `
			CREATE TABLE IF NOT EXISTS migrations (
				migration_id TEXT PRIMARY KEY,
				checksum TEXT NOT NULL,
				applied_at TIMESTAMP NOT NULL,
				execution_ms INTEGER NOT NULL
			)
		`
	} else {
		createSQL = `
			CREATE TABLE IF NOT EXISTS migrations (
				migration_id TEXT PRIMARY KEY,
				checksum TEXT NOT NULL,
				applied_at TIMESTAMPTZ NOT NULL,
				execution_ms BIGINT NOT NULL
			)
		`
	}

	_, err := db.Exec(createSQL)
	return err
}

// getAppliedMigrations returns the recorded migrations keyed by ID
func getAppliedMigrations(db *sqlx.DB) (map[string]MigrationStatus, error) {
	rows, err := db.Queryx("SELECT migration_id, checksum, applied_at, execution_ms FROM migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[string]MigrationStatus)
	for rows.Next() {
		var status MigrationStatus
		var appliedAt time.Time
		if err := rows.Scan(&status.ID, &status.Checksum, &appliedAt, &status.ExecutionMs); err != nil {
			return nil, err
		}
		status.Applied = true
		status.AppliedAt = &appliedAt
		applied[status.ID] = status
	}

	return applied, rows.Err()
}

// validateChecksums verifies all applied migrations match embedded checksums
func validateChecksums(db *sqlx.DB, migrations []migration) error {
	applied, err := getAppliedMigrations(db)
	if err != nil {
		return err
	}

	checksums := make(map[string]string, len(migrations))
	for _, m := range migrations {
		checksums[m.ID] = m.Checksum
	}

	for id, status := range applied {
		expected, ok := checksums[id]
		if !ok {
			return fmt.Errorf("migration %s exists in database but not in embedded files", id)
		}
		if status.Checksum != expected {
			return fmt.Errorf("checksum mismatch for migration %s: expected %s, got %s", id, expected, status.Checksum)
		}
	}

	return nil
}

// applyMigration executes a single migration SQL within a transaction.
// lib/pq does not accept multiple statements per Exec, so the file is split
// on semicolons after comment lines are dropped.
func applyMigration(tx *sqlx.Tx, m migration) error {
	for _, stmt := range statements(m.SQL) {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("statement failed: %w", err)
		}
	}
	return nil
}

// statements splits a migration file into executable statements.
func statements(sqlText string) []string {
	var body strings.Builder
	scanner := bufio.NewScanner(strings.NewReader(sqlText))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		body.WriteString(line)
		body.WriteString("\n")
	}

	var out []string
	for _, stmt := range strings.Split(body.String(), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}

// recordMigration stores migration metadata within a transaction
func recordMigration(tx *sqlx.Tx, id, checksum string, duration time.Duration) error {
	_, err := tx.Exec(
		tx.Rebind("INSERT INTO migrations (migration_id, checksum, applied_at, execution_ms) VALUES (?, ?, ?, ?)"),
		id, checksum, time.Now().UTC(), duration.Milliseconds(),
	)
	return err
}
