package store

import (
	"database/sql"
	"fmt"
	"log"
	"time"
)

type migration struct {
	Version     int
	Description string
	SQL         string
}

var migrations = []migration{
	{
		Version:     1,
		Description: "Initial schema",
		SQL: `
CREATE TABLE IF NOT EXISTS locations (
    name TEXT PRIMARY KEY,
    position INTEGER NOT NULL,
    summary_condition TEXT,
    summary_temp INTEGER,
    summary_icon TEXT
);

CREATE TABLE IF NOT EXISTS current_conditions (
    location TEXT PRIMARY KEY REFERENCES locations(name) ON DELETE CASCADE,
    temp INTEGER NOT NULL,
    condition TEXT NOT NULL,
    icon TEXT NOT NULL,
    feels_like INTEGER,
    humidity INTEGER,
    wind_speed INTEGER,
    uv_index INTEGER
);

CREATE TABLE IF NOT EXISTS hourly_samples (
    location TEXT NOT NULL REFERENCES locations(name) ON DELETE CASCADE,
    hour INTEGER NOT NULL,
    time_label TEXT NOT NULL,
    temp INTEGER NOT NULL,
    icon TEXT NOT NULL,
    precipitation INTEGER NOT NULL,
    PRIMARY KEY (location, hour)
);

CREATE TABLE IF NOT EXISTS daily_samples (
    location TEXT NOT NULL REFERENCES locations(name) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    day_label TEXT NOT NULL,
    icon TEXT NOT NULL,
    temp_max INTEGER NOT NULL,
    temp_min INTEGER NOT NULL,
    PRIMARY KEY (location, position)
);
`,
	},
	{
		Version:     2,
		Description: "Add visibility and pressure to current conditions",
		SQL: `
ALTER TABLE current_conditions ADD COLUMN visibility_km INTEGER;
ALTER TABLE current_conditions ADD COLUMN pressure_mb INTEGER;
`,
	},
}

func (s *Store) Migrate() error {
	if err := s.ensureMigrationsTable(); err != nil {
		return fmt.Errorf("ensure migrations table: %w", err)
	}

	applied, err := s.getAppliedMigrations()
	if err != nil {
		return fmt.Errorf("get applied migrations: %w", err)
	}

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}

		log.Printf("migrations: applying %d - %s", m.Version, m.Description)

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("begin tx for migration %d: %w", m.Version, err)
		}

		if _, err := tx.Exec(m.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("execute migration %d: %w", m.Version, err)
		}

		if _, err := tx.Exec(
			"INSERT INTO schema_migrations (version, description, applied_at) VALUES (?, ?, ?)",
			m.Version, m.Description, time.Now().UTC(),
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}
	}

	return nil
}

func (s *Store) ensureMigrationsTable() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			description TEXT,
			applied_at DATETIME
		)
	`)
	return err
}

func (s *Store) getAppliedMigrations() (map[int]bool, error) {
	rows, err := s.db.Query("SELECT version FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

func (s *Store) MigrationVersion() (int, error) {
	var version sql.NullInt64
	err := s.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version)
	if err != nil {
		return 0, err
	}
	if !version.Valid {
		return 0, nil
	}
	return int(version.Int64), nil
}
