package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/cenkalti/backoff/v4"
	_ "modernc.org/sqlite"

	"github.com/lox/pogoda/internal/mockdata"
	"github.com/lox/pogoda/internal/models"
)

// Store is the read model the weather screens render from.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open opens the SQLite database at path, retrying while the file is locked
// by another process. ":memory:" gives a private in-process database.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if path == ":memory:" {
		// Every pooled connection would get its own empty database.
		db.SetMaxOpenConns(1)
	}

	operation := func() error {
		if err := db.PingContext(ctx); err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return fmt.Errorf("ping: %w", err)
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 10 * time.Second
	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		db.Close()
		return nil, err
	}

	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")

	return New(db), nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SeedLocation replaces everything stored for one city.
func (s *Store) SeedLocation(ctx context.Context, city models.CitySummary, snap models.WeatherSnapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed %s: %w", city.Name, err)
	}
	defer tx.Rollback()

	for _, table := range []string{"hourly_samples", "daily_samples", "current_conditions"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE location = ?", city.Name); err != nil {
			return fmt.Errorf("clear %s for %s: %w", table, city.Name, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO locations (name, position, summary_condition, summary_temp, summary_icon)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			position = excluded.position,
			summary_condition = excluded.summary_condition,
			summary_temp = excluded.summary_temp,
			summary_icon = excluded.summary_icon
	`, city.Name, city.Position, city.Condition, city.Temp, city.Icon); err != nil {
		return fmt.Errorf("upsert location %s: %w", city.Name, err)
	}

	c := snap.Current
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO current_conditions (location, temp, condition, icon, feels_like, humidity, wind_speed, uv_index, visibility_km, pressure_mb)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, city.Name, c.Temp, c.Condition, c.Icon, c.FeelsLike, c.Humidity, c.WindSpeed, c.UVIndex, c.VisibilityKM, c.PressureMB); err != nil {
		return fmt.Errorf("insert current for %s: %w", city.Name, err)
	}

	for _, h := range snap.Hourly {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO hourly_samples (location, hour, time_label, temp, icon, precipitation)
			VALUES (?, ?, ?, ?, ?, ?)
		`, city.Name, h.Hour, h.Time, h.Temp, h.Icon, h.Precipitation); err != nil {
			return fmt.Errorf("insert hour %d for %s: %w", h.Hour, city.Name, err)
		}
	}

	for i, d := range snap.Daily {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO daily_samples (location, position, day_label, icon, temp_max, temp_min)
			VALUES (?, ?, ?, ?, ?, ?)
		`, city.Name, i, d.Day, d.Icon, d.TempMax, d.TempMin); err != nil {
			return fmt.Errorf("insert day %s for %s: %w", d.Day, city.Name, err)
		}
	}

	return tx.Commit()
}

// SeedMock loads the built-in catalogue.
func (s *Store) SeedMock(ctx context.Context) error {
	for _, city := range mockdata.Cities() {
		if err := s.SeedLocation(ctx, city, mockdata.Snapshot(city.Name)); err != nil {
			return err
		}
	}
	log.Printf("store: seeded %d locations", len(mockdata.Cities()))
	return nil
}

// Locations returns location names in display order.
func (s *Store) Locations(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM locations ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Cities returns the cities screen rows in display order.
func (s *Store) Cities(ctx context.Context) ([]models.CitySummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT position, name, summary_condition, summary_temp, summary_icon
		FROM locations
		ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cities []models.CitySummary
	for rows.Next() {
		var c models.CitySummary
		if err := rows.Scan(&c.Position, &c.Name, &c.Condition, &c.Temp, &c.Icon); err != nil {
			return nil, err
		}
		cities = append(cities, c)
	}
	return cities, rows.Err()
}

// Snapshot loads the weather for a location. It returns nil, nil when the
// location is not stored.
func (s *Store) Snapshot(ctx context.Context, location string) (*models.WeatherSnapshot, error) {
	snap := models.WeatherSnapshot{Location: location}

	var visibility, pressure sql.NullInt64
	c := &snap.Current
	err := s.db.QueryRowContext(ctx, `
		SELECT temp, condition, icon, feels_like, humidity, wind_speed, uv_index, visibility_km, pressure_mb
		FROM current_conditions
		WHERE location = ?
	`, location).Scan(&c.Temp, &c.Condition, &c.Icon, &c.FeelsLike, &c.Humidity, &c.WindSpeed, &c.UVIndex, &visibility, &pressure)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("current for %s: %w", location, err)
	}
	c.VisibilityKM = int(visibility.Int64)
	c.PressureMB = int(pressure.Int64)

	snap.Hourly, err = s.hourly(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("hourly for %s: %w", location, err)
	}
	snap.Daily, err = s.daily(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("daily for %s: %w", location, err)
	}
	return &snap, nil
}

func (s *Store) hourly(ctx context.Context, location string) ([]models.HourlySample, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT hour, time_label, temp, icon, precipitation
		FROM hourly_samples
		WHERE location = ?
		ORDER BY hour
	`, location)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hours []models.HourlySample
	for rows.Next() {
		var h models.HourlySample
		if err := rows.Scan(&h.Hour, &h.Time, &h.Temp, &h.Icon, &h.Precipitation); err != nil {
			return nil, err
		}
		hours = append(hours, h)
	}
	return hours, rows.Err()
}

func (s *Store) daily(ctx context.Context, location string) ([]models.DailySample, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT day_label, icon, temp_max, temp_min
		FROM daily_samples
		WHERE location = ?
		ORDER BY position
	`, location)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []models.DailySample
	for rows.Next() {
		var d models.DailySample
		if err := rows.Scan(&d.Day, &d.Icon, &d.TempMax, &d.TempMin); err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}
