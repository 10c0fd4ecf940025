package database

import (
	"database/sql"
	"fmt"
	"sort"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations holds the full schema history, applied in version order.
// Patterns and assessments are stored one row per client as JSON documents;
// the scalar columns exist for sorted listings and dashboard filters.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_location_observations",
		SQL: `
			CREATE TABLE IF NOT EXISTS location_observations (
				id TEXT PRIMARY KEY,
				client_id TEXT NOT NULL,
				latitude REAL NOT NULL,
				longitude REAL NOT NULL,
				address TEXT NOT NULL DEFAULT '',
				timestamp INTEGER NOT NULL,
				accuracy REAL NOT NULL DEFAULT 0,
				source TEXT NOT NULL,
				verified INTEGER NOT NULL DEFAULT 0,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX IF NOT EXISTS idx_observations_client_time
				ON location_observations(client_id, timestamp);
		`,
	},
	{
		Version: 2,
		Name:    "create_location_patterns",
		SQL: `
			CREATE TABLE IF NOT EXISTS location_patterns (
				client_id TEXT PRIMARY KEY,
				pattern_type TEXT NOT NULL,
				compliance_score INTEGER NOT NULL,
				pattern_json TEXT NOT NULL,
				last_analysis INTEGER NOT NULL
			);
		`,
	},
	{
		Version: 3,
		Name:    "create_risk_assessments",
		SQL: `
			CREATE TABLE IF NOT EXISTS risk_assessments (
				client_id TEXT PRIMARY KEY,
				risk_level TEXT NOT NULL,
				risk_score INTEGER NOT NULL,
				assessment_json TEXT NOT NULL,
				last_assessment INTEGER NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_assessments_risk
				ON risk_assessments(risk_level, risk_score);
		`,
	},
}

// Migrate applies any migrations not yet recorded in the migrations table
func Migrate(db *sql.DB) error {
	if err := initMigrationsTable(db); err != nil {
		return err
	}

	applied, err := appliedMigrations(db)
	if err != nil {
		return err
	}

	pending := make([]Migration, 0, len(migrations))
	for _, m := range migrations {
		if !applied[m.Version] {
			pending = append(pending, m)
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].Version < pending[j].Version })

	for _, m := range pending {
		err := Transaction(db, func(tx *sql.Tx) error {
			if _, err := tx.Exec(m.SQL); err != nil {
				return fmt.Errorf("failed to apply migration %d_%s: %w", m.Version, m.Name, err)
			}
			if _, err := tx.Exec("INSERT INTO migrations (version, name) VALUES (?, ?)", m.Version, m.Name); err != nil {
				return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// initMigrationsTable creates the migrations tracking table
func initMigrationsTable(db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

// appliedMigrations returns the set of applied migration versions
func appliedMigrations(db *sql.DB) (map[int]bool, error) {
	rows, err := db.Query("SELECT version FROM migrations ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("failed to query migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[version] = true
	}

	return applied, rows.Err()
}
