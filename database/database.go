package database

import (
	"database/sql"
	"fmt"
	"log"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// InitPrefsDB opens the lightweight key/value store backing user
// preferences (watermark defaults and similar cross-session settings).
func InitPrefsDB(dataSourceName string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// enable write-ahead Logging for better concurrency
	_, err = db.Exec("PRAGMA journal_mode=WAL;")
	if err != nil {
		log.Printf("warning: failed to set WAL mode: %v", err)
	}

	sqlStmt := `
	CREATE TABLE IF NOT EXISTS preferences (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err = db.Exec(sqlStmt)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create preferences table: %w", err)
	}

	log.Println("preferences database initialized successfully at", dataSourceName)
	return db, nil
}

// GetPreference retrieves a preference value by key. The second return
// reports whether the key was present.
func GetPreference(db *sql.DB, key string) (string, bool, error) {
	queryBuilder := psql.Select("value").
		From("preferences").
		Where(sq.Eq{"key": key}).
		Limit(1)

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return "", false, fmt.Errorf("failed to build SQL query for GetPreference: %w", err)
	}

	var value string
	err = db.QueryRow(sqlStr, args...).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to query or scan preference %s: %w", key, err)
	}
	return value, true, nil
}

// SetPreference inserts or updates a preference value
func SetPreference(db *sql.DB, key, value string) error {
	queryBuilder := psql.Insert("preferences").
		Columns("key", "value").
		Values(key, value).
		Suffix("ON CONFLICT(key) DO UPDATE SET").
		Suffix("value = excluded.value")

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build SQL query for SetPreference: %w", err)
	}

	_, err = db.Exec(sqlStr, args...)
	if err != nil {
		return fmt.Errorf("failed to execute set preference %s: %w", key, err)
	}
	return nil
}

// DeletePreference removes a preference by key. Missing keys are not an error.
func DeletePreference(db *sql.DB, key string) error {
	queryBuilder := psql.Delete("preferences").Where(sq.Eq{"key": key})

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build SQL query for DeletePreference: %w", err)
	}

	_, err = db.Exec(sqlStr, args...)
	if err != nil {
		return fmt.Errorf("failed to execute delete preference %s: %w", key, err)
	}
	return nil
}
