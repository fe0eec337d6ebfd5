package datastore

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SlotDatabase keeps slots in the SQLite slots table
type SlotDatabase struct {
	database *sql.DB
}

func NewSlotDatabase(db *sql.DB) (SlotDatabase, error) {
	if db == nil {
		return SlotDatabase{}, fmt.Errorf("sql db is required")
	}
	var slotDB SlotDatabase
	slotDB.database = db
	return slotDB, nil
}

// Get returns the value stored under key
func (sdb SlotDatabase) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, errEmptyKey
	}
	db := sdb.database

	var value []byte
	err := db.QueryRow(`SELECT value FROM slots WHERE key = ?`, key).Scan(&value)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, NoRowsError{true, err}
	case err != nil:
		return nil, fmt.Errorf("failed to read slot %q: %w", key, err)
	default:
		return value, nil
	}
}

// Set replaces the value stored under key
func (sdb SlotDatabase) Set(key string, value []byte) error {
	if key == "" {
		return errEmptyKey
	}
	db := sdb.database

	sqlStatement := `
		INSERT INTO slots (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (key)
		DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`

	if value == nil {
		value = []byte{}
	}
	_, err := db.Exec(sqlStatement, key, value, time.Now().UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to write slot %q: %w", key, err)
	}
	return nil
}

// Remove deletes key; removing a missing key is not an error
func (sdb SlotDatabase) Remove(key string) error {
	if key == "" {
		return errEmptyKey
	}
	db := sdb.database

	if _, err := db.Exec(`DELETE FROM slots WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to remove slot %q: %w", key, err)
	}
	return nil
}
