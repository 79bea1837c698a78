package settings

import (
	"database/sql"
	"log"
)

// Store reads white-label site settings from the site_settings table.
// Every accessor degrades to a caller-supplied default on any storage
// failure; a broken database must never take a page down.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Get returns the stored value for key, or def when the key is unset or
// the store is unreachable.
func (s *Store) Get(key, def string) string {
	var value string
	err := s.db.QueryRow(
		"SELECT setting_value FROM site_settings WHERE setting_key = ?", key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return def
	}
	if err != nil {
		log.Printf("settings: get %q: %v", key, err)
		return def
	}
	return value
}

// All returns every stored setting. On failure it returns an empty map.
func (s *Store) All() map[string]string {
	out := make(map[string]string)

	rows, err := s.db.Query("SELECT setting_key, setting_value FROM site_settings")
	if err != nil {
		log.Printf("settings: list: %v", err)
		return out
	}
	defer rows.Close()

	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			log.Printf("settings: scan: %v", err)
			continue
		}
		out[k] = v
	}
	if err := rows.Err(); err != nil {
		log.Printf("settings: rows: %v", err)
	}
	return out
}

// Set upserts a setting. Used by seeding; the serving path is read-only.
func (s *Store) Set(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO site_settings (setting_key, setting_value) VALUES (?, ?)
		ON CONFLICT(setting_key) DO UPDATE SET setting_value = excluded.setting_value
	`, key, value)
	return err
}
