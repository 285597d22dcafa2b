package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// KVStore is the durable key-value tier. Rows carry their own expiry so
// eviction works independently of the in-process cache's bookkeeping.
type KVStore struct {
	db  *DB
	log zerolog.Logger
}

// NewKVStore creates a key-value store over the given database.
func NewKVStore(db *DB, log zerolog.Logger) *KVStore {
	return &KVStore{
		db:  db,
		log: log.With().Str("component", "kvstore").Logger(),
	}
}

// Get returns the value for key, or (nil, nil) when the key is absent or
// its row has expired.
func (s *KVStore) Get(key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRow(
		`SELECT value FROM kvstore WHERE key = ? AND expires_at > ?`,
		key, time.Now().UnixMilli(),
	).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("kvstore get %q: %w", key, err)
	}
	return value, nil
}

// Put upserts the value with the given time-to-live.
func (s *KVStore) Put(key string, value []byte, ttl time.Duration) error {
	expiresAt := time.Now().Add(ttl).UnixMilli()
	_, err := s.db.Exec(
		`INSERT INTO kvstore (key, value, expires_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`,
		key, value, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("kvstore put %q: %w", key, err)
	}
	return nil
}

// Delete removes the key. Deleting an absent key is not an error.
func (s *KVStore) Delete(key string) error {
	_, err := s.db.Exec(`DELETE FROM kvstore WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("kvstore delete %q: %w", key, err)
	}
	return nil
}

// PurgeExpired removes rows past their expiry and returns the count.
func (s *KVStore) PurgeExpired() (int64, error) {
	res, err := s.db.Exec(`DELETE FROM kvstore WHERE expires_at <= ?`, time.Now().UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("kvstore purge: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return n, nil
}
