package kernel

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteStore is a Store persisted in a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// OpenSQLiteStore opens or creates the database at path.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating state directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// One connection keeps ":memory:" databases coherent.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}
	for _, stmt := range []string{
		`CREATE TABLE IF NOT EXISTS accounts (
			address BLOB PRIMARY KEY,
			balance INTEGER NOT NULL,
			nonce INTEGER NOT NULL,
			code BLOB
		)`,
		`CREATE TABLE IF NOT EXISTS storage (
			address BLOB NOT NULL,
			key BLOB NOT NULL,
			value BLOB NOT NULL,
			PRIMARY KEY (address, key)
		)`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating table: %w", err)
		}
	}
	log.Debug("opened sqlite store", "path", path)
	return &SQLiteStore{db: db, path: path}, nil
}

// Path returns the database path.
func (s *SQLiteStore) Path() string { return s.path }

// Account implements Store.
func (s *SQLiteStore) Account(addr Address) (*Account, error) {
	var a Account
	err := s.db.QueryRow(
		"SELECT balance, nonce, code FROM accounts WHERE address = ?", addr[:],
	).Scan(&a.Balance, &a.Nonce, &a.Code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading account: %w", err)
	}
	return &a, nil
}

// PutAccount implements Store.
func (s *SQLiteStore) PutAccount(addr Address, acct *Account) error {
	_, err := s.db.Exec(
		"INSERT OR REPLACE INTO accounts (address, balance, nonce, code) VALUES (?, ?, ?, ?)",
		addr[:], acct.Balance, acct.Nonce, acct.Code,
	)
	if err != nil {
		return fmt.Errorf("writing account: %w", err)
	}
	return nil
}

// DeleteAccount implements Store.
func (s *SQLiteStore) DeleteAccount(addr Address) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()
	if _, err := tx.Exec("DELETE FROM storage WHERE address = ?", addr[:]); err != nil {
		return fmt.Errorf("deleting storage: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM accounts WHERE address = ?", addr[:]); err != nil {
		return fmt.Errorf("deleting account: %w", err)
	}
	return tx.Commit()
}

// Storage implements Store.
func (s *SQLiteStore) Storage(addr Address, key []byte) ([]byte, error) {
	var v []byte
	err := s.db.QueryRow(
		"SELECT value FROM storage WHERE address = ? AND key = ?", addr[:], key,
	).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading storage: %w", err)
	}
	return v, nil
}

// PutStorage implements Store.
func (s *SQLiteStore) PutStorage(addr Address, key, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	_, err := s.db.Exec(
		"INSERT OR REPLACE INTO storage (address, key, value) VALUES (?, ?, ?)",
		addr[:], key, value,
	)
	if err != nil {
		return fmt.Errorf("writing storage: %w", err)
	}
	return nil
}

// StorageEntries implements Store.
func (s *SQLiteStore) StorageEntries(addr Address) (map[string][]byte, error) {
	rows, err := s.db.Query("SELECT key, value FROM storage WHERE address = ?", addr[:])
	if err != nil {
		return nil, fmt.Errorf("listing storage: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]byte)
	for rows.Next() {
		var k, v []byte
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scanning storage: %w", err)
		}
		out[string(k)] = v
	}
	return out, rows.Err()
}

// Close implements Store.
func (s *SQLiteStore) Close() error { return s.db.Close() }
