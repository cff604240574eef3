package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/JKrag/punnett-simulator/internal/model"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) SavePairing(ctx context.Context, pairing model.Pairing) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	if pairing.ID == "" {
		return errors.New("pairing id is required")
	}

	payload, err := EncodePairing(pairing)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO pairings (id, created_at_utc, schema_version, codec_version, payload)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			created_at_utc = excluded.created_at_utc,
			schema_version = excluded.schema_version,
			codec_version = excluded.codec_version,
			payload = excluded.payload
	`, pairing.ID, pairing.CreatedAtUTC, pairing.SchemaVersion, pairing.CodecVersion, payload)
	return err
}

func (s *SQLiteStore) GetPairing(ctx context.Context, id string) (model.Pairing, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return model.Pairing{}, false, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx, `SELECT payload FROM pairings WHERE id = ?`, id).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Pairing{}, false, nil
		}
		return model.Pairing{}, false, err
	}

	pairing, err := DecodePairing(payload)
	if err != nil {
		return model.Pairing{}, false, fmt.Errorf("decode pairing %s: %w", id, err)
	}
	return pairing, true, nil
}

func (s *SQLiteStore) ListPairings(ctx context.Context) ([]model.Pairing, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT id, payload FROM pairings ORDER BY created_at_utc DESC, rowid DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Pairing
	for rows.Next() {
		var (
			id      string
			payload []byte
		)
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, err
		}
		pairing, err := DecodePairing(payload)
		if err != nil {
			return nil, fmt.Errorf("decode pairing %s: %w", id, err)
		}
		out = append(out, pairing)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) DeletePairing(ctx context.Context, id string) (bool, error) {
	db, err := s.getDB()
	if err != nil {
		return false, err
	}

	res, err := db.ExecContext(ctx, `DELETE FROM pairings WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS pairings (
			id TEXT PRIMARY KEY,
			created_at_utc TEXT NOT NULL,
			schema_version INTEGER NOT NULL,
			codec_version INTEGER NOT NULL,
			payload BLOB NOT NULL
		);
	`)
	return err
}
