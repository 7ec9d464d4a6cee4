package backing

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/arif-itm/FarmProof/internal/codec"
	"github.com/arif-itm/FarmProof/internal/types"
)

const (
	defaultDBFile    = "farmproof.db"
	maxBusyTimeoutMs = 5000
	snapshotRowID    = 1
)

// SQLite persists the Domain State snapshot in a single-row SQLite
// table. The document is still replaced wholesale on every save; SQLite
// buys crash-safe replacement and room for future per-entity tables
// without changing the Backing contract.
type SQLite struct {
	mu   sync.Mutex
	db   *sql.DB
	file string
}

// NewSQLite opens (or creates) the snapshot database at filePath. A
// legacy JSON snapshot sitting next to the database is migrated in and
// renamed aside on first open.
func NewSQLite(filePath string) (*SQLite, error) {
	if filePath == "" {
		filePath = defaultDBFile
	}

	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return nil, fmt.Errorf("resolve db path: %w", err)
	}

	s := &SQLite{file: absPath}
	if err := s.openDB(); err != nil {
		return nil, err
	}
	if err := s.ensureSchema(); err != nil {
		s.db.Close()
		return nil, err
	}
	if err := s.migrateLegacyJSON(); err != nil {
		s.db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) openDB() error {
	if err := os.MkdirAll(filepath.Dir(s.file), 0o755); err != nil {
		return fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s", filepath.Clean(s.file)))
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d", maxBusyTimeoutMs)); err != nil {
		db.Close()
		return fmt.Errorf("set busy timeout: %w", err)
	}

	s.db = db
	return nil
}

func (s *SQLite) ensureSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS snapshot (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		document TEXT NOT NULL,
		updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
	)`)
	if err != nil {
		return fmt.Errorf("create snapshot table: %w", err)
	}

	var mode string
	if err := s.db.QueryRow("PRAGMA journal_mode=WAL").Scan(&mode); err != nil {
		return fmt.Errorf("enable WAL: %w", err)
	}
	return nil
}

// migrateLegacyJSON imports a demoDatabase.json left behind by the
// file-backed deployment, then renames it so the import runs once.
func (s *SQLite) migrateLegacyJSON() error {
	legacyPath := filepath.Join(filepath.Dir(s.file), defaultSnapshotFile)
	data, err := os.ReadFile(legacyPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read legacy snapshot: %w", err)
	}

	state, err := codec.DecodeState(data)
	if err != nil {
		// Corrupt legacy file: leave it in place, start from the db.
		return nil
	}

	if err := s.Save(state); err != nil {
		return fmt.Errorf("migrate legacy snapshot: %w", err)
	}
	if err := os.Rename(legacyPath, legacyPath+".migrated"); err != nil {
		return fmt.Errorf("rename legacy snapshot: %w", err)
	}
	return nil
}

func (s *SQLite) Load() (types.DomainState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var document string
	err := s.db.QueryRow(`SELECT document FROM snapshot WHERE id = ?`, snapshotRowID).Scan(&document)
	if err != nil {
		return types.DefaultState(), nil
	}
	state, err := codec.DecodeState([]byte(document))
	if err != nil {
		return types.DefaultState(), nil
	}
	return state, nil
}

func (s *SQLite) Save(state types.DomainState) error {
	data, err := codec.EncodeState(state)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.Exec(`INSERT INTO snapshot (id, document, updated_at)
		VALUES (?, ?, strftime('%Y-%m-%dT%H:%M:%fZ','now'))
		ON CONFLICT(id) DO UPDATE SET
			document = excluded.document,
			updated_at = excluded.updated_at`, snapshotRowID, string(data))
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

func (s *SQLite) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
