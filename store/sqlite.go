package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"m3u-lineup/channels"
	"m3u-lineup/logger"
	"m3u-lineup/settings"
)

// SQLiteStore keeps each snapshot as one zstd compressed JSON row.
type SQLiteStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewSQLiteStore(filename string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return nil, fmt.Errorf("error creating data folder: %w", err)
	}

	db, err := sql.Open("sqlite", filename)
	if err != nil {
		return nil, fmt.Errorf("error opening SQLite database: %w", err)
	}
	// a single writer keeps snapshot upserts serialized
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS snapshots (
			name TEXT PRIMARY KEY,
			checksum TEXT NOT NULL,
			payload BLOB NOT NULL,
			updated_at INTEGER NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating table: %w", err)
	}

	return &SQLiteStore{db: db, logger: logger.Default}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// put upserts the snapshot unless the stored checksum already matches. It
// reports whether a row was written.
func (s *SQLiteStore) put(ctx context.Context, name string, value any) (bool, error) {
	enc, err := encode(value)
	if err != nil {
		return false, err
	}

	payload, err := compress(enc.Plain)
	if err != nil {
		return false, err
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO snapshots(name, checksum, payload, updated_at) VALUES(?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			checksum = excluded.checksum,
			payload = excluded.payload,
			updated_at = excluded.updated_at
		WHERE snapshots.checksum <> excluded.checksum
	`, name, enc.Checksum, payload, time.Now().Unix())
	if err != nil {
		return false, fmt.Errorf("error writing %s snapshot: %w", name, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error getting affected rows: %w", err)
	}

	s.logger.Debugf("Snapshot %s: %d row(s) written", name, affected)
	return affected > 0, nil
}

// get decodes the named snapshot into v. It reports false when none exists.
func (s *SQLiteStore) get(ctx context.Context, name string, v any) (bool, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, "SELECT payload FROM snapshots WHERE name = ?", name).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("error querying %s snapshot: %w", name, err)
	}

	plain, err := decompress(payload)
	if err != nil {
		return false, err
	}
	return true, decode(plain, v)
}

// UpdatedAt returns when the named snapshot was last written.
func (s *SQLiteStore) UpdatedAt(ctx context.Context, name string) (time.Time, error) {
	var ts int64
	err := s.db.QueryRowContext(ctx, "SELECT updated_at FROM snapshots WHERE name = ?", name).Scan(&ts)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("error querying %s snapshot: %w", name, err)
	}
	return time.Unix(ts, 0), nil
}

func (s *SQLiteStore) SaveChannels(ctx context.Context, list []channels.Channel) error {
	if list == nil {
		list = []channels.Channel{}
	}
	_, err := s.put(ctx, snapshotChannels, list)
	return err
}

func (s *SQLiteStore) LoadChannels(ctx context.Context) ([]channels.Channel, error) {
	out := []channels.Channel{}
	if _, err := s.get(ctx, snapshotChannels, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLiteStore) SetTree(ctx context.Context, tree channels.Tree) error {
	groups := tree.TreeData
	if groups == nil {
		groups = []channels.Group{}
	}
	_, err := s.put(ctx, snapshotTree, groups)
	return err
}

func (s *SQLiteStore) LoadTree(ctx context.Context) (channels.Tree, error) {
	tree := channels.Tree{TreeData: []channels.Group{}}
	if _, err := s.get(ctx, snapshotTree, &tree.TreeData); err != nil {
		return channels.Tree{}, err
	}

	var sel channels.Selection
	found, err := s.get(ctx, snapshotSelection, &sel)
	if err != nil {
		return channels.Tree{}, err
	}
	if found {
		tree.SelectedGroupsAndChannels = &sel
	}
	return tree, nil
}

func (s *SQLiteStore) SaveSelection(ctx context.Context, sel channels.Selection) error {
	if sel.Groups == nil {
		sel.Groups = []string{}
	}
	if sel.Children == nil {
		sel.Children = []string{}
	}
	_, err := s.put(ctx, snapshotSelection, sel)
	return err
}

func (s *SQLiteStore) SaveSettings(ctx context.Context, st settings.Settings) error {
	_, err := s.put(ctx, snapshotSettings, st.Normalize())
	return err
}

func (s *SQLiteStore) LoadSettings(ctx context.Context) (settings.Settings, error) {
	st := settings.New()
	if _, err := s.get(ctx, snapshotSettings, &st); err != nil {
		return settings.Settings{}, err
	}
	return st.Normalize(), nil
}
