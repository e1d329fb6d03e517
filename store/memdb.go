package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-memdb"

	"m3u-lineup/channels"
	"m3u-lineup/settings"
)

type channelRecord struct {
	CUID     string
	Position int
	Channel  channels.Channel
}

type groupRecord struct {
	Key      string
	Position int
	Group    channels.Group
}

type snapshotRecord struct {
	Name     string
	Checksum string
	Revision int
	Value    any
}

var memSchema = &memdb.DBSchema{
	Tables: map[string]*memdb.TableSchema{
		"channels": {
			Name: "channels",
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:    "id",
					Unique:  true,
					Indexer: &memdb.StringFieldIndex{Field: "CUID"},
				},
				"position": {
					Name:    "position",
					Unique:  true,
					Indexer: &memdb.IntFieldIndex{Field: "Position"},
				},
			},
		},
		"groups": {
			Name: "groups",
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:    "id",
					Unique:  true,
					Indexer: &memdb.StringFieldIndex{Field: "Key"},
				},
				"position": {
					Name:    "position",
					Unique:  true,
					Indexer: &memdb.IntFieldIndex{Field: "Position"},
				},
			},
		},
		"snapshots": {
			Name: "snapshots",
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:    "id",
					Unique:  true,
					Indexer: &memdb.StringFieldIndex{Field: "Name"},
				},
			},
		},
	},
}

// MemStore keeps the lineup in an in-memory go-memdb database.
type MemStore struct {
	mu sync.Mutex
	db *memdb.MemDB
}

func NewMemStore() (*MemStore, error) {
	db, err := memdb.NewMemDB(memSchema)
	if err != nil {
		return nil, fmt.Errorf("error creating memdb: %w", err)
	}
	return &MemStore{db: db}, nil
}

func (m *MemStore) Close() error {
	return nil
}

// Revision reports how many times the named snapshot was actually written.
func (m *MemStore) Revision(name string) int {
	txn := m.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First("snapshots", "id", name)
	if err != nil || raw == nil {
		return 0
	}
	return raw.(*snapshotRecord).Revision
}

// changed reports whether enc differs from the stored checksum of name.
func changed(txn *memdb.Txn, name string, enc encoded) (bool, int, error) {
	raw, err := txn.First("snapshots", "id", name)
	if err != nil {
		return false, 0, err
	}
	if raw == nil {
		return true, 0, nil
	}
	rec := raw.(*snapshotRecord)
	return rec.Checksum != enc.Checksum, rec.Revision, nil
}

func (m *MemStore) writeSnapshot(ctx context.Context, name string, value any, fill func(txn *memdb.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	enc, err := encode(value)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	txn := m.db.Txn(true)
	defer txn.Abort()

	dirty, revision, err := changed(txn, name, enc)
	if err != nil {
		return fmt.Errorf("error reading %s snapshot: %w", name, err)
	}
	if !dirty {
		return nil
	}

	if fill != nil {
		if err := fill(txn); err != nil {
			return fmt.Errorf("error writing %s: %w", name, err)
		}
	}

	rec := &snapshotRecord{Name: name, Checksum: enc.Checksum, Revision: revision + 1, Value: value}
	if err := txn.Insert("snapshots", rec); err != nil {
		return fmt.Errorf("error writing %s snapshot: %w", name, err)
	}

	txn.Commit()
	return nil
}

func (m *MemStore) readSnapshot(name string) (any, error) {
	txn := m.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First("snapshots", "id", name)
	if err != nil {
		return nil, fmt.Errorf("error reading %s snapshot: %w", name, err)
	}
	if raw == nil {
		return nil, nil
	}
	return raw.(*snapshotRecord).Value, nil
}

func (m *MemStore) SaveChannels(ctx context.Context, list []channels.Channel) error {
	list = channels.CloneList(list)
	return m.writeSnapshot(ctx, snapshotChannels, list, func(txn *memdb.Txn) error {
		if _, err := txn.DeleteAll("channels", "id"); err != nil {
			return err
		}
		for i, c := range list {
			if err := txn.Insert("channels", &channelRecord{CUID: c.Attributes.CUID, Position: i, Channel: c}); err != nil {
				return err
			}
		}
		return nil
	})
}

func (m *MemStore) LoadChannels(ctx context.Context) ([]channels.Channel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	txn := m.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get("channels", "position")
	if err != nil {
		return nil, fmt.Errorf("error querying channels: %w", err)
	}

	out := []channels.Channel{}
	for obj := it.Next(); obj != nil; obj = it.Next() {
		out = append(out, channels.Clone(obj.(*channelRecord).Channel))
	}
	return out, nil
}

// Channel looks up a single stored channel by CUID.
func (m *MemStore) Channel(cuid string) (channels.Channel, bool) {
	txn := m.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First("channels", "id", cuid)
	if err != nil || raw == nil {
		return channels.Channel{}, false
	}
	return channels.Clone(raw.(*channelRecord).Channel), true
}

func (m *MemStore) SetTree(ctx context.Context, tree channels.Tree) error {
	groups := make([]channels.Group, len(tree.TreeData))
	for i, g := range tree.TreeData {
		g.Children = channels.CloneList(g.Children)
		groups[i] = g
	}

	return m.writeSnapshot(ctx, snapshotTree, groups, func(txn *memdb.Txn) error {
		if _, err := txn.DeleteAll("groups", "id"); err != nil {
			return err
		}
		for i, g := range groups {
			if err := txn.Insert("groups", &groupRecord{Key: g.Key, Position: i, Group: g}); err != nil {
				return err
			}
		}
		return nil
	})
}

func (m *MemStore) LoadTree(ctx context.Context) (channels.Tree, error) {
	if err := ctx.Err(); err != nil {
		return channels.Tree{}, err
	}

	txn := m.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get("groups", "position")
	if err != nil {
		return channels.Tree{}, fmt.Errorf("error querying groups: %w", err)
	}

	tree := channels.Tree{TreeData: []channels.Group{}}
	for obj := it.Next(); obj != nil; obj = it.Next() {
		g := obj.(*groupRecord).Group
		g.Children = channels.CloneList(g.Children)
		tree.TreeData = append(tree.TreeData, g)
	}

	raw, err := m.readSnapshot(snapshotSelection)
	if err != nil {
		return channels.Tree{}, err
	}
	if sel, ok := raw.(channels.Selection); ok {
		tree.SelectedGroupsAndChannels = &channels.Selection{
			Groups:   append([]string{}, sel.Groups...),
			Children: append([]string{}, sel.Children...),
		}
	}
	return tree, nil
}

func (m *MemStore) SaveSelection(ctx context.Context, sel channels.Selection) error {
	sel = channels.Selection{
		Groups:   append([]string{}, sel.Groups...),
		Children: append([]string{}, sel.Children...),
	}
	return m.writeSnapshot(ctx, snapshotSelection, sel, nil)
}

func (m *MemStore) SaveSettings(ctx context.Context, s settings.Settings) error {
	return m.writeSnapshot(ctx, snapshotSettings, s.Normalize(), nil)
}

func (m *MemStore) LoadSettings(ctx context.Context) (settings.Settings, error) {
	if err := ctx.Err(); err != nil {
		return settings.Settings{}, err
	}

	raw, err := m.readSnapshot(snapshotSettings)
	if err != nil {
		return settings.Settings{}, err
	}
	if s, ok := raw.(settings.Settings); ok {
		return s.Normalize(), nil
	}
	return settings.New(), nil
}
