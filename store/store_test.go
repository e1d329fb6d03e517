package store

import (
	"context"
	"path/filepath"
	"testing"

	"m3u-lineup/channels"
	"m3u-lineup/config"
	"m3u-lineup/settings"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLineup() []channels.Channel {
	return []channels.Channel{
		{
			Attributes: channels.Attributes{CUID: "c1", Name: "News One", Grouping: "News"},
			URL:        "http://example.com/1",
		},
		{
			Attributes: channels.Attributes{CUID: "c2", Name: "Sports One", Grouping: "Sports"},
			Overrides:  &channels.Overrides{ChannelNumber: channels.StringPtr("7"), Enabled: channels.BoolPtr(false)},
			URL:        "http://example.com/2",
		},
	}
}

func testTree() channels.Tree {
	list := testLineup()
	return channels.Tree{TreeData: []channels.Group{
		{Key: "news", Title: "News", Children: list[:1]},
		{Key: "sports", Title: "Sports", Children: list[1:]},
	}}
}

// boundaries returns every Boundary implementation backed by fresh storage.
func boundaries(t *testing.T) map[string]Boundary {
	t.Helper()

	mem, err := NewMemStore()
	require.NoError(t, err)

	lite, err := NewSQLiteStore(filepath.Join(t.TempDir(), "data", "lineup.sqlite"))
	require.NoError(t, err)

	t.Cleanup(func() {
		mem.Close()
		lite.Close()
	})

	return map[string]Boundary{"memory": mem, "sqlite": lite}
}

func TestBoundary_ChannelsRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, b := range boundaries(t) {
		t.Run(name, func(t *testing.T) {
			empty, err := b.LoadChannels(ctx)
			require.NoError(t, err)
			assert.NotNil(t, empty)
			assert.Empty(t, empty)

			require.NoError(t, b.SaveChannels(ctx, testLineup()))

			got, err := b.LoadChannels(ctx)
			require.NoError(t, err)
			require.Len(t, got, 2)
			assert.Equal(t, "c1", got[0].Key())
			assert.Equal(t, "c2", got[1].Key())
			assert.Equal(t, "7", channels.Resolve(got[1], channels.FieldChannelNumber))
			assert.False(t, channels.ResolveEnabled(got[1]))
		})
	}
}

func TestBoundary_LoadDoesNotAliasStoredState(t *testing.T) {
	ctx := context.Background()
	for name, b := range boundaries(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, b.SaveChannels(ctx, testLineup()))

			first, err := b.LoadChannels(ctx)
			require.NoError(t, err)
			*first[1].Overrides.ChannelNumber = "99"

			second, err := b.LoadChannels(ctx)
			require.NoError(t, err)
			assert.Equal(t, "7", *second[1].Overrides.ChannelNumber)
		})
	}
}

func TestBoundary_TreeAndSelection(t *testing.T) {
	ctx := context.Background()
	for name, b := range boundaries(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, b.SetTree(ctx, testTree()))

			tree, err := b.LoadTree(ctx)
			require.NoError(t, err)
			require.Len(t, tree.TreeData, 2)
			assert.Equal(t, "news", tree.TreeData[0].Key)
			assert.Nil(t, tree.SelectedGroupsAndChannels)

			sel := channels.Selection{Groups: []string{"sports"}, Children: []string{"c2"}}
			require.NoError(t, b.SaveSelection(ctx, sel))

			tree, err = b.LoadTree(ctx)
			require.NoError(t, err)
			require.NotNil(t, tree.SelectedGroupsAndChannels)
			assert.Equal(t, []string{"sports"}, tree.SelectedGroupsAndChannels.Groups)
			assert.Equal(t, []string{"c2"}, tree.SelectedGroupsAndChannels.Children)
		})
	}
}

func TestBoundary_Settings(t *testing.T) {
	ctx := context.Background()
	for name, b := range boundaries(t) {
		t.Run(name, func(t *testing.T) {
			st, err := b.LoadSettings(ctx)
			require.NoError(t, err)
			assert.NotNil(t, st.M3UFiles)
			assert.NotNil(t, st.XMLTVFiles)

			st = settings.Settings{M3UFiles: []settings.Source{{URL: "http://example.com/a.m3u", Enabled: true}}}
			require.NoError(t, b.SaveSettings(ctx, st))

			got, err := b.LoadSettings(ctx)
			require.NoError(t, err)
			require.Len(t, got.M3UFiles, 1)
			assert.Equal(t, "http://example.com/a.m3u", got.M3UFiles[0].Key)
			assert.Empty(t, got.XMLTVFiles)
		})
	}
}

func TestMemStore_IdenticalSaveIsNoop(t *testing.T) {
	ctx := context.Background()
	m, err := NewMemStore()
	require.NoError(t, err)

	require.NoError(t, m.SaveChannels(ctx, testLineup()))
	require.NoError(t, m.SaveChannels(ctx, testLineup()))
	assert.Equal(t, 1, m.Revision(snapshotChannels))

	changed := testLineup()
	changed[0].Overrides = &channels.Overrides{Name: channels.StringPtr("Renamed")}
	require.NoError(t, m.SaveChannels(ctx, changed))
	assert.Equal(t, 2, m.Revision(snapshotChannels))

	c, ok := m.Channel("c1")
	require.True(t, ok)
	assert.Equal(t, "Renamed", channels.Resolve(c, channels.FieldName))
}

func TestSQLiteStore_IdenticalSaveIsNoop(t *testing.T) {
	ctx := context.Background()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "lineup.sqlite"))
	require.NoError(t, err)
	defer s.Close()

	written, err := s.put(ctx, snapshotChannels, testLineup())
	require.NoError(t, err)
	assert.True(t, written)

	written, err = s.put(ctx, snapshotChannels, testLineup())
	require.NoError(t, err)
	assert.False(t, written)

	ts, err := s.UpdatedAt(ctx, snapshotChannels)
	require.NoError(t, err)
	assert.False(t, ts.IsZero())
}

func TestSQLiteStore_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "lineup.sqlite")

	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, s.SaveChannels(ctx, testLineup()))
	require.NoError(t, s.Close())

	s, err = NewSQLiteStore(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.LoadChannels(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestCodec_CompressRoundTrip(t *testing.T) {
	enc, err := encode(testLineup())
	require.NoError(t, err)
	assert.NotEmpty(t, enc.Checksum)

	packed, err := compress(enc.Plain)
	require.NoError(t, err)

	plain, err := decompress(packed)
	require.NoError(t, err)
	assert.Equal(t, enc.Plain, plain)

	var out []channels.Channel
	require.NoError(t, decode(plain, &out))
	assert.Len(t, out, 2)
}

func TestOpen(t *testing.T) {
	original := config.GetConfig()
	defer config.SetConfig(original)

	tempDir := t.TempDir()
	config.SetConfig(&config.Config{
		DataPath:    filepath.Join(tempDir, "data"),
		TempPath:    filepath.Join(tempDir, "temp"),
		StoreDriver: "sqlite",
	})

	b, err := Open(config.GetConfig())
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, b)
	b.Close()

	b, err = Open(&config.Config{StoreDriver: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemStore{}, b)

	_, err = Open(&config.Config{StoreDriver: "redis"})
	assert.Error(t, err)
}

func TestOpen_UsesGivenDataPath(t *testing.T) {
	original := config.GetConfig()
	defer config.SetConfig(original)

	global := t.TempDir()
	config.SetConfig(&config.Config{DataPath: global, StoreDriver: "sqlite"})

	own := filepath.Join(t.TempDir(), "own")
	b, err := Open(&config.Config{DataPath: own, StoreDriver: "sqlite"})
	require.NoError(t, err)
	require.NoError(t, b.SaveChannels(context.Background(), testLineup()))
	require.NoError(t, b.Close())

	assert.FileExists(t, filepath.Join(own, "lineup.sqlite"))
	assert.NoFileExists(t, filepath.Join(global, "lineup.sqlite"))
}
