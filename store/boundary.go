package store

import (
	"context"
	"fmt"

	"m3u-lineup/channels"
	"m3u-lineup/config"
	"m3u-lineup/settings"
)

// Snapshot names shared by every Boundary implementation.
const (
	snapshotTree      = "tree"
	snapshotSelection = "selection"
	snapshotChannels  = "channels"
	snapshotSettings  = "settings"
)

// Boundary is the persistence collaborator of the curation core. Every call
// exchanges whole in-memory values; nothing returned aliases store state.
type Boundary interface {
	LoadTree(ctx context.Context) (channels.Tree, error)
	SetTree(ctx context.Context, tree channels.Tree) error
	SaveSelection(ctx context.Context, sel channels.Selection) error

	LoadChannels(ctx context.Context) ([]channels.Channel, error)
	// SaveChannels is idempotent: resending an identical list writes nothing.
	SaveChannels(ctx context.Context, list []channels.Channel) error

	LoadSettings(ctx context.Context) (settings.Settings, error)
	SaveSettings(ctx context.Context, s settings.Settings) error

	Close() error
}

// Open returns the Boundary selected by c.StoreDriver.
func Open(c *config.Config) (Boundary, error) {
	switch c.StoreDriver {
	case "memory":
		return NewMemStore()
	case "sqlite", "":
		return NewSQLiteStore(c.DatabasePath())
	}
	return nil, fmt.Errorf("unknown store driver %q", c.StoreDriver)
}
