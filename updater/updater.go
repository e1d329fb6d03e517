package updater

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/robfig/cron/v3"

	"m3u-lineup/config"
	"m3u-lineup/handlers"
	"m3u-lineup/logger"
	"m3u-lineup/playlist"
)

type Updater struct {
	sync.Mutex
	ctx         context.Context
	logger      logger.Logger
	source      handlers.ChannelSource
	invalidator handlers.Invalidator
	Cron        *cron.Cron
}

func Initialize(ctx context.Context, logger logger.Logger, source handlers.ChannelSource, invalidator handlers.Invalidator) (*Updater, error) {
	cfg := config.GetConfig()

	cronSched := cfg.SyncCron
	if cronSched == "" {
		logger.Log("SYNC_CRON not initialized. Defaulting to 0 0 * * * (12am every day).")
		cronSched = "0 0 * * *"
	}

	updateInstance := &Updater{
		ctx:         ctx,
		logger:      logger,
		source:      source,
		invalidator: invalidator,
	}

	c := cron.New()
	_, err := c.AddFunc(cronSched, func() {
		go updateInstance.UpdatePlaylist(ctx)
	})
	if err != nil {
		logger.Errorf("Error initializing background processes: %v", err)
		return nil, err
	}
	c.Start()

	if cfg.SyncOnBoot {
		logger.Log("SYNC_ON_BOOT enabled. Starting initial playlist build.")
		go updateInstance.UpdatePlaylist(ctx)
	}

	updateInstance.Cron = c

	return updateInstance, nil
}

// UpdatePlaylist renders the stored lineup to the playlist file. Only one
// run happens at a time.
func (instance *Updater) UpdatePlaylist(ctx context.Context) {
	instance.Lock()
	defer instance.Unlock()

	select {
	case <-ctx.Done():
		return
	default:
	}

	instance.logger.Log("Background process: Building playlist...")
	if err := instance.writePlaylist(ctx); err != nil {
		instance.logger.Errorf("Background process: Error building playlist: %v", err)
		return
	}

	if instance.invalidator != nil {
		instance.invalidator.Invalidate()
	}
	instance.logger.Log("Background process: Updated playlist.")
}

func (instance *Updater) writePlaylist(ctx context.Context) error {
	list, err := instance.source.LoadChannels(ctx)
	if err != nil {
		return fmt.Errorf("error loading channels: %w", err)
	}

	tmpPath := config.GetPlaylistTempPath()
	if err := os.MkdirAll(filepath.Dir(tmpPath), 0755); err != nil {
		return fmt.Errorf("error creating temp folder: %w", err)
	}

	file, err := os.OpenFile(tmpPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("error creating playlist file: %w", err)
	}

	if err := playlist.Render(file, list, playlist.Options{}); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("error closing playlist file: %w", err)
	}

	finalPath := config.GetPlaylistPath()
	if err := os.MkdirAll(filepath.Dir(finalPath), 0755); err != nil {
		return fmt.Errorf("error creating data folder: %w", err)
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		// temp and data folders may sit on different devices
		if copyErr := copyFile(tmpPath, finalPath); copyErr != nil {
			return fmt.Errorf("error moving playlist into place: %w", copyErr)
		}
		_ = os.Remove(tmpPath)
	}

	instance.logger.Debugf("Wrote %d channel(s) to %s", len(list), finalPath)
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
