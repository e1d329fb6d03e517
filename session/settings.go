package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"m3u-lineup/apperr"
	"m3u-lineup/logger"
	"m3u-lineup/settings"
	"m3u-lineup/store"
)

const (
	resourceSettings     = "settings"
	resourceSettingsSave = "settings:save"
)

// SettingsSession is the context of the data source page. Every change is
// saved once the debounce interval passes without another change.
type SettingsSession struct {
	mu     sync.Mutex
	saveMu sync.Mutex

	logger   logger.Logger
	store    store.Boundary
	notifier Notifier
	seq      *Sequencer
	autosave *Debouncer

	settings settings.Settings
	loaded   bool
	loading  bool
	saving   bool
}

func NewSettingsSession(l logger.Logger, b store.Boundary, n Notifier, debounce time.Duration) *SettingsSession {
	if l == nil {
		l = logger.Default
	}
	if n == nil {
		n = NewLogNotifier(l)
	}
	s := &SettingsSession{
		logger:   l,
		store:    b,
		notifier: n,
		seq:      NewSequencer(),
		settings: settings.New(),
	}
	s.autosave = NewDebouncer(debounce, func() {
		_ = s.Save(context.Background())
	})
	return s
}

// Load fetches the sources. Loading never schedules a save by itself.
func (s *SettingsSession) Load(ctx context.Context) error {
	s.mu.Lock()
	ticket := s.seq.Begin(resourceSettings)
	s.loading = true
	s.mu.Unlock()

	st, err := s.store.LoadSettings(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.seq.IsLatest(ticket) {
		s.logger.Debugf("Dropping stale settings load #%d", ticket.Seq)
		return nil
	}
	s.loading = false

	if err != nil {
		s.notifier.Error("Error", "Failed to load settings.")
		return &apperr.LoadFailure{Resource: resourceSettings, Err: err}
	}

	s.settings = st.Normalize()
	s.loaded = true
	return nil
}

func (s *SettingsSession) Settings() settings.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

func (s *SettingsSession) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *SettingsSession) Saving() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saving
}

func (s *SettingsSession) Add(kind settings.Kind, url string) error {
	s.mu.Lock()
	next, err := s.settings.Add(kind, url)
	if err != nil {
		s.mu.Unlock()
		s.notifier.Error("Error", reason(err))
		return err
	}
	s.settings = next
	s.mu.Unlock()

	s.changed()
	return nil
}

func (s *SettingsSession) Remove(kind settings.Kind, key string) {
	s.mu.Lock()
	s.settings = s.settings.Remove(kind, key)
	s.mu.Unlock()

	s.changed()
}

func (s *SettingsSession) Toggle(kind settings.Kind, key string) {
	s.mu.Lock()
	s.settings = s.settings.Toggle(kind, key)
	s.mu.Unlock()

	s.changed()
}

// changed restarts the auto-save timer once the first load succeeded.
func (s *SettingsSession) changed() {
	s.mu.Lock()
	loaded := s.loaded
	s.mu.Unlock()

	if loaded {
		s.autosave.Trigger()
	}
}

// Flush saves a pending change now instead of waiting for the timer.
func (s *SettingsSession) Flush() {
	s.autosave.Flush()
}

// Save sends the current sources. A failure keeps them in memory and the
// next change or Save resends them.
func (s *SettingsSession) Save(ctx context.Context) error {
	s.mu.Lock()
	ticket := s.seq.Begin(resourceSettingsSave)
	s.saving = true
	s.mu.Unlock()

	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	st := s.settings
	s.mu.Unlock()

	err := s.store.SaveSettings(ctx, st)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.seq.IsLatest(ticket) {
		s.saving = false
	}

	if err != nil {
		s.logger.Errorf("Error saving settings: %v", err)
		s.notifier.Error("Save Failed", "Failed to save settings. Please try again later.")
		return &apperr.SaveFailure{Resource: resourceSettings, Err: err}
	}

	s.logger.Debugf("Saved %d M3U and %d XMLTV source(s)", len(st.M3UFiles), len(st.XMLTVFiles))
	return nil
}

func (s *SettingsSession) Close() {
	s.autosave.Stop()
}

func reason(err error) string {
	var v *apperr.ValidationError
	if errors.As(err, &v) {
		return v.Reason
	}
	return err.Error()
}
