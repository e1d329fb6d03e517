package session

import (
	"context"
	"fmt"
	"sync"

	"m3u-lineup/apperr"
	"m3u-lineup/batch"
	"m3u-lineup/channels"
	"m3u-lineup/logger"
	"m3u-lineup/selection"
	"m3u-lineup/store"
)

const (
	resourceChannels     = "channels"
	resourceChannelsSave = "channels:save"
)

// ChannelsSession is the context of the channel editing page: the loaded
// list, the row selection, the active search and the in-flight flags.
type ChannelsSession struct {
	mu sync.Mutex
	// saveMu keeps boundary writes in the order they were issued.
	saveMu sync.Mutex

	logger   logger.Logger
	store    store.Boundary
	notifier Notifier
	seq      *Sequencer

	list    []channels.Channel
	loading bool
	saving  bool

	state  *selection.State
	filter selection.Filterer
}

func NewChannelsSession(l logger.Logger, b store.Boundary, n Notifier) *ChannelsSession {
	if l == nil {
		l = logger.Default
	}
	if n == nil {
		n = NewLogNotifier(l)
	}
	return &ChannelsSession{
		logger:   l,
		store:    b,
		notifier: n,
		seq:      NewSequencer(),
		list:     []channels.Channel{},
		state:    selection.NewState(),
	}
}

// Load fetches the channel list. A failed load keeps the previous list, and a
// response superseded by a newer Load is dropped.
func (s *ChannelsSession) Load(ctx context.Context) error {
	s.mu.Lock()
	ticket := s.seq.Begin(resourceChannels)
	s.loading = true
	s.mu.Unlock()

	list, err := s.store.LoadChannels(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.seq.IsLatest(ticket) {
		s.logger.Debugf("Dropping stale channel load #%d", ticket.Seq)
		return nil
	}
	s.loading = false

	if err != nil {
		s.notifier.Error("Error", "Failed to load channels.")
		return &apperr.LoadFailure{Resource: resourceChannels, Err: err}
	}

	s.list = list
	s.logger.Debugf("Loaded %d channels", len(list))
	return nil
}

func (s *ChannelsSession) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *ChannelsSession) Saving() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saving
}

// Channels returns the full list. Entries are shared, never mutated.
func (s *ChannelsSession) Channels() []channels.Channel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]channels.Channel{}, s.list...)
}

// Displayed returns the list under the active search.
func (s *ChannelsSession) Displayed() []channels.Channel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]channels.Channel{}, s.filter.Apply(s.list)...)
}

func (s *ChannelsSession) SelectedKeys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.state.SelectedChannelKeys...)
}

func (s *ChannelsSession) ClickRow(key string, shift bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ClickRow(key, shift, s.filter.Apply(s.list))
}

func (s *ChannelsSession) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ClearSelection()
}

// EditTarget returns the channel opened for single editing, if any.
func (s *ChannelsSession) EditTarget() (channels.Channel, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.EditTarget(s.list)
}

func (s *ChannelsSession) Filter(field channels.Field, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter.Search(field, text)
}

func (s *ChannelsSession) ResetFilter() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter.Reset()
}

// EditField overrides one field of one channel and saves the list.
func (s *ChannelsSession) EditField(ctx context.Context, cuid, field, value string) error {
	f, err := channels.ParseField(field)
	if err != nil {
		return s.reject(apperr.NewValidation("field", err.Error()))
	}

	err = s.update(cuid, func(c channels.Channel) (channels.Channel, error) {
		return channels.ApplyOverride(c, f, value)
	})
	if err != nil {
		return err
	}
	return s.Save(ctx)
}

// EditChannel merges patch into the overrides of one channel and saves the
// list.
func (s *ChannelsSession) EditChannel(ctx context.Context, cuid string, patch channels.Overrides) error {
	err := s.update(cuid, func(c channels.Channel) (channels.Channel, error) {
		return channels.ApplyOverrides(c, patch), nil
	})
	if err != nil {
		return err
	}
	return s.Save(ctx)
}

func (s *ChannelsSession) update(cuid string, fn func(channels.Channel) (channels.Channel, error)) error {
	s.mu.Lock()
	next, found, err := channels.UpdateByCUID(s.list, cuid, fn)
	if found && err == nil {
		s.list = next
	}
	s.mu.Unlock()

	if !found {
		return s.reject(apperr.NewValidation("CUID", fmt.Sprintf("unknown channel %q", cuid)))
	}
	if err != nil {
		return s.reject(apperr.NewValidation("value", err.Error()))
	}
	return nil
}

// BatchPreview projects tpl over the selected rows without touching the list.
func (s *ChannelsSession) BatchPreview(tpl batch.Template) ([]channels.Channel, error) {
	if err := tpl.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return batch.Preview(s.list, s.state.SelectedChannelKeys, tpl), nil
}

// BatchCommit applies tpl to the selected rows, clears the selection and
// saves the full list. An empty selection is a no-op.
func (s *ChannelsSession) BatchCommit(ctx context.Context, tpl batch.Template) error {
	if err := tpl.Validate(); err != nil {
		return s.reject(err)
	}

	s.mu.Lock()
	if len(s.state.SelectedChannelKeys) == 0 {
		s.mu.Unlock()
		return nil
	}
	s.list = batch.Commit(s.list, s.state.SelectedChannelKeys, tpl)
	s.state.ClearSelection()
	collisions := batch.Collisions(s.list)
	s.mu.Unlock()

	for _, c := range collisions {
		s.logger.Debugf("Channel number %s is shared by %d channels", c.ChannelNumber, len(c.CUIDs))
	}
	return s.Save(ctx)
}

// Save sends the current list. On failure the in-memory list is kept so the
// next Save resends it.
func (s *ChannelsSession) Save(ctx context.Context) error {
	s.mu.Lock()
	ticket := s.seq.Begin(resourceChannelsSave)
	s.saving = true
	s.mu.Unlock()

	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	list := s.list
	s.mu.Unlock()

	err := s.store.SaveChannels(ctx, list)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.seq.IsLatest(ticket) {
		s.saving = false
	}

	if err != nil {
		s.notifier.Error("Error", "Failed to save channels.")
		return &apperr.SaveFailure{Resource: resourceChannels, Err: err}
	}

	s.notifier.Success("Success", "Channels saved successfully.")
	return nil
}

func (s *ChannelsSession) reject(err error) error {
	s.notifier.Error("Error", reason(err))
	return err
}
