package session

import (
	"context"
	"sync"

	"m3u-lineup/apperr"
	"m3u-lineup/channels"
	"m3u-lineup/logger"
	"m3u-lineup/selection"
	"m3u-lineup/store"
)

const (
	resourceTree      = "tree"
	resourceSelection = "selection"
)

// TreeSession is the context of the group and channel picker.
type TreeSession struct {
	mu     sync.Mutex
	sendMu sync.Mutex

	logger   logger.Logger
	store    store.Boundary
	notifier Notifier
	seq      *Sequencer

	tree    channels.Tree
	focus   string
	loading bool
	sending bool

	state *selection.State
}

func NewTreeSession(l logger.Logger, b store.Boundary, n Notifier) *TreeSession {
	if l == nil {
		l = logger.Default
	}
	if n == nil {
		n = NewLogNotifier(l)
	}
	return &TreeSession{
		logger:   l,
		store:    b,
		notifier: n,
		seq:      NewSequencer(),
		tree:     channels.Tree{TreeData: []channels.Group{}},
		state:    selection.NewState(),
	}
}

// LoadTree fetches the group tree. The persisted selection is copied into
// the local one the first time it shows up.
func (s *TreeSession) LoadTree(ctx context.Context) error {
	s.mu.Lock()
	ticket := s.seq.Begin(resourceTree)
	s.loading = true
	s.mu.Unlock()

	tree, err := s.store.LoadTree(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.seq.IsLatest(ticket) {
		s.logger.Debugf("Dropping stale tree load #%d", ticket.Seq)
		return nil
	}
	s.loading = false

	if err != nil {
		s.notifier.Error("Error", "Failed to load channel groups.")
		return &apperr.LoadFailure{Resource: resourceTree, Err: err}
	}

	s.tree = tree
	if s.state.SeedFrom(tree.SelectedGroupsAndChannels) {
		s.logger.Debugf("Restored selection: %d group(s), %d channel(s)",
			len(s.state.SelectedGroupKeys), len(s.state.SelectedChannelKeys))
	}
	return nil
}

func (s *TreeSession) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *TreeSession) Sending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sending
}

func (s *TreeSession) Groups() []selection.GroupSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return selection.Summaries(s.tree)
}

func (s *TreeSession) SetSelectedGroups(keys []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SetSelectedGroups(keys)
}

func (s *TreeSession) SelectedGroups() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.state.SelectedGroupKeys...)
}

// Focus picks the group whose channels are offered. Use selection.AllGroups
// for every selected group.
func (s *TreeSession) Focus(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.focus = key
}

func (s *TreeSession) Children() []channels.Channel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return selection.ChildrenFor(s.focus, s.tree, s.state.SelectedGroupKeys)
}

func (s *TreeSession) SetSelectedChannels(keys []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SetSelectedChannels(keys)
}

func (s *TreeSession) SelectedChannels() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.state.SelectedChannelKeys...)
}

// Send persists the selection after dropping keys the tree no longer knows.
func (s *TreeSession) Send(ctx context.Context) error {
	s.mu.Lock()
	ticket := s.seq.Begin(resourceSelection)
	s.sending = true
	s.mu.Unlock()

	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	s.mu.Lock()
	sel := s.state.ResolveForCommit(s.tree)
	s.mu.Unlock()

	err := s.store.SaveSelection(ctx, sel)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.seq.IsLatest(ticket) {
		s.sending = false
	}

	if err != nil {
		s.notifier.Error("Error", "Failed to send selection.")
		return &apperr.SaveFailure{Resource: resourceSelection, Err: err}
	}

	s.notifier.Success("Success", "Data sent successfully!")
	return nil
}
