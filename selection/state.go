package selection

import (
	"m3u-lineup/channels"
)

// State is the selection context handed to every selection operation. It
// carries no references to channel records, only CUIDs and group keys.
type State struct {
	SelectedGroupKeys   []string
	SelectedChannelKeys []string

	LastClickedKey string
	// EditTargetKey is the channel opened for single editing when a toggle
	// leaves exactly one row selected.
	EditTargetKey string

	groupSeed   SeedState
	channelSeed SeedState
}

func NewState() *State {
	return &State{
		SelectedGroupKeys:   []string{},
		SelectedChannelKeys: []string{},
	}
}

// SetSelectedGroups replaces the selected group set. Duplicates collapse to
// their first occurrence.
func (s *State) SetSelectedGroups(keys []string) {
	s.SelectedGroupKeys = dedupe(keys)
}

// SetSelectedChannels replaces the ordered channel selection. Order is kept
// exactly as given since batch numbering follows it.
func (s *State) SetSelectedChannels(keys []string) {
	s.SelectedChannelKeys = dedupe(keys)
}

func (s *State) IsGroupSelected(key string) bool {
	return contains(s.SelectedGroupKeys, key)
}

func (s *State) IsChannelSelected(key string) bool {
	return contains(s.SelectedChannelKeys, key)
}

func (s *State) ClearSelection() {
	s.SelectedChannelKeys = []string{}
	s.EditTargetKey = ""
}

// ClickRow applies a table row click. A shift click extends the selection
// with the inclusive range between the last clicked row and key, in displayed
// order, without removing anything. A plain click toggles key alone.
func (s *State) ClickRow(key string, shift bool, displayed []channels.Channel) {
	if shift && s.LastClickedKey != "" {
		s.extendRange(key, displayed)
		return
	}

	if contains(s.SelectedChannelKeys, key) {
		s.SelectedChannelKeys = remove(s.SelectedChannelKeys, key)
	} else {
		s.SelectedChannelKeys = append(append([]string{}, s.SelectedChannelKeys...), key)
	}
	s.LastClickedKey = key

	if len(s.SelectedChannelKeys) == 1 {
		s.EditTargetKey = s.SelectedChannelKeys[0]
	}
}

func (s *State) extendRange(key string, displayed []channels.Channel) {
	end := channels.IndexOf(displayed, key)
	if end < 0 {
		return
	}
	start := channels.IndexOf(displayed, s.LastClickedKey)
	if start < 0 {
		// anchor filtered out of view
		start = end
	}
	if start > end {
		start, end = end, start
	}

	next := append([]string{}, s.SelectedChannelKeys...)
	for _, c := range displayed[start : end+1] {
		if !contains(next, c.Attributes.CUID) {
			next = append(next, c.Attributes.CUID)
		}
	}
	s.SelectedChannelKeys = next
}

// EditTarget resolves the single-edit channel against the current list.
func (s *State) EditTarget(list []channels.Channel) (channels.Channel, bool) {
	if s.EditTargetKey == "" {
		return channels.Channel{}, false
	}
	return channels.Find(list, s.EditTargetKey)
}

// ResolveForCommit drops group keys missing from tree and channel keys not
// reachable from a selected group, keeping the order of what remains.
func (s *State) ResolveForCommit(tree channels.Tree) channels.Selection {
	groups := make([]string, 0, len(s.SelectedGroupKeys))
	reachable := make(map[string]struct{})
	for _, key := range s.SelectedGroupKeys {
		g, ok := tree.Group(key)
		if !ok {
			continue
		}
		groups = append(groups, key)
		for _, c := range g.Children {
			reachable[c.Attributes.CUID] = struct{}{}
		}
	}

	children := make([]string, 0, len(s.SelectedChannelKeys))
	for _, key := range s.SelectedChannelKeys {
		if _, ok := reachable[key]; ok {
			children = append(children, key)
		}
	}

	return channels.Selection{Groups: groups, Children: children}
}

func contains(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}

func remove(keys []string, key string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if k != key {
			out = append(out, k)
		}
	}
	return out
}

func dedupe(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
