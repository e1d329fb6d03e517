package selection

import "m3u-lineup/channels"

// AllGroups is the focus key that shows every selected group at once.
const AllGroups = "all"

type GroupSummary struct {
	Key      string
	Title    string
	Channels int
}

// ChildrenFor returns the channel candidates for focusKey. The result is
// never nil.
func ChildrenFor(focusKey string, tree channels.Tree, selectedGroupKeys []string) []channels.Channel {
	switch focusKey {
	case "":
		return []channels.Channel{}
	case AllGroups:
		out := []channels.Channel{}
		for _, key := range selectedGroupKeys {
			if g, ok := tree.Group(key); ok {
				out = append(out, g.Children...)
			}
		}
		return out
	}

	g, ok := tree.Group(focusKey)
	if !ok {
		return []channels.Channel{}
	}
	return append([]channels.Channel{}, g.Children...)
}

func Summaries(tree channels.Tree) []GroupSummary {
	out := make([]GroupSummary, 0, len(tree.TreeData))
	for _, g := range tree.TreeData {
		out = append(out, GroupSummary{Key: g.Key, Title: g.Title, Channels: len(g.Children)})
	}
	return out
}

// Lineup builds the curated list for sel in the order of sel.Children.
// Channels already in current keep their overrides; the rest come from tree.
func Lineup(tree channels.Tree, sel channels.Selection, current []channels.Channel) []channels.Channel {
	candidates := make(map[string]channels.Channel)
	for _, key := range sel.Groups {
		g, ok := tree.Group(key)
		if !ok {
			continue
		}
		for _, c := range g.Children {
			candidates[c.Key()] = c
		}
	}

	out := make([]channels.Channel, 0, len(sel.Children))
	seen := make(map[string]struct{}, len(sel.Children))
	for _, key := range sel.Children {
		c, ok := candidates[key]
		if !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		if existing, ok := channels.Find(current, key); ok {
			c.Overrides = existing.Overrides
		}
		out = append(out, c)
	}
	return out
}
