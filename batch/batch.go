package batch

import (
	"sort"
	"strconv"

	"m3u-lineup/apperr"
	"m3u-lineup/channels"
)

// Template is the set of changes shared by every channel in a batch.
type Template struct {
	Grouping              string `json:"grouping"`
	Enabled               bool   `json:"enabled"`
	StartingChannelNumber int    `json:"startingChannelNumber"`
}

// DefaultTemplate mirrors the initial state of the multi-edit form.
func DefaultTemplate() Template {
	return Template{Enabled: true, StartingChannelNumber: 1}
}

func (t Template) Validate() error {
	if t.StartingChannelNumber < 1 {
		return apperr.NewValidation("startingChannelNumber", "must be a positive integer")
	}
	return nil
}

// apply stamps the template onto c as the i-th channel of the batch.
func (t Template) apply(c channels.Channel, i int) channels.Channel {
	return channels.ApplyOverrides(c, channels.Overrides{
		Group:         channels.StringPtr(t.Grouping),
		Enabled:       channels.BoolPtr(t.Enabled),
		ChannelNumber: channels.StringPtr(strconv.Itoa(t.StartingChannelNumber + i)),
	})
}

// positions maps every selected CUID present in list to its batch position.
// Keys missing from list are skipped and do not consume a number.
func positions(list []channels.Channel, keys []string) (map[string]int, []string) {
	present := channels.Index(list)
	pos := make(map[string]int, len(keys))
	ordered := make([]string, 0, len(keys))
	for _, key := range keys {
		if _, ok := present[key]; !ok {
			continue
		}
		if _, dup := pos[key]; dup {
			continue
		}
		pos[key] = len(ordered)
		ordered = append(ordered, key)
	}
	return pos, ordered
}

// Preview returns the selected channels with the template applied, in the
// order of keys. list is not modified.
func Preview(list []channels.Channel, keys []string, tpl Template) []channels.Channel {
	present := channels.Index(list)
	_, ordered := positions(list, keys)

	out := make([]channels.Channel, 0, len(ordered))
	for i, key := range ordered {
		out = append(out, tpl.apply(list[present[key]], i))
	}
	return out
}

// Commit returns the full list with every selected channel replaced by its
// preview. Unselected channels are carried over unchanged.
func Commit(list []channels.Channel, keys []string, tpl Template) []channels.Channel {
	pos, ordered := positions(list, keys)
	if len(ordered) == 0 {
		return list
	}

	out := make([]channels.Channel, len(list))
	applied := make(map[string]struct{}, len(ordered))
	for i, c := range list {
		idx, selected := pos[c.Attributes.CUID]
		if !selected {
			out[i] = c
			continue
		}
		if _, done := applied[c.Attributes.CUID]; done {
			out[i] = c
			continue
		}
		applied[c.Attributes.CUID] = struct{}{}
		out[i] = tpl.apply(c, idx)
	}
	return out
}

// Collision is an effective channel number claimed by more than one channel.
type Collision struct {
	ChannelNumber string
	CUIDs         []string
}

// Collisions lists effective channel numbers shared by several channels,
// ordered by number. It is informational only, nothing is renumbered.
func Collisions(list []channels.Channel) []Collision {
	byNumber := make(map[string][]string)
	for _, c := range list {
		n := channels.Resolve(c, channels.FieldChannelNumber)
		if n == channels.NotAvailable {
			continue
		}
		byNumber[n] = append(byNumber[n], c.Attributes.CUID)
	}

	out := []Collision{}
	for n, cuids := range byNumber {
		if len(cuids) > 1 {
			out = append(out, Collision{ChannelNumber: n, CUIDs: cuids})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return lessChannelNumber(out[i].ChannelNumber, out[j].ChannelNumber)
	})
	return out
}

func lessChannelNumber(a, b string) bool {
	ai, aErr := strconv.Atoi(a)
	bi, bErr := strconv.Atoi(b)
	switch {
	case aErr == nil && bErr == nil:
		return ai < bi
	case aErr == nil:
		return true
	case bErr == nil:
		return false
	}
	return a < b
}
