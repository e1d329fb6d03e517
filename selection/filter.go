package selection

import (
	"strings"

	"m3u-lineup/channels"
)

// Filter keeps the channels whose override or attribute value for field
// contains text, ignoring case. An empty text returns list itself.
func Filter(list []channels.Channel, field channels.Field, text string) []channels.Channel {
	if text == "" {
		return list
	}

	needle := strings.ToLower(text)
	out := make([]channels.Channel, 0, len(list))
	for _, c := range list {
		if matches(c, field, needle) {
			out = append(out, c)
		}
	}
	return out
}

func matches(c channels.Channel, field channels.Field, needle string) bool {
	if v, ok := channels.OverrideValue(c, field); ok && strings.Contains(strings.ToLower(v), needle) {
		return true
	}
	if v, ok := channels.AttributeValue(c, field); ok && strings.Contains(strings.ToLower(v), needle) {
		return true
	}
	if v := channels.Resolve(c, field); v != channels.NotAvailable {
		return strings.Contains(strings.ToLower(v), needle)
	}
	return false
}

// Filterer remembers the active column search of a channel table.
type Filterer struct {
	Field  channels.Field
	Text   string
	Active bool
}

func (f *Filterer) Search(field channels.Field, text string) {
	f.Field = field
	f.Text = text
	f.Active = true
}

func (f *Filterer) Reset() {
	f.Field = ""
	f.Text = ""
	f.Active = false
}

// Apply returns the displayed list for list under the current search.
func (f *Filterer) Apply(list []channels.Channel) []channels.Channel {
	if !f.Active {
		return list
	}
	return Filter(list, f.Field, f.Text)
}
