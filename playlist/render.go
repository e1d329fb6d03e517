package playlist

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/valyala/bytebufferpool"

	"m3u-lineup/channels"
)

// Sort keys accepted by Options.SortKey.
const (
	SortByChannelNumber = "tvg-chno"
	SortByName          = "tvg-name"
	SortByID            = "tvg-id"
	SortByGroup         = "group-title"
)

type Options struct {
	SortKey    string
	Descending bool
}

// Render writes the enabled channels of list as an M3U playlist using their
// effective values.
func Render(w io.Writer, list []channels.Channel, opts Options) error {
	entries := make([]channels.EffectiveChannel, 0, len(list))
	for _, c := range list {
		eff := channels.Effective(c)
		if !eff.Enabled {
			continue
		}
		entries = append(entries, eff)
	}
	sortEntries(entries, opts)

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString("#EXTM3U\n")
	for _, e := range entries {
		_, _ = buf.WriteString(formatEntry(e))
	}

	if _, err := w.Write(buf.B); err != nil {
		return fmt.Errorf("error writing playlist: %w", err)
	}
	return nil
}

func formatEntry(e channels.EffectiveChannel) string {
	var entry strings.Builder

	extInfTags := []string{"#EXTINF:-1"}

	if v := available(e.ID); v != "" {
		extInfTags = append(extInfTags, fmt.Sprintf("tvg-id=\"%s\"", v))
	}
	if v := available(e.ChannelNumber); v != "" {
		extInfTags = append(extInfTags, fmt.Sprintf("tvg-chno=\"%s\"", v))
	}
	if v := available(e.Logo); v != "" {
		extInfTags = append(extInfTags, fmt.Sprintf("tvg-logo=\"%s\"", v))
	}
	if v := available(e.Name); v != "" {
		extInfTags = append(extInfTags, fmt.Sprintf("tvg-name=\"%s\"", v))
	}
	if v := available(e.Group); v != "" {
		extInfTags = append(extInfTags, fmt.Sprintf("group-title=\"%s\"", v))
	}

	title := available(e.Title)
	if title == "" {
		title = available(e.Name)
	}

	entry.WriteString(fmt.Sprintf("%s,%s\n", strings.Join(extInfTags, " "), title))
	entry.WriteString(e.URL)
	entry.WriteString("\n")

	return entry.String()
}

// available drops the N/A placeholder and characters that would break a tag.
func available(v string) string {
	if v == channels.NotAvailable {
		return ""
	}
	return strings.NewReplacer("\"", "'", "\n", " ", "\r", " ").Replace(v)
}

func sortEntries(s []channels.EffectiveChannel, opts Options) {
	var key func(channels.EffectiveChannel) string
	switch opts.SortKey {
	case SortByName:
		key = func(e channels.EffectiveChannel) string { return strings.ToLower(e.Name) }
	case SortByID:
		key = func(e channels.EffectiveChannel) string { return e.ID }
	case SortByGroup:
		key = func(e channels.EffectiveChannel) string { return strings.ToLower(e.Group) }
	default:
		sort.SliceStable(s, func(i, j int) bool {
			return lessNumber(s[i].ChannelNumber, s[j].ChannelNumber, opts.Descending)
		})
		return
	}

	sort.SliceStable(s, func(i, j int) bool {
		if opts.Descending {
			return key(s[i]) > key(s[j])
		}
		return key(s[i]) < key(s[j])
	})
}

// lessNumber orders numeric channel numbers first. Non-numeric ones keep
// their relative order after them.
func lessNumber(a, b string, desc bool) bool {
	ai, aErr := strconv.Atoi(a)
	bi, bErr := strconv.Atoi(b)
	if aErr != nil || bErr != nil {
		return aErr == nil && bErr != nil
	}
	if desc {
		return ai > bi
	}
	return ai < bi
}
