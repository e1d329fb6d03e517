package settings

import (
	"strings"

	"github.com/google/uuid"

	"m3u-lineup/apperr"
	"m3u-lineup/utils"
)

type Kind string

const (
	KindM3U   Kind = "m3u"
	KindXMLTV Kind = "xmltv"
)

// Source is one playlist or guide URL.
type Source struct {
	Key     string `json:"key"`
	URL     string `json:"url"`
	Enabled bool   `json:"enabled"`
}

type Settings struct {
	M3UFiles   []Source `json:"m3uFiles"`
	XMLTVFiles []Source `json:"xmltvFiles"`
}

func New() Settings {
	return Settings{M3UFiles: []Source{}, XMLTVFiles: []Source{}}
}

// Normalize fills missing keys with the URL, the way freshly loaded entries
// are keyed, and replaces nil lists with empty ones.
func (s Settings) Normalize() Settings {
	out := Settings{
		M3UFiles:   normalizeList(s.M3UFiles),
		XMLTVFiles: normalizeList(s.XMLTVFiles),
	}
	return out
}

func normalizeList(list []Source) []Source {
	out := make([]Source, 0, len(list))
	for _, src := range list {
		if src.Key == "" {
			src.Key = src.URL
		}
		out = append(out, src)
	}
	return out
}

func (s Settings) list(kind Kind) []Source {
	if kind == KindXMLTV {
		return s.XMLTVFiles
	}
	return s.M3UFiles
}

func (s Settings) with(kind Kind, list []Source) Settings {
	if kind == KindXMLTV {
		s.XMLTVFiles = list
	} else {
		s.M3UFiles = list
	}
	return s
}

func label(kind Kind) string {
	if kind == KindXMLTV {
		return "XMLTV"
	}
	return "M3U"
}

// Add appends rawURL as an enabled source. Malformed schemes and URLs that
// are already present are rejected and s is returned unchanged.
func (s Settings) Add(kind Kind, rawURL string) (Settings, error) {
	url := strings.TrimSpace(rawURL)
	if !utils.IsHTTPURL(url) {
		return s, apperr.NewValidation(string(kind)+"Files", "URL must start with http:// or https://")
	}

	current := s.list(kind)
	for _, src := range current {
		if src.URL == url {
			return s, apperr.NewValidation(string(kind)+"Files", "This "+label(kind)+" URL already exists.")
		}
	}

	next := make([]Source, 0, len(current)+1)
	next = append(next, current...)
	next = append(next, Source{Key: uuid.NewString(), URL: url, Enabled: true})
	return s.with(kind, next), nil
}

func (s Settings) AddM3U(url string) (Settings, error) {
	return s.Add(KindM3U, url)
}

func (s Settings) AddXMLTV(url string) (Settings, error) {
	return s.Add(KindXMLTV, url)
}

func (s Settings) Remove(kind Kind, key string) Settings {
	current := s.list(kind)
	next := make([]Source, 0, len(current))
	for _, src := range current {
		if src.Key != key {
			next = append(next, src)
		}
	}
	return s.with(kind, next)
}

func (s Settings) Toggle(kind Kind, key string) Settings {
	current := s.list(kind)
	next := make([]Source, len(current))
	for i, src := range current {
		if src.Key == key {
			src.Enabled = !src.Enabled
		}
		next[i] = src
	}
	return s.with(kind, next)
}

// EnabledURLs returns the URLs of enabled sources of kind, in order.
func (s Settings) EnabledURLs(kind Kind) []string {
	out := []string{}
	for _, src := range s.list(kind) {
		if src.Enabled {
			out = append(out, src.URL)
		}
	}
	return out
}

func Equal(a, b Settings) bool {
	return equalList(a.M3UFiles, b.M3UFiles) && equalList(a.XMLTVFiles, b.XMLTVFiles)
}

func equalList(a, b []Source) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Rebuild runs every source of posted through Add, so the result holds only
// well-formed, unique URLs. Posted keys and enabled flags are kept.
func Rebuild(posted Settings) (Settings, error) {
	out := New()
	for _, kind := range []Kind{KindM3U, KindXMLTV} {
		for _, src := range posted.list(kind) {
			next, err := out.Add(kind, src.URL)
			if err != nil {
				return out, err
			}
			list := next.list(kind)
			added := &list[len(list)-1]
			if src.Key != "" {
				added.Key = src.Key
			}
			added.Enabled = src.Enabled
			out = next.with(kind, list)
		}
	}
	return out, nil
}
