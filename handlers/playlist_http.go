package handlers

import (
	"bytes"
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"m3u-lineup/channels"
	"m3u-lineup/logger"
	"m3u-lineup/playlist"
)

// ChannelSource is the part of the store the playlist is built from.
type ChannelSource interface {
	LoadChannels(ctx context.Context) ([]channels.Channel, error)
}

// PlaylistHTTPHandler serves the curated lineup as an M3U playlist. Rendered
// bodies are cached per sort order until they expire or Invalidate is called.
type PlaylistHTTPHandler struct {
	logger logger.Logger
	source ChannelSource
	cache  *cache.Cache
}

func NewPlaylistHTTPHandler(logger logger.Logger, source ChannelSource, ttl time.Duration) *PlaylistHTTPHandler {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &PlaylistHTTPHandler{
		logger: logger,
		source: source,
		cache:  cache.New(ttl, 2*ttl),
	}
}

// Invalidate drops every cached playlist.
func (h *PlaylistHTTPHandler) Invalidate() {
	h.cache.Flush()
}

func (h *PlaylistHTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	opts := parseOptions(r)
	key := opts.SortKey + "|" + strconv.FormatBool(opts.Descending)

	body, found := h.cache.Get(key)
	if !found {
		rendered, err := h.render(r.Context(), opts)
		if err != nil {
			h.logger.Errorf("Error rendering playlist: %v", err)
			http.Error(w, "Failed to build playlist.", http.StatusInternalServerError)
			return
		}
		h.cache.Set(key, rendered, cache.DefaultExpiration)
		body = rendered
	} else {
		h.logger.Debugf("Serving cached playlist for %s", key)
	}

	data := body.([]byte)
	w.Header().Set("Content-Type", "audio/x-mpegurl")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodGet {
		_, _ = w.Write(data)
	}
}

func (h *PlaylistHTTPHandler) render(ctx context.Context, opts playlist.Options) ([]byte, error) {
	list, err := h.source.LoadChannels(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := playlist.Render(&buf, list, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func parseOptions(r *http.Request) playlist.Options {
	q := r.URL.Query()
	opts := playlist.Options{SortKey: playlist.SortByChannelNumber}

	switch key := q.Get("sort"); key {
	case playlist.SortByName, playlist.SortByID, playlist.SortByGroup:
		opts.SortKey = key
	}
	opts.Descending = strings.EqualFold(q.Get("dir"), "desc")
	return opts
}
