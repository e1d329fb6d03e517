package handlers

import (
	"fmt"
	"net/http"
	"sync"

	"m3u-lineup/apperr"
	"m3u-lineup/channels"
	"m3u-lineup/logger"
	"m3u-lineup/selection"
	"m3u-lineup/settings"
)

// LineupAPI groups the JSON endpoints of the curation pages. Writes that
// replace the channel list are serialized across endpoints.
type LineupAPI struct {
	Channels *ChannelsHTTPHandler
	Tree     *TreeHTTPHandler
	Settings *SettingsHTTPHandler
}

func NewLineupAPI(logger logger.Logger, store LineupStore, invalidator Invalidator) *LineupAPI {
	mu := &sync.Mutex{}
	return &LineupAPI{
		Channels: &ChannelsHTTPHandler{logger: logger, store: store, invalidator: invalidator, mu: mu},
		Tree:     &TreeHTTPHandler{logger: logger, store: store, invalidator: invalidator, mu: mu},
		Settings: &SettingsHTTPHandler{logger: logger, store: store},
	}
}

func (a *LineupAPI) Register(mux *http.ServeMux) {
	mux.Handle("/m3u/my", a.Channels)
	mux.Handle("/m3u/current", a.Tree)
	mux.Handle("/settings", a.Settings)
}

// ChannelsHTTPHandler serves the curated channel list.
type ChannelsHTTPHandler struct {
	logger      logger.Logger
	store       LineupStore
	invalidator Invalidator
	mu          *sync.Mutex
}

func (h *ChannelsHTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	switch r.Method {
	case http.MethodGet:
		list, err := h.store.LoadChannels(r.Context())
		if err != nil {
			writeError(w, h.logger, "Failed to load channels.", err)
			return
		}
		writeJSON(w, h.logger, http.StatusOK, list)
	case http.MethodPost:
		var posted []channels.Channel
		if err := readJSON(w, r, &posted); err != nil {
			writeError(w, h.logger, "Failed to save channels.", err)
			return
		}
		list, err := h.save(r, posted)
		if err != nil {
			writeError(w, h.logger, "Failed to save channels.", err)
			return
		}
		writeJSON(w, h.logger, http.StatusOK, list)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

// save stores posted as the new list. Source attributes of channels that are
// already known are kept; only their overrides are taken from the request.
func (h *ChannelsHTTPHandler) save(r *http.Request, posted []channels.Channel) ([]channels.Channel, error) {
	seen := make(map[string]struct{}, len(posted))
	for _, c := range posted {
		if c.Key() == "" {
			return nil, apperr.NewValidation("CUID", "every channel needs a CUID")
		}
		if _, dup := seen[c.Key()]; dup {
			return nil, apperr.NewValidation("CUID", fmt.Sprintf("duplicate channel %q", c.Key()))
		}
		seen[c.Key()] = struct{}{}
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	current, err := h.store.LoadChannels(r.Context())
	if err != nil {
		return nil, err
	}

	list := make([]channels.Channel, 0, len(posted))
	for _, c := range posted {
		if stored, ok := channels.Find(current, c.Key()); ok {
			c.Attributes = stored.Attributes
			c.URL = stored.URL
		}
		list = append(list, c)
	}

	if err := h.store.SaveChannels(r.Context(), list); err != nil {
		return nil, err
	}
	h.invalidator.Invalidate()
	h.logger.Debugf("Saved %d channels", len(list))
	return list, nil
}

// TreeHTTPHandler serves the source tree and accepts the group and channel
// selection. PUT replaces the tree itself.
type TreeHTTPHandler struct {
	logger      logger.Logger
	store       LineupStore
	invalidator Invalidator
	mu          *sync.Mutex
}

func (h *TreeHTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	switch r.Method {
	case http.MethodGet:
		tree, err := h.store.LoadTree(r.Context())
		if err != nil {
			writeError(w, h.logger, "Failed to load channel groups.", err)
			return
		}
		writeJSON(w, h.logger, http.StatusOK, tree)
	case http.MethodPost:
		var posted channels.Selection
		if err := readJSON(w, r, &posted); err != nil {
			writeError(w, h.logger, "Failed to send selection.", err)
			return
		}
		sel, err := h.commit(r, posted)
		if err != nil {
			writeError(w, h.logger, "Failed to send selection.", err)
			return
		}
		writeJSON(w, h.logger, http.StatusOK, sel)
	case http.MethodPut:
		var tree channels.Tree
		if err := readJSON(w, r, &tree); err != nil {
			writeError(w, h.logger, "Failed to store channel groups.", err)
			return
		}
		if tree.TreeData == nil {
			tree.TreeData = []channels.Group{}
		}
		if err := h.store.SetTree(r.Context(), tree); err != nil {
			writeError(w, h.logger, "Failed to store channel groups.", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, "GET, POST, PUT")
	}
}

// commit persists posted after dropping keys the tree no longer knows, then
// rebuilds the channel list from the selected channels.
func (h *TreeHTTPHandler) commit(r *http.Request, posted channels.Selection) (channels.Selection, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	tree, err := h.store.LoadTree(r.Context())
	if err != nil {
		return channels.Selection{}, err
	}

	state := selection.NewState()
	state.SetSelectedGroups(posted.Groups)
	state.SetSelectedChannels(posted.Children)
	sel := state.ResolveForCommit(tree)

	if err := h.store.SaveSelection(r.Context(), sel); err != nil {
		return channels.Selection{}, err
	}

	current, err := h.store.LoadChannels(r.Context())
	if err != nil {
		return channels.Selection{}, err
	}
	if err := h.store.SaveChannels(r.Context(), selection.Lineup(tree, sel, current)); err != nil {
		return channels.Selection{}, err
	}
	h.invalidator.Invalidate()

	h.logger.Logf("Selection stored: %d group(s), %d channel(s)", len(sel.Groups), len(sel.Children))
	return sel, nil
}

// SettingsHTTPHandler serves the M3U and XMLTV sources. Posted sources go
// through the same checks as sources added one by one.
type SettingsHTTPHandler struct {
	logger logger.Logger
	store  LineupStore
}

func (h *SettingsHTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	switch r.Method {
	case http.MethodGet:
		st, err := h.store.LoadSettings(r.Context())
		if err != nil {
			writeError(w, h.logger, "Failed to load settings.", err)
			return
		}
		writeJSON(w, h.logger, http.StatusOK, st.Normalize())
	case http.MethodPost:
		var posted settings.Settings
		if err := readJSON(w, r, &posted); err != nil {
			writeError(w, h.logger, "Failed to save settings.", err)
			return
		}
		st, err := settings.Rebuild(posted)
		if err != nil {
			writeError(w, h.logger, "Failed to save settings.", err)
			return
		}
		if err := h.store.SaveSettings(r.Context(), st); err != nil {
			writeError(w, h.logger, "Failed to save settings.", err)
			return
		}
		writeJSON(w, h.logger, http.StatusOK, st)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}
