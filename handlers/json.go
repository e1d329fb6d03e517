package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"m3u-lineup/apperr"
	"m3u-lineup/channels"
	"m3u-lineup/logger"
	"m3u-lineup/settings"
)

const maxBodyBytes = 8 << 20

// Invalidator drops anything derived from the channel list.
type Invalidator interface {
	Invalidate()
}

// LineupStore is the part of store.Boundary the JSON endpoints use.
type LineupStore interface {
	ChannelSource
	SaveChannels(ctx context.Context, list []channels.Channel) error
	LoadTree(ctx context.Context) (channels.Tree, error)
	SetTree(ctx context.Context, tree channels.Tree) error
	SaveSelection(ctx context.Context, sel channels.Selection) error
	LoadSettings(ctx context.Context) (settings.Settings, error)
	SaveSettings(ctx context.Context, s settings.Settings) error
}

func writeJSON(w http.ResponseWriter, l logger.Logger, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		l.Errorf("Error encoding response: %v", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func readJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return apperr.NewValidation("body", "malformed JSON: "+err.Error())
	}
	return nil
}

// writeError maps validation failures to 400 and everything else to 500.
func writeError(w http.ResponseWriter, l logger.Logger, msg string, err error) {
	var v *apperr.ValidationError
	if errors.As(err, &v) {
		http.Error(w, v.Reason, http.StatusBadRequest)
		return
	}
	l.Errorf("%s: %v", msg, err)
	http.Error(w, msg, http.StatusInternalServerError)
}

func methodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
