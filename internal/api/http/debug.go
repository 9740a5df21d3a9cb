package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dtroode/storefront-server/internal/service"
)

// streamKeepAlive is how often an idle debug stream sends a comment line.
const streamKeepAlive = 25 * time.Second

func (h *Handler) GetDebug(w http.ResponseWriter, r *http.Request) {
	tab, _, err := h.tab(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	snap, err := tab.Debug.Snapshot(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// RefreshDebug returns a new snapshot and pushes it to open streams.
func (h *Handler) RefreshDebug(w http.ResponseWriter, r *http.Request) {
	tab, _, err := h.tab(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	snap, err := tab.Debug.Refresh(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// ResetDebug wipes the cookies, tab storage and event log of the tab.
func (h *Handler) ResetDebug(w http.ResponseWriter, r *http.Request) {
	tab, _, err := h.tab(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := tab.Debug.Reset(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// StreamDebug sends the debug snapshot as server-sent events: once on
// connect and again after every change to the tab.
func (h *Handler) StreamDebug(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)

	tab, _, err := h.tab(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	first, err := tab.Debug.Snapshot(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	updates, cancel := h.storefront.Hub().Subscribe(tab.ID)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if err := writeEvent(w, rc, first); err != nil {
		return
	}

	ticker := time.NewTicker(streamKeepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-h.closed:
			return
		case snap, ok := <-updates:
			if !ok {
				return
			}
			if err := writeEvent(w, rc, snap); err != nil {
				h.logger.Debug("debug stream closed", "tab_id", tab.ID, "error", err.Error())
				return
			}
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}
		}
	}
}

func writeEvent(w http.ResponseWriter, rc *http.ResponseController, snap service.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if _, err := fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", data); err != nil {
		return err
	}
	return rc.Flush()
}
