package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"local_portal/internal/domain"
	"local_portal/internal/service"
)

const keepAliveInterval = 25 * time.Second

func (h *handler) streamArticles(w http.ResponseWriter, r *http.Request) {
	opts, err := articleOptions(r, h.maxLimit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	feed, err := h.realtime.WatchArticles(r.Context(), opts)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	serveFeed(h, w, r, "articles", feed, func(items []domain.Article) any {
		return sanitizeArticles(h.policy, items)
	})
}

func (h *handler) streamClassifieds(w http.ResponseWriter, r *http.Request) {
	opts, err := classifiedOptions(r, h.maxLimit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	feed, err := h.realtime.WatchClassifieds(r.Context(), opts)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	serveFeed(h, w, r, "classifieds", feed, func(items []domain.Classified) any {
		return items
	})
}

// serveFeed writes every result set of feed as a "snapshot" event until the
// client goes away or the feed ends. A feed that ends with an error sends a
// final "error" event.
func serveFeed[T any](h *handler, w http.ResponseWriter, r *http.Request, collection string, feed *service.Feed[T], render func([]T) any) {
	defer feed.Close()

	rc := http.NewResponseController(w)
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		h.logger.Warn("streaming unsupported", "error", err)
		return
	}

	h.metrics.StreamOpened(collection)
	defer h.metrics.StreamClosed(collection)

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-keepAlive.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}
		case items, ok := <-feed.Updates():
			if !ok {
				if err := feed.Err(); err != nil {
					h.logger.Warn("stream ended", "collection", collection, "error", err)
					writeEvent(w, "error", classify(err).body)
					rc.Flush()
				}
				return
			}
			if err := writeEvent(w, "snapshot", render(items)); err != nil {
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}
		}
	}
}

func writeEvent(w http.ResponseWriter, event string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	return err
}
