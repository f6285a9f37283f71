package httpapi

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"local_portal/internal/domain"
)

type sseEvent struct {
	name string
	data string
}

// readEvents parses server-sent events from body until it closes.
func readEvents(body *bufio.Reader, out chan<- sseEvent) {
	defer close(out)
	var ev sseEvent
	for {
		line, err := body.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimRight(line, "\n")
		switch {
		case strings.HasPrefix(line, "event: "):
			ev.name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			ev.data = strings.TrimPrefix(line, "data: ")
		case line == "" && ev.name != "":
			out <- ev
			ev = sseEvent{}
		}
	}
}

func (s *RouterTestSuite) nextEvent(events <-chan sseEvent) sseEvent {
	select {
	case ev, ok := <-events:
		s.Require().True(ok, "stream closed")
		return ev
	case <-time.After(3 * time.Second):
		s.FailNow("timed out waiting for event")
	}
	return sseEvent{}
}

func (s *RouterTestSuite) TestStreamArticles_SnapshotsFollowWrites() {
	s.publish("Pierwszy", "pierwszy", "")
	srv := httptest.NewServer(s.router())
	defer srv.Close()

	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/articles/stream", nil)
	s.Require().NoError(err)
	resp, err := srv.Client().Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("text/event-stream", resp.Header.Get("Content-Type"))

	events := make(chan sseEvent, 8)
	go readEvents(bufio.NewReader(resp.Body), events)

	ev := s.nextEvent(events)
	s.Equal("snapshot", ev.name)
	var items []domain.Article
	s.Require().NoError(json.Unmarshal([]byte(ev.data), &items))
	s.Require().Len(items, 1)

	s.publish("Drugi", "drugi", "<script>x</script>tekst")

	for {
		ev = s.nextEvent(events)
		s.Require().NoError(json.Unmarshal([]byte(ev.data), &items))
		if len(items) == 2 {
			break
		}
	}
	for _, a := range items {
		s.NotContains(a.Content, "<script>")
	}

	s.metrics.mu.Lock()
	s.Equal(1, s.metrics.streams["articles"])
	s.metrics.mu.Unlock()
}

func (s *RouterTestSuite) TestStreamClassifieds_InvalidFilter() {
	rec := s.do(s.router(), http.MethodGet, "/api/classifieds/stream?priceMax=dużo", nil)
	s.Equal(http.StatusBadRequest, rec.Code)
}
