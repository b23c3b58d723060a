package sse

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestSubscribeUnsubscribe(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients")
	}
	sub := b.Subscribe(Topic{})
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client")
	}
	b.Unsubscribe(sub)
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients after unsub")
	}
}

func TestPublishDelivery(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()
	sub := b.Subscribe(Topic{})
	defer b.Unsubscribe(sub)

	b.Publish(Event{Type: "content.created", Data: map[string]string{"path": "finanse/kredyt.json"}})

	select {
	case msg := <-sub.C:
		s := string(msg)
		if !strings.HasPrefix(s, "id: ") {
			t.Errorf("missing event id in %q", s)
		}
		if !strings.Contains(s, "\nevent: content.created\n") {
			t.Errorf("missing event type in %q", s)
		}
		if !strings.Contains(s, `"path":"finanse/kredyt.json"`) {
			t.Errorf("missing data in %q", s)
		}
		if !strings.HasSuffix(s, "\n\n") {
			t.Errorf("event not terminated: %q", s)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message")
	}
}

func drain(ch <-chan []byte) []string {
	var out []string
	for {
		select {
		case msg := <-ch:
			out = append(out, string(msg))
		default:
			return out
		}
	}
}

func TestPublishContentEvent_CatalogThrottle(t *testing.T) {
	b := NewBroker(500 * time.Millisecond)
	defer b.Close()
	sub := b.Subscribe(Topic{})
	defer b.Unsubscribe(sub)

	b.PublishContentEvent(KindCreated, "finanse/kredyt.json")
	b.PublishContentEvent(KindUpdated, "prawo/najem.json")

	time.Sleep(50 * time.Millisecond)
	catalogCount, contentCount := 0, 0
	for _, s := range drain(sub.C) {
		if strings.Contains(s, "event: "+EventCatalogUpdated) {
			catalogCount++
		} else {
			contentCount++
		}
	}
	if contentCount != 2 {
		t.Errorf("content events = %d, want 2", contentCount)
	}
	if catalogCount != 1 {
		t.Errorf("catalog events = %d, want 1 (throttled)", catalogCount)
	}
}

func TestPublishContentEvent_Payload(t *testing.T) {
	b := NewBroker(time.Hour)
	defer b.Close()
	sub := b.Subscribe(Topic{})
	defer b.Unsubscribe(sub)

	b.PublishContentEvent(KindDeleted, "prawo/najem.json")
	b.PublishContentEvent("renamed", "prawo/najem.json")

	time.Sleep(50 * time.Millisecond)
	msgs := drain(sub.C)
	if len(msgs) != 2 {
		t.Fatalf("messages = %d, want 2 (unknown kind ignored)", len(msgs))
	}
	if !strings.Contains(msgs[0], "event: content.deleted") ||
		!strings.Contains(msgs[0], `"category":"prawo"`) ||
		!strings.Contains(msgs[0], `"slug":"najem"`) {
		t.Errorf("payload = %q", msgs[0])
	}
}

func TestEventIDsAreUnique(t *testing.T) {
	b := NewBroker(time.Hour)
	defer b.Close()
	sub := b.Subscribe(Topic{})
	defer b.Unsubscribe(sub)

	b.Publish(Event{Type: "a", Data: 1})
	b.Publish(Event{Type: "b", Data: 2})
	time.Sleep(50 * time.Millisecond)

	seen := make(map[string]bool)
	for _, s := range drain(sub.C) {
		id, _, _ := strings.Cut(s, "\n")
		if seen[id] {
			t.Errorf("duplicate %s", id)
		}
		seen[id] = true
	}
	if len(seen) != 2 {
		t.Errorf("ids = %d", len(seen))
	}
}

// syncRecorder guards the body so the test can read it while ServeHTTP writes.
type syncRecorder struct {
	*httptest.ResponseRecorder
	mu sync.Mutex
}

func (s *syncRecorder) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ResponseRecorder.Write(p)
}

func (s *syncRecorder) body() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ResponseRecorder.Body.String()
}

func TestSSEHandler(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/api/events?category=finanse", nil).WithContext(ctx)
	w := &syncRecorder{ResponseRecorder: httptest.NewRecorder()}

	done := make(chan struct{})
	go func() {
		b.ServeHTTP(w, req)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client from handler")
	}

	b.PublishContentEvent(KindUpdated, "finanse/lokata.json")
	b.PublishContentEvent(KindUpdated, "prawo/najem.json")
	time.Sleep(50 * time.Millisecond)

	cancel()
	<-done

	body := w.body()
	if !strings.HasPrefix(body, "retry: 3000\n\n") {
		t.Errorf("handler output missing retry hint: %q", body)
	}
	if !strings.Contains(body, `"path":"finanse/lokata.json"`) {
		t.Errorf("handler output missing event: %q", body)
	}
	if strings.Contains(body, "prawo/najem") || strings.Contains(body, EventCatalogUpdated) {
		t.Errorf("category stream leaked other events: %q", body)
	}
	if w.Header().Get("Content-Type") != "text/event-stream" {
		t.Errorf("content type = %q", w.Header().Get("Content-Type"))
	}

	time.Sleep(50 * time.Millisecond)
	if b.ClientCount() != 0 {
		t.Errorf("client not cleaned up after disconnect")
	}
}

func TestPublishDropsOnFullBuffer(t *testing.T) {
	b := NewBroker(time.Second)
	defer b.Close()
	sub := b.Subscribe(Topic{})
	defer b.Unsubscribe(sub)

	// Buffer holds 64; the rest must be dropped without blocking.
	for i := 0; i < 70; i++ {
		b.Publish(Event{Type: "test", Data: map[string]string{"i": "x"}})
	}
}

func TestCloseClosesSubscribersAndStopsOperations(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	sub := b.Subscribe(Topic{})
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client")
	}

	b.Close()

	select {
	case _, ok := <-sub.C:
		if ok {
			t.Fatal("expected subscriber channel to be closed")
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for channel close")
	}

	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients after close")
	}

	b.Publish(Event{Type: "content.updated", Data: map[string]string{"path": "x.json"}})
	b.PublishContentEvent(KindUpdated, "a/x.json")

	late := b.Subscribe(Topic{})
	if _, ok := <-late.C; ok {
		t.Fatal("subscription after close should be closed")
	}
}

func TestTopicFromQuery(t *testing.T) {
	cases := []struct {
		query string
		want  Topic
	}{
		{"", Topic{}},
		{"category=finanse", Topic{Category: "finanse"}},
		{"category=finanse&slug=kredyt", Topic{Category: "finanse", Slug: "kredyt"}},
		{"slug=kredyt", Topic{}},
		{"category=+prawo+", Topic{Category: "prawo"}},
	}
	for _, c := range cases {
		q, err := url.ParseQuery(c.query)
		if err != nil {
			t.Fatal(err)
		}
		if got := TopicFromQuery(q); got != c.want {
			t.Errorf("TopicFromQuery(%q) = %+v, want %+v", c.query, got, c.want)
		}
	}
}

func TestPublishContentEvent_TopicFilter(t *testing.T) {
	b := NewBroker(time.Hour)
	defer b.Close()
	all := b.Subscribe(Topic{})
	defer b.Unsubscribe(all)
	finanse := b.Subscribe(Topic{Category: "Finanse"})
	defer b.Unsubscribe(finanse)
	kredyt := b.Subscribe(Topic{Category: "finanse", Slug: "kredyt"})
	defer b.Unsubscribe(kredyt)

	b.PublishContentEvent(KindUpdated, "finanse/kredyt.json")
	b.PublishContentEvent(KindUpdated, "finanse/lokata.json")
	b.PublishContentEvent(KindDeleted, "prawo/najem.json")
	time.Sleep(50 * time.Millisecond)

	count := func(msgs []string) (content, catalog int) {
		for _, m := range msgs {
			if strings.Contains(m, "event: "+EventCatalogUpdated) {
				catalog++
			} else {
				content++
			}
		}
		return content, catalog
	}

	if c, cat := count(drain(all.C)); c != 3 || cat != 1 {
		t.Errorf("unscoped: content=%d catalog=%d, want 3 and 1", c, cat)
	}
	if c, cat := count(drain(finanse.C)); c != 2 || cat != 0 {
		t.Errorf("category: content=%d catalog=%d, want 2 and 0", c, cat)
	}
	msgs := drain(kredyt.C)
	if len(msgs) != 1 || !strings.Contains(msgs[0], `"slug":"kredyt"`) {
		t.Errorf("article topic got %q", msgs)
	}
}

func TestPublishContentEvent_TrailingCatalog(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()
	sub := b.Subscribe(Topic{})
	defer b.Unsubscribe(sub)

	b.PublishContentEvent(KindCreated, "finanse/kredyt.json")
	b.PublishContentEvent(KindCreated, "finanse/lokata.json")
	b.PublishContentEvent(KindCreated, "prawo/najem.json")

	// The last two changes fall inside the interval and are folded into
	// one catalog event at its end.
	time.Sleep(300 * time.Millisecond)
	catalog := 0
	for _, s := range drain(sub.C) {
		if strings.Contains(s, "event: "+EventCatalogUpdated) {
			catalog++
		}
	}
	if catalog != 2 {
		t.Errorf("catalog events = %d, want 2 (leading and trailing)", catalog)
	}
}
