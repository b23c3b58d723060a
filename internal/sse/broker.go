// Package sse streams content change notifications to site pages over
// Server-Sent Events.
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/starford/mocinformacji/internal/storage"
)

// Content change kinds accepted by PublishContentEvent.
const (
	KindCreated = "created"
	KindUpdated = "updated"
	KindDeleted = "deleted"
)

// EventCatalogUpdated tells listing pages that the set of articles changed.
// It is sent at most once per throttle interval; changes inside the interval
// are folded into one event at its end.
const EventCatalogUpdated = "catalog.updated"

// retryMillis is the reconnect delay suggested to browsers.
const retryMillis = 3000

// Event represents an SSE event to broadcast.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// ContentChange is the payload of content.* events.
type ContentChange struct {
	Path     string `json:"path"`
	Category string `json:"category,omitempty"`
	Slug     string `json:"slug,omitempty"`
}

// Topic selects the changes a subscriber receives. The zero Topic receives
// every content event plus catalog updates; a category topic receives the
// changes of that category; an article topic receives the changes of that
// one article. Matching ignores case, as URLs do.
type Topic struct {
	Category string
	Slug     string
}

// TopicFromQuery reads a topic from ?category= and ?slug=. A slug without a
// category is ignored.
func TopicFromQuery(q url.Values) Topic {
	t := Topic{Category: strings.TrimSpace(q.Get("category"))}
	if t.Category != "" {
		t.Slug = strings.TrimSpace(q.Get("slug"))
	}
	return t
}

func (t Topic) matches(c ContentChange) bool {
	if t.Category == "" {
		return true
	}
	if !strings.EqualFold(t.Category, c.Category) {
		return false
	}
	return t.Slug == "" || strings.EqualFold(t.Slug, c.Slug)
}

func (t Topic) wantsCatalog() bool {
	return t.Category == ""
}

// Subscription is one client stream. C is closed when the subscription ends.
type Subscription struct {
	C     <-chan []byte
	ch    chan []byte
	topic Topic
}

// hub is the state owned by the broker loop.
type hub struct {
	subs        map[*Subscription]struct{}
	lastCatalog time.Time
	// folded counts catalog changes swallowed by the throttle since the
	// last catalog event.
	folded int
}

// Broker fans content changes out to subscribers.
//
// A single loop goroutine owns the hub; every public method sends it a
// closure to run.
type Broker struct {
	catalogEvery time.Duration

	ops     chan func(*hub)
	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

// NewBroker creates a broker whose catalog.updated events are at least
// catalogThrottle apart.
func NewBroker(catalogThrottle time.Duration) *Broker {
	if catalogThrottle <= 0 {
		catalogThrottle = 2 * time.Second
	}
	b := &Broker{
		catalogEvery: catalogThrottle,
		ops:          make(chan func(*hub), 256),
		stopCh:       make(chan struct{}),
		stopped:      make(chan struct{}),
	}
	go b.run()
	return b
}

// format renders one event in the text/event-stream wire format.
func format(event Event) ([]byte, error) {
	payload, err := json.Marshal(event.Data)
	if err != nil {
		return nil, err
	}
	return fmt.Appendf(nil, "id: %s\nevent: %s\ndata: %s\n\n", uuid.NewString(), event.Type, payload), nil
}

func (b *Broker) run() {
	defer close(b.stopped)

	h := &hub{subs: make(map[*Subscription]struct{})}
	catalogTimer := time.NewTimer(time.Hour)
	catalogTimer.Stop()
	defer catalogTimer.Stop()
	timerArmed := false

	for {
		select {
		case <-b.stopCh:
			for s := range h.subs {
				close(s.ch)
			}
			return

		case op := <-b.ops:
			op(h)
			if h.folded > 0 && !timerArmed {
				wait := b.catalogEvery - time.Since(h.lastCatalog)
				if wait <= 0 {
					wait = time.Millisecond
				}
				catalogTimer.Reset(wait)
				timerArmed = true
			}

		case <-catalogTimer.C:
			timerArmed = false
			if h.folded > 0 {
				b.sendCatalog(h)
			}
		}
	}
}

func (b *Broker) sendCatalog(h *hub) {
	h.folded = 0
	h.lastCatalog = time.Now()
	h.deliver(Event{Type: EventCatalogUpdated, Data: map[string]string{}}, func(s *Subscription) bool {
		return s.topic.wantsCatalog()
	})
}

func (h *hub) deliver(event Event, want func(*Subscription) bool) {
	raw, err := format(event)
	if err != nil {
		return
	}
	for s := range h.subs {
		if want != nil && !want(s) {
			continue
		}
		select {
		case s.ch <- raw:
		default:
			// Slow client; drop rather than stall the loop.
		}
	}
}

// do hands op to the loop. It reports false once the broker is closed.
func (b *Broker) do(op func(*hub)) bool {
	if b.closed.Load() {
		return false
	}
	select {
	case b.ops <- op:
		return true
	case <-b.stopped:
		return false
	}
}

// Close stops the loop and closes every subscription.
func (b *Broker) Close() {
	if b.closed.CompareAndSwap(false, true) {
		close(b.stopCh)
	}
	<-b.stopped
}

// Subscribe registers a client for topic.
func (b *Broker) Subscribe(topic Topic) *Subscription {
	ch := make(chan []byte, 64)
	s := &Subscription{C: ch, ch: ch, topic: topic}
	if !b.do(func(h *hub) { h.subs[s] = struct{}{} }) {
		close(ch)
	}
	return s
}

// Unsubscribe removes a client and closes its channel.
func (b *Broker) Unsubscribe(s *Subscription) {
	b.do(func(h *hub) {
		if _, ok := h.subs[s]; ok {
			delete(h.subs, s)
			close(s.ch)
		}
	})
}

// ClientCount returns the number of connected clients.
func (b *Broker) ClientCount() int {
	resp := make(chan int, 1)
	if !b.do(func(h *hub) { resp <- len(h.subs) }) {
		return 0
	}
	select {
	case n := <-resp:
		return n
	case <-b.stopped:
		return 0
	}
}

// Publish sends an event to every client regardless of topic.
func (b *Broker) Publish(event Event) {
	b.do(func(h *hub) { h.deliver(event, nil) })
}

// PublishContentEvent sends content.{kind} for the record at path to the
// clients whose topic covers it, followed by a throttled catalog.updated.
// Unknown kinds are ignored.
func (b *Broker) PublishContentEvent(kind, path string) {
	switch kind {
	case KindCreated, KindUpdated, KindDeleted:
	default:
		return
	}
	change := ContentChange{Path: path}
	if category, slug, ok := storage.SplitEntry(path); ok {
		change.Category, change.Slug = category, slug
	}
	b.do(func(h *hub) {
		h.deliver(Event{Type: "content." + kind, Data: change}, func(s *Subscription) bool {
			return s.topic.matches(change)
		})
		if time.Since(h.lastCatalog) >= b.catalogEvery {
			b.sendCatalog(h)
			return
		}
		h.folded++
	})
}

// ServeHTTP is the SSE endpoint handler (GET /api/events). The stream is
// scoped by ?category= and ?slug=.
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "retry: %d\n\n", retryMillis)
	flusher.Flush()

	sub := b.Subscribe(TopicFromQuery(r.URL.Query()))
	defer b.Unsubscribe(sub)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-b.stopped:
			return
		case msg, ok := <-sub.C:
			if !ok {
				return
			}
			_, _ = w.Write(msg)
			flusher.Flush()
		}
	}
}
