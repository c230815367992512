package stream

import (
	"context"
	"sync"
	"time"
)

// Event types published on the activity stream.
const (
	EventReportSubmitted    = "report.submitted"
	EventReportEdited       = "report.edited"
	EventReportAcknowledged = "report.acknowledged"
	EventReportCommented    = "report.commented"
)

// ActivityEvent describes one report lifecycle change for live dashboards.
type ActivityEvent struct {
	Type       string    `json:"type"`
	TenantID   string    `json:"tenant_id"`
	ReportID   string    `json:"report_id"`
	EmployeeID string    `json:"employee_id"`
	ActorID    string    `json:"actor_id"`
	Date       string    `json:"date"`
	Version    int       `json:"version,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

type subscriber struct {
	ch       chan ActivityEvent
	tenantID string
}

// Stream fan-outs activity events to all active subscribers (SSE clients).
type Stream struct {
	mu   sync.RWMutex
	subs map[int]subscriber
	next int
}

// New initialises an empty stream.
func New() *Stream {
	return &Stream{subs: make(map[int]subscriber)}
}

// Subscribe registers a subscriber and returns a channel which will receive
// events. An empty tenantID receives every tenant's events; otherwise only
// that tenant's. The channel is closed when the provided context ends.
func (s *Stream) Subscribe(ctx context.Context, tenantID string) <-chan ActivityEvent {
	ch := make(chan ActivityEvent, 16)

	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = subscriber{ch: ch, tenantID: tenantID}
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.subs, id)
		close(ch)
		s.mu.Unlock()
	}()

	return ch
}

// Publish fan-outs the event to all matching subscribers.
func (s *Stream) Publish(evt ActivityEvent) {
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sub := range s.subs {
		if sub.tenantID != "" && sub.tenantID != evt.TenantID {
			continue
		}
		select {
		case sub.ch <- evt:
		default:
			// Drop when subscriber is slow to avoid blocking.
		}
	}
}
