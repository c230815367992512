package stream

import (
	"context"
	"testing"
	"time"
)

func TestPublishReachesSubscribers(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := s.Subscribe(ctx, "")
	s.Publish(ActivityEvent{Type: EventReportSubmitted, TenantID: "t1", ReportID: "r1"})

	select {
	case evt := <-ch:
		if evt.Type != EventReportSubmitted || evt.ReportID != "r1" {
			t.Fatalf("unexpected event: %+v", evt)
		}
		if evt.Timestamp.IsZero() {
			t.Fatal("expected timestamp to be set")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestSubscribeFiltersByTenant(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mine := s.Subscribe(ctx, "t1")
	s.Publish(ActivityEvent{Type: EventReportEdited, TenantID: "t2", ReportID: "other"})
	s.Publish(ActivityEvent{Type: EventReportEdited, TenantID: "t1", ReportID: "mine"})

	select {
	case evt := <-mine:
		if evt.ReportID != "mine" {
			t.Fatalf("received foreign tenant event: %+v", evt)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
	select {
	case evt := <-mine:
		t.Fatalf("unexpected second event: %+v", evt)
	default:
	}
}

func TestSubscribeClosesOnContextEnd(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	ch := s.Subscribe(ctx, "")
	cancel()

	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("expected channel to be closed")
		}
	case <-time.After(time.Second):
		t.Fatal("channel not closed after context cancel")
	}
}

func TestPublishDropsWhenSubscriberSlow(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := s.Subscribe(ctx, "")
	// Overflow the buffer; Publish must not block.
	for i := 0; i < 64; i++ {
		s.Publish(ActivityEvent{Type: EventReportSubmitted, TenantID: "t1"})
	}
	if got := len(ch); got != cap(ch) {
		t.Fatalf("expected full buffer of %d, got %d", cap(ch), got)
	}
}
