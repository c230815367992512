package report

import (
	"testing"
	"time"
)

func TestRecordAcknowledgmentTransitionsStatus(t *testing.T) {
	r := versioned(1)
	now := time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC)

	out := RecordAcknowledgment(r, Manager{ID: "m1", Name: "A. Lead", Designation: "Manager"}, "good work", now)
	if out.Status != StatusAcknowledged {
		t.Fatalf("expected acknowledged, got %q", out.Status)
	}
	if len(out.Acknowledgments) != 1 || out.Acknowledgments[0].ManagerID != "m1" {
		t.Fatalf("unexpected acknowledgments: %+v", out.Acknowledgments)
	}
	if out.ManagerComments != "good work" {
		t.Fatalf("expected comment recorded, got %q", out.ManagerComments)
	}
	if !out.UpdatedAt.Equal(now) {
		t.Fatalf("expected UpdatedAt %v, got %v", now, out.UpdatedAt)
	}
	if r.Status != StatusPending || len(r.Acknowledgments) != 0 {
		t.Fatalf("input report mutated: %+v", r)
	}
}

func TestRecordAcknowledgmentIdempotentPerManager(t *testing.T) {
	r := versioned(1)
	now := time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC)
	m := Manager{ID: "m1", Name: "A. Lead"}

	out := RecordAcknowledgment(r, m, "first", now)
	again := RecordAcknowledgment(out, m, "second", now.Add(time.Hour))
	if len(again.Acknowledgments) != 1 {
		t.Fatalf("repeat ack duplicated entry: %d", len(again.Acknowledgments))
	}
	if again.ManagerComments != "first" {
		t.Fatalf("repeat ack changed comment: %q", again.ManagerComments)
	}
}

func TestRecordAcknowledgmentMultipleManagers(t *testing.T) {
	r := versioned(1)
	now := time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC)

	out := RecordAcknowledgment(r, Manager{ID: "m1", Name: "First"}, "looks fine", now)
	out = RecordAcknowledgment(out, Manager{ID: "m2", Name: "Second"}, "ship it", now.Add(time.Minute))

	if out.Status != StatusAcknowledged {
		t.Fatalf("expected acknowledged, got %q", out.Status)
	}
	got := AcknowledgingManagers(out)
	if len(got) != 2 || got[0].ManagerID != "m1" || got[1].ManagerID != "m2" {
		t.Fatalf("unexpected manager order: %+v", got)
	}
	// The overall comment is shared state: the later manager overwrites it.
	if out.ManagerComments != "ship it" {
		t.Fatalf("expected last comment to win, got %q", out.ManagerComments)
	}
}

func TestRecordAcknowledgmentBlankCommentKeepsExisting(t *testing.T) {
	r := versioned(1)
	r.ManagerComments = "existing"
	now := time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC)

	out := RecordAcknowledgment(r, Manager{ID: "m1"}, "   ", now)
	if out.ManagerComments != "existing" {
		t.Fatalf("blank comment overwrote existing: %q", out.ManagerComments)
	}
}

func TestAcknowledgedStatusIsMonotonic(t *testing.T) {
	r := versioned(1)
	r.Status = StatusAcknowledged
	now := time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC)

	out := RecordAcknowledgment(r, Manager{ID: "m3"}, "", now)
	if out.Status != StatusAcknowledged {
		t.Fatalf("status regressed to %q", out.Status)
	}
}

func TestHasAcknowledged(t *testing.T) {
	r := versioned(1)
	r.Acknowledgments = []Acknowledgment{{ManagerID: "m1"}}
	if !HasAcknowledged(r, "m1") {
		t.Fatal("expected m1 acknowledged")
	}
	if HasAcknowledged(r, "m2") {
		t.Fatal("did not expect m2 acknowledged")
	}
}
