package report

import (
	"errors"
	"testing"
	"time"
)

func versioned(nums ...int) EODReport {
	r := EODReport{
		ID:         "r1",
		TenantID:   "t1",
		EmployeeID: "e1",
		Date:       "2026-03-02",
		Status:     StatusPending,
	}
	for _, n := range nums {
		r.Versions = append(r.Versions, ReportVersion{
			Number:         n,
			Timestamp:      time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC),
			Action:         ActionSubmitted,
			TasksCompleted: "work",
		})
	}
	return r
}

func TestAppendVersionAssignsNextNumber(t *testing.T) {
	r := versioned(1, 2, 3)
	out, err := AppendVersion(r, ReportVersion{Action: ActionEdited, TasksCompleted: "more"})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if got := out.Versions[len(out.Versions)-1].Number; got != 4 {
		t.Fatalf("expected version 4, got %d", got)
	}
	if len(r.Versions) != 3 {
		t.Fatalf("input report mutated, %d versions", len(r.Versions))
	}
}

func TestAppendVersionIgnoresArrayOrder(t *testing.T) {
	r := versioned(3, 1, 2)
	out, err := AppendVersion(r, ReportVersion{Action: ActionEdited, TasksCompleted: "more"})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if got := out.Versions[len(out.Versions)-1].Number; got != 4 {
		t.Fatalf("expected version 4, got %d", got)
	}
}

func TestAppendVersionRejectsCollision(t *testing.T) {
	r := versioned(1, 2)
	if _, err := AppendVersion(r, ReportVersion{Number: 2, Action: ActionEdited, TasksCompleted: "x"}); !errors.Is(err, ErrInvalidVersion) {
		t.Fatalf("expected ErrInvalidVersion, got %v", err)
	}
	if _, err := AppendVersion(r, ReportVersion{Number: -1, Action: ActionEdited, TasksCompleted: "x"}); !errors.Is(err, ErrInvalidVersion) {
		t.Fatalf("expected ErrInvalidVersion for negative number, got %v", err)
	}
}

func TestAppendVersionAcceptsExplicitNumber(t *testing.T) {
	r := versioned(1, 2)
	out, err := AppendVersion(r, ReportVersion{Number: 7, Action: ActionEdited, TasksCompleted: "x"})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if got := LatestVersionNumber(out); got != 7 {
		t.Fatalf("expected latest 7, got %d", got)
	}
}

func TestLatestVersionScansForMax(t *testing.T) {
	r := versioned(3, 1, 2)
	v, err := LatestVersion(r)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if v.Number != 3 {
		t.Fatalf("expected version 3, got %d", v.Number)
	}
}

func TestLatestVersionEmptyReport(t *testing.T) {
	if _, err := LatestVersion(EODReport{}); !errors.Is(err, ErrEmptyReport) {
		t.Fatalf("expected ErrEmptyReport, got %v", err)
	}
	if got := LatestVersionNumber(EODReport{}); got != 0 {
		t.Fatalf("expected 0 for empty report, got %d", got)
	}
}
