package report

import (
	"strings"
	"time"
)

// RecordAcknowledgment applies one supervisor's sign-off and returns the
// updated copy. A manager acknowledges at most once: a repeat call from
// the same manager ID returns the report unchanged, so two supervisors
// (say a line manager and a director) can sign off independently without
// either action overwriting the other's.
//
// A non-empty comment overwrites ManagerComments; the field is the
// latest overall comment, not a log. Status moves from Pending to
// Acknowledged on the first valid acknowledgment and never back.
func RecordAcknowledgment(r EODReport, m Manager, comment string, now time.Time) EODReport {
	if HasAcknowledged(r, m.ID) {
		return r
	}
	out := r.Clone()
	out.Acknowledgments = append(out.Acknowledgments, Acknowledgment{
		ManagerID:   m.ID,
		ManagerName: m.Name,
		Designation: m.Designation,
		Timestamp:   now,
	})
	if comment = strings.TrimSpace(comment); comment != "" {
		out.ManagerComments = comment
	}
	if out.Status == StatusPending || out.Status == "" {
		out.Status = StatusAcknowledged
	}
	out.UpdatedAt = now
	return out
}

// HasAcknowledged reports whether the manager has already signed off.
func HasAcknowledged(r EODReport, managerID string) bool {
	for _, a := range r.Acknowledgments {
		if a.ManagerID == managerID {
			return true
		}
	}
	return false
}

// AcknowledgingManagers returns the sign-offs in the order they were
// recorded. The presentation layer uses this to decide whether to offer
// an "Acknowledge" action to a given supervisor.
func AcknowledgingManagers(r EODReport) []Acknowledgment {
	if len(r.Acknowledgments) == 0 {
		return nil
	}
	out := make([]Acknowledgment, len(r.Acknowledgments))
	copy(out, r.Acknowledgments)
	return out
}
