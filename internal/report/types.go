package report

import (
	"errors"
	"time"
)

// Status of an end-of-day report. Transitions are monotonic: once a report
// is acknowledged it never returns to pending.
type Status string

const (
	StatusPending      Status = "pending"
	StatusAcknowledged Status = "acknowledged"
)

// VersionAction records how a version came to exist.
type VersionAction string

const (
	ActionSubmitted VersionAction = "submitted"
	ActionEdited    VersionAction = "edited"
)

// Attachment is an ordered reference to an uploaded artifact. Storage of
// the bytes themselves is the file service's concern.
type Attachment struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ReportVersion is one immutable snapshot of a report's content. Edits
// append new versions; existing versions are never rewritten.
type ReportVersion struct {
	Number          int           `json:"version_number"`
	Timestamp       time.Time     `json:"timestamp"`
	Action          VersionAction `json:"action"`
	TasksCompleted  string        `json:"tasks_completed"`
	ChallengesFaced string        `json:"challenges_faced"`
	PlanForTomorrow string        `json:"plan_for_tomorrow"`
	Attachments     []Attachment  `json:"attachments,omitempty"`
	Copied          bool          `json:"is_copied"`
}

// Acknowledgment is one supervisor's recorded sign-off. Name and
// designation are snapshots taken at acknowledgment time so later profile
// changes don't rewrite history.
type Acknowledgment struct {
	ManagerID   string    `json:"manager_id"`
	ManagerName string    `json:"manager_name"`
	Designation string    `json:"designation"`
	Timestamp   time.Time `json:"timestamp"`
}

// Manager identifies the supervisor performing an acknowledgment.
type Manager struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Designation string `json:"designation"`
}

// EODReport is one employee's report for one calendar day.
//
// Invariants: Versions is never empty for a well-formed report (defended
// against anyway, since records come from external persistence); the
// latest version is the one with the highest number, not necessarily the
// last element; ManagerComments holds the latest overall comment, not a
// per-manager log. Acknowledgments are per-manager, comments are not.
type EODReport struct {
	ID              string           `json:"id"`
	TenantID        string           `json:"tenant_id"`
	EmployeeID      string           `json:"employee_id"`
	Date            string           `json:"date"` // YYYY-MM-DD
	Status          Status           `json:"status"`
	// Revision advances on every persisted write, including ones that
	// leave the version ledger untouched (acknowledgments, comments).
	// It is the store's compare-and-swap token.
	Revision        int              `json:"revision"`
	Versions        []ReportVersion  `json:"versions"`
	ManagerComments string           `json:"manager_comments,omitempty"`
	Acknowledgments []Acknowledgment `json:"acknowledgments,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// VersionDraft is the employee-supplied content for a new version. The
// ledger assigns the version number.
type VersionDraft struct {
	TasksCompleted  string       `json:"tasks_completed"`
	ChallengesFaced string       `json:"challenges_faced"`
	PlanForTomorrow string       `json:"plan_for_tomorrow"`
	Attachments     []Attachment `json:"attachments,omitempty"`
	Copied          bool         `json:"is_copied"`
}

var (
	ErrNotFound         = errors.New("report not found")
	ErrAlreadyExists    = errors.New("report already exists for employee and date")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidVersion   = errors.New("invalid version number")
	ErrEmptyReport      = errors.New("report has no versions")
	ErrReportLocked     = errors.New("report is locked for editing")
	ErrVersionConflict  = errors.New("concurrent version write detected")
	ErrPermissionDenied = errors.New("permission denied")
)

const dateLayout = "2006-01-02"

// ValidDate reports whether s is a well-formed calendar day.
func ValidDate(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}

// Clone returns a deep copy so callers can hand reports across goroutines
// without sharing backing arrays.
func (r EODReport) Clone() EODReport {
	out := r
	if r.Versions != nil {
		out.Versions = make([]ReportVersion, len(r.Versions))
		copy(out.Versions, r.Versions)
		for i, v := range r.Versions {
			if v.Attachments != nil {
				out.Versions[i].Attachments = make([]Attachment, len(v.Attachments))
				copy(out.Versions[i].Attachments, v.Attachments)
			}
		}
	}
	if r.Acknowledgments != nil {
		out.Acknowledgments = make([]Acknowledgment, len(r.Acknowledgments))
		copy(out.Acknowledgments, r.Acknowledgments)
	}
	return out
}
