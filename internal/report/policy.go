package report

import (
	"context"
	"time"
)

// EditPolicy is the lock-condition collaborator: it alone decides whether
// a report may still accept edits. The controller consults it before every
// SubmitEdit and otherwise knows nothing about submission windows.
type EditPolicy interface {
	CanEdit(ctx context.Context, r EODReport) bool
}

// EditPolicyFunc adapts a function to the EditPolicy interface.
type EditPolicyFunc func(ctx context.Context, r EODReport) bool

func (f EditPolicyFunc) CanEdit(ctx context.Context, r EODReport) bool { return f(ctx, r) }

// CutoffPolicy allows edits until the end of the report's calendar day
// (UTC) plus a grace period.
type CutoffPolicy struct {
	Grace time.Duration
	Now   func() time.Time // defaults to time.Now
}

func (p CutoffPolicy) CanEdit(_ context.Context, r EODReport) bool {
	day, err := time.Parse(dateLayout, r.Date)
	if err != nil {
		return false
	}
	now := time.Now().UTC()
	if p.Now != nil {
		now = p.Now().UTC()
	}
	cutoff := day.Add(24*time.Hour + p.Grace)
	return now.Before(cutoff)
}
