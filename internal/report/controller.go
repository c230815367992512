package report

import (
	"context"
	"errors"
	"strings"
	"time"

	"syncly.dev/internal/auth"
	"syncly.dev/internal/ids"
)

// ackRetryLimit bounds the acknowledgment reapply loop. With n
// concurrent acknowledgers each conflict is caused by another's single
// successful write, so n attempts always suffice for n <= limit.
const ackRetryLimit = 4

// Controller is the only component that mutates report state. It threads
// the authenticated actor from the context, re-checks the resolver on
// every mutating operation (defense in depth behind the presentation
// layer's own checks), consults the edit policy before appending
// versions, and leaves atomicity to the store's compare-and-swap.
type Controller struct {
	store  Store
	roles  auth.RoleSource
	policy EditPolicy
	now    func() time.Time
}

// Option configures the Controller.
type Option func(*Controller)

// WithClock overrides the time source. Test hook.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// NewController wires the controller to its collaborators. A nil policy
// means reports are always editable.
func NewController(store Store, roles auth.RoleSource, policy EditPolicy, opts ...Option) *Controller {
	c := &Controller{
		store:  store,
		roles:  roles,
		policy: policy,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// require resolves the actor from the context and checks the permission.
// The presentation layer is expected to have already called Resolve; this
// repeat check keeps a bypassed or buggy caller from mutating state.
func (c *Controller) require(ctx context.Context, perm auth.Permission) (auth.Actor, error) {
	actor, ok := auth.ActorFromContext(ctx)
	if !ok {
		return auth.Actor{}, ErrPermissionDenied
	}
	role := auth.FetchRole(ctx, c.roles, actor)
	if !auth.Resolve(actor, role, perm) {
		return auth.Actor{}, ErrPermissionDenied
	}
	return actor, nil
}

func canAccess(actor auth.Actor, r EODReport) bool {
	return actor.PlatformAdmin || actor.TenantID == r.TenantID
}

// Submit creates the report for (actor, date): version 1, action
// submitted, status pending. One report per employee per day.
func (c *Controller) Submit(ctx context.Context, date string, draft VersionDraft) (EODReport, error) {
	actor, err := c.require(ctx, auth.PermReportsSubmit)
	if err != nil {
		return EODReport{}, err
	}
	if !ValidDate(date) {
		return EODReport{}, ErrInvalidInput
	}
	if strings.TrimSpace(draft.TasksCompleted) == "" {
		return EODReport{}, ErrInvalidInput
	}

	now := c.now().UTC()
	r := EODReport{
		ID:         ids.New(),
		TenantID:   actor.TenantID,
		EmployeeID: actor.ID,
		Date:       date,
		Status:     StatusPending,
		Revision:   1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	r, err = AppendVersion(r, ReportVersion{
		Timestamp:       now,
		Action:          ActionSubmitted,
		TasksCompleted:  draft.TasksCompleted,
		ChallengesFaced: draft.ChallengesFaced,
		PlanForTomorrow: draft.PlanForTomorrow,
		Attachments:     draft.Attachments,
		Copied:          draft.Copied,
	})
	if err != nil {
		return EODReport{}, err
	}
	if err := c.store.Create(ctx, r); err != nil {
		return EODReport{}, err
	}
	return r, nil
}

// SubmitEdit appends an edited version to the actor's own report. Fails
// with ErrReportLocked once the edit policy closes the window; the
// version count is untouched in that case.
func (c *Controller) SubmitEdit(ctx context.Context, reportID string, draft VersionDraft) (EODReport, error) {
	actor, err := c.require(ctx, auth.PermReportsEdit)
	if err != nil {
		return EODReport{}, err
	}
	r, err := c.store.Get(ctx, reportID)
	if err != nil {
		return EODReport{}, err
	}
	if r.EmployeeID != actor.ID || !canAccess(actor, r) {
		return EODReport{}, ErrPermissionDenied
	}
	if strings.TrimSpace(draft.TasksCompleted) == "" {
		return EODReport{}, ErrInvalidInput
	}
	if c.policy != nil && !c.policy.CanEdit(ctx, r) {
		return EODReport{}, ErrReportLocked
	}

	now := c.now().UTC()
	updated, err := AppendVersion(r, ReportVersion{
		Timestamp:       now,
		Action:          ActionEdited,
		TasksCompleted:  draft.TasksCompleted,
		ChallengesFaced: draft.ChallengesFaced,
		PlanForTomorrow: draft.PlanForTomorrow,
		Attachments:     draft.Attachments,
		Copied:          draft.Copied,
	})
	if err != nil {
		return EODReport{}, err
	}
	updated.UpdatedAt = now
	updated.Revision = r.Revision + 1
	if err := c.store.Update(ctx, updated, r.Revision); err != nil {
		return EODReport{}, err
	}
	return updated, nil
}

// Acknowledge records the manager's sign-off. Idempotent per manager: a
// repeat acknowledgment returns the stored report unchanged without a
// write. Supervisors cannot acknowledge their own report.
func (c *Controller) Acknowledge(ctx context.Context, reportID string, m Manager, comment string) (EODReport, error) {
	actor, err := c.require(ctx, auth.PermReportsAcknowledge)
	if err != nil {
		return EODReport{}, err
	}
	m.ID = strings.TrimSpace(m.ID)
	if m.ID == "" {
		m.ID = actor.ID
	}
	if m.ID != actor.ID {
		return EODReport{}, ErrPermissionDenied
	}
	// Managers acknowledging from concurrent snapshots race on the
	// revision token. The loser re-reads and reapplies so both
	// sign-offs land; the operation is idempotent, so a retry never
	// double-records.
	for attempt := 0; attempt < ackRetryLimit; attempt++ {
		r, err := c.store.Get(ctx, reportID)
		if err != nil {
			return EODReport{}, err
		}
		if !canAccess(actor, r) {
			return EODReport{}, ErrPermissionDenied
		}
		if r.EmployeeID == m.ID {
			return EODReport{}, ErrPermissionDenied
		}
		if HasAcknowledged(r, m.ID) {
			return r, nil
		}

		updated := RecordAcknowledgment(r, m, comment, c.now().UTC())
		updated.Revision = r.Revision + 1
		err = c.store.Update(ctx, updated, r.Revision)
		if errors.Is(err, ErrVersionConflict) {
			continue
		}
		if err != nil {
			return EODReport{}, err
		}
		return updated, nil
	}
	return EODReport{}, ErrVersionConflict
}

// UpdateComment overwrites the overall manager comment without recording
// a new acknowledgment.
func (c *Controller) UpdateComment(ctx context.Context, reportID, comment string) (EODReport, error) {
	actor, err := c.require(ctx, auth.PermReportsComment)
	if err != nil {
		return EODReport{}, err
	}
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return EODReport{}, ErrInvalidInput
	}
	r, err := c.store.Get(ctx, reportID)
	if err != nil {
		return EODReport{}, err
	}
	if !canAccess(actor, r) {
		return EODReport{}, ErrPermissionDenied
	}

	updated := r.Clone()
	updated.ManagerComments = comment
	updated.UpdatedAt = c.now().UTC()
	updated.Revision = r.Revision + 1
	if err := c.store.Update(ctx, updated, r.Revision); err != nil {
		return EODReport{}, err
	}
	return updated, nil
}

// Report fetches a report, applying view scoping: owners need
// reports.view.own, anyone else needs a team or tenant-wide view grant.
func (c *Controller) Report(ctx context.Context, reportID string) (EODReport, error) {
	actor, ok := auth.ActorFromContext(ctx)
	if !ok {
		return EODReport{}, ErrPermissionDenied
	}
	r, err := c.store.Get(ctx, reportID)
	if err != nil {
		return EODReport{}, err
	}
	if err := c.checkView(ctx, actor, r); err != nil {
		return EODReport{}, err
	}
	return r, nil
}

// ReportByEmployeeDate fetches the report for one employee and day.
func (c *Controller) ReportByEmployeeDate(ctx context.Context, employeeID, date string) (EODReport, error) {
	actor, ok := auth.ActorFromContext(ctx)
	if !ok {
		return EODReport{}, ErrPermissionDenied
	}
	if !ValidDate(date) {
		return EODReport{}, ErrInvalidInput
	}
	r, err := c.store.GetByEmployeeDate(ctx, actor.TenantID, employeeID, date)
	if err != nil {
		return EODReport{}, err
	}
	if err := c.checkView(ctx, actor, r); err != nil {
		return EODReport{}, err
	}
	return r, nil
}

// ListByEmployee returns the employee's reports, newest first.
func (c *Controller) ListByEmployee(ctx context.Context, employeeID string, limit int) ([]EODReport, error) {
	actor, ok := auth.ActorFromContext(ctx)
	if !ok {
		return nil, ErrPermissionDenied
	}
	scope := EODReport{TenantID: actor.TenantID, EmployeeID: employeeID}
	if err := c.checkView(ctx, actor, scope); err != nil {
		return nil, err
	}
	return c.store.ListByEmployee(ctx, actor.TenantID, employeeID, limit)
}

func (c *Controller) checkView(ctx context.Context, actor auth.Actor, r EODReport) error {
	if !canAccess(actor, r) {
		return ErrPermissionDenied
	}
	role := auth.FetchRole(ctx, c.roles, actor)
	if r.EmployeeID == actor.ID {
		if auth.Resolve(actor, role, auth.PermReportsViewOwn) {
			return nil
		}
		return ErrPermissionDenied
	}
	if auth.Resolve(actor, role, auth.PermReportsViewTeam) ||
		auth.Resolve(actor, role, auth.PermReportsViewAll) {
		return nil
	}
	return ErrPermissionDenied
}
