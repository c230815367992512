package report

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// Store is the persistence collaborator. Implementations must provide
// atomic compare-and-swap semantics on Update so two concurrent writers
// against the same report cannot silently overwrite each other. The
// token is the report revision, which every write advances; a latest
// version number would not do, since acknowledgments and comments leave
// the version ledger untouched.
type Store interface {
	// Create persists a new report; ErrAlreadyExists if a report for the
	// same (tenant, employee, date) is already present.
	Create(ctx context.Context, r EODReport) error
	Get(ctx context.Context, id string) (EODReport, error)
	GetByEmployeeDate(ctx context.Context, tenantID, employeeID, date string) (EODReport, error)
	// Update replaces the stored report iff its current revision equals
	// expectRevision; otherwise ErrVersionConflict. Callers pass r with
	// the revision already advanced past expectRevision.
	Update(ctx context.Context, r EODReport, expectRevision int) error
	// ListByEmployee returns the employee's reports, newest date first.
	ListByEmployee(ctx context.Context, tenantID, employeeID string, limit int) ([]EODReport, error)
}

// InMemory implements Store with in-process concurrency safety.
// NOTE: production deployments use the Postgres store; this backs tests
// and single-node development.
type InMemory struct {
	mu    sync.RWMutex
	byID  map[string]*EODReport
	byKey map[string]string // tenant|employee|date -> report id
}

// NewInMemory creates an empty store.
func NewInMemory() *InMemory {
	return &InMemory{
		byID:  make(map[string]*EODReport),
		byKey: make(map[string]string),
	}
}

var _ Store = (*InMemory)(nil)

func dayKey(tenantID, employeeID, date string) string {
	return strings.Join([]string{tenantID, employeeID, date}, "|")
}

func (s *InMemory) Create(ctx context.Context, r EODReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := dayKey(r.TenantID, r.EmployeeID, r.Date)
	if _, exists := s.byKey[key]; exists {
		return ErrAlreadyExists
	}
	if _, exists := s.byID[r.ID]; exists {
		return ErrAlreadyExists
	}
	stored := r.Clone()
	s.byID[r.ID] = &stored
	s.byKey[key] = r.ID
	return nil
}

func (s *InMemory) Get(ctx context.Context, id string) (EODReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.byID[id]
	if !ok {
		return EODReport{}, ErrNotFound
	}
	return r.Clone(), nil
}

func (s *InMemory) GetByEmployeeDate(ctx context.Context, tenantID, employeeID, date string) (EODReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byKey[dayKey(tenantID, employeeID, date)]
	if !ok {
		return EODReport{}, ErrNotFound
	}
	r, ok := s.byID[id]
	if !ok {
		return EODReport{}, ErrNotFound
	}
	return r.Clone(), nil
}

func (s *InMemory) Update(ctx context.Context, r EODReport, expectRevision int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.byID[r.ID]
	if !ok {
		return ErrNotFound
	}
	if current.Revision != expectRevision {
		return ErrVersionConflict
	}
	stored := r.Clone()
	s.byID[r.ID] = &stored
	return nil
}

func (s *InMemory) ListByEmployee(ctx context.Context, tenantID, employeeID string, limit int) ([]EODReport, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []EODReport
	for _, r := range s.byID {
		if r.TenantID == tenantID && r.EmployeeID == employeeID {
			out = append(out, r.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
