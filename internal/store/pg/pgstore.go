package pg

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"syncly.dev/internal/report"
)

const pgErrUniqueViolation = "23505"

// Store persists reports and roles in Postgres. Report versions and
// acknowledgments are stored as JSONB documents; the revision column
// carries the optimistic-concurrency token and advances on every write.
type Store struct {
	db *sql.DB
}

var _ report.Store = (*Store)(nil)

func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	// Tuned pool defaults; adjust under load tests
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) DB() *sql.DB { return s.db }

// Ping verifies connectivity. Used by readiness probes.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Create(ctx context.Context, r report.EODReport) error {
	versions, acks, err := marshalDocs(r)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		insert into reports
			(id, tenant_id, employee_id, report_date, status, revision,
			 latest_version, versions, manager_comments, acknowledgments,
			 created_at, updated_at)
		values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`, r.ID, r.TenantID, r.EmployeeID, r.Date, string(r.Status), r.Revision,
		report.LatestVersionNumber(r), versions, r.ManagerComments, acks,
		r.CreatedAt, r.UpdatedAt)
	if err != nil {
		if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrUniqueViolation {
			return report.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (report.EODReport, error) {
	row := s.db.QueryRowContext(ctx, `
		select id, tenant_id, employee_id, report_date, status, revision,
		       versions, manager_comments, acknowledgments, created_at, updated_at
		from reports where id = $1
	`, id)
	return scanReport(row)
}

func (s *Store) GetByEmployeeDate(ctx context.Context, tenantID, employeeID, date string) (report.EODReport, error) {
	row := s.db.QueryRowContext(ctx, `
		select id, tenant_id, employee_id, report_date, status, revision,
		       versions, manager_comments, acknowledgments, created_at, updated_at
		from reports
		where tenant_id = $1 and employee_id = $2 and report_date = $3
	`, tenantID, employeeID, date)
	return scanReport(row)
}

// Update is a compare-and-swap on revision: the row is replaced only if
// the stored token still equals expectRevision, so a concurrent writer
// that landed any mutation in between loses with ErrVersionConflict.
// Revision, not latest_version, is the predicate: acknowledgment and
// comment writes advance the former but not the latter.
func (s *Store) Update(ctx context.Context, r report.EODReport, expectRevision int) error {
	versions, acks, err := marshalDocs(r)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
		update reports
		set status = $3, revision = $4, latest_version = $5, versions = $6,
		    manager_comments = $7, acknowledgments = $8, updated_at = $9
		where id = $1 and revision = $2
	`, r.ID, expectRevision, string(r.Status), r.Revision,
		report.LatestVersionNumber(r), versions, r.ManagerComments, acks,
		r.UpdatedAt)
	if err != nil {
		return err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if aff == 0 {
		var exists int
		err := s.db.QueryRowContext(ctx, `select 1 from reports where id = $1`, r.ID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return report.ErrNotFound
		}
		if err != nil {
			return err
		}
		return report.ErrVersionConflict
	}
	return nil
}

func (s *Store) ListByEmployee(ctx context.Context, tenantID, employeeID string, limit int) ([]report.EODReport, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		select id, tenant_id, employee_id, report_date, status, revision,
		       versions, manager_comments, acknowledgments, created_at, updated_at
		from reports
		where tenant_id = $1 and employee_id = $2
		order by report_date desc
		limit $3
	`, tenantID, employeeID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []report.EODReport
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (report.EODReport, error) {
	var (
		r        report.EODReport
		status   string
		versions []byte
		acks     []byte
	)
	err := row.Scan(&r.ID, &r.TenantID, &r.EmployeeID, &r.Date, &status,
		&r.Revision, &versions, &r.ManagerComments, &acks, &r.CreatedAt,
		&r.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return report.EODReport{}, report.ErrNotFound
	}
	if err != nil {
		return report.EODReport{}, err
	}
	r.Status = report.Status(status)
	if len(versions) > 0 {
		if err := json.Unmarshal(versions, &r.Versions); err != nil {
			return report.EODReport{}, fmt.Errorf("decode versions: %w", err)
		}
	}
	if len(acks) > 0 {
		if err := json.Unmarshal(acks, &r.Acknowledgments); err != nil {
			return report.EODReport{}, fmt.Errorf("decode acknowledgments: %w", err)
		}
	}
	return r, nil
}

func marshalDocs(r report.EODReport) (versions, acks []byte, err error) {
	versions, err = json.Marshal(r.Versions)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal versions: %w", err)
	}
	if r.Acknowledgments == nil {
		return versions, []byte("[]"), nil
	}
	acks, err = json.Marshal(r.Acknowledgments)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal acknowledgments: %w", err)
	}
	return versions, acks, nil
}

func maybePgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}
