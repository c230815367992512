package pg

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"syncly.dev/internal/auth"
)

var _ auth.RoleSource = (*Store)(nil)

// Role loads a tenant's role document. The permissions column is a JSONB
// array of permission keys.
func (s *Store) Role(ctx context.Context, tenantID, roleID string) (*auth.Role, error) {
	if s.db == nil {
		return nil, errors.New("database connection unavailable")
	}
	var (
		name string
		raw  []byte
	)
	err := s.db.QueryRowContext(ctx, `
		select name, permissions
		from roles
		where tenant_id = $1 and id = $2
	`, tenantID, roleID).Scan(&name, &raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, auth.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var keys []string
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &keys); err != nil {
			return nil, fmt.Errorf("decode permissions: %w", err)
		}
	}
	perms := make([]auth.Permission, 0, len(keys))
	for _, k := range keys {
		perms = append(perms, auth.Permission(k))
	}
	return auth.NewRole(roleID, tenantID, name, perms), nil
}
