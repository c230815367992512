package httpapi

import (
	"net/http"
	"strings"

	"syncly.dev/internal/auth"
)

type permissionCheckRequest struct {
	Permission string `json:"permission"`
}

type permissionCheckResponse struct {
	Permission string `json:"permission"`
	Allowed    bool   `json:"allowed"`
}

func (a *API) handleMyPermissions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return
	}
	role := auth.FetchRole(r.Context(), a.roles, actor)
	writeJSON(w, http.StatusOK, map[string]any{
		"user_id":     actor.ID,
		"tenant_id":   actor.TenantID,
		"legacy_role": actor.LegacyRole.String(),
		"permissions": auth.EffectivePermissions(actor, role),
	})
}

func (a *API) handlePermissionCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return
	}

	var req permissionCheckRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	perm := strings.TrimSpace(req.Permission)
	if perm == "" {
		writeError(w, r, http.StatusBadRequest, "permission is required")
		return
	}

	role := auth.FetchRole(r.Context(), a.roles, actor)
	writeJSON(w, http.StatusOK, permissionCheckResponse{
		Permission: perm,
		Allowed:    auth.Resolve(actor, role, auth.Permission(perm)),
	})
}
