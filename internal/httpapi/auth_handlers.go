package httpapi

import (
	"net/http"
	"strings"
	"time"

	"syncly.dev/internal/audit"
	"syncly.dev/internal/auth"
)

// Dev token issuer. Production deployments sit behind the identity
// provider; this endpoint exists for local development and tests.
type tokenRequest struct {
	UserID        string `json:"user_id"`
	TenantID      string `json:"tenant_id"`
	PlatformAdmin bool   `json:"platform_admin"`
	TenantAdmin   bool   `json:"tenant_admin"`
	RoleID        string `json:"role_id"`
	RoleName      string `json:"role_name"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

const tokenTTL = 15 * time.Minute

func (a *API) handleAuthToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req tokenRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		writeError(w, r, http.StatusBadRequest, "user_id is required")
		return
	}
	tenantID := strings.TrimSpace(req.TenantID)
	if tenantID == "" && !req.PlatformAdmin {
		writeError(w, r, http.StatusBadRequest, "tenant_id is required for tenant users")
		return
	}

	actor := auth.NewActor(userID, tenantID, req.PlatformAdmin, req.TenantAdmin, req.RoleID, req.RoleName)
	token, err := auth.GenerateToken(actor, tokenTTL)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "token generation failed")
		return
	}

	expiresAt := time.Now().UTC().Add(tokenTTL)
	_ = audit.LogEvent(r.Context(), "auth.token.issued", map[string]any{
		"user_id":    userID,
		"tenant_id":  tenantID,
		"role_name":  req.RoleName,
		"expires_at": expiresAt.Format(time.RFC3339),
	})

	writeJSON(w, http.StatusOK, tokenResponse{
		Token:     token,
		ExpiresAt: expiresAt,
	})
}
