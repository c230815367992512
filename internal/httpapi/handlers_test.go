package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"syncly.dev/internal/auth"
	"syncly.dev/internal/report"
	"syncly.dev/internal/stream"
)

type apiClient struct {
	baseURL string
	client  *http.Client
	t       *testing.T
}

func alwaysEditable() report.EditPolicy {
	return report.EditPolicyFunc(func(context.Context, report.EODReport) bool { return true })
}

func newTestAPI(t *testing.T) *apiClient {
	t.Helper()

	t.Setenv("SYNCLY_AUTH_SECRET", "test-secret")
	auth.ResetSecretForTests()

	controller := report.NewController(report.NewInMemory(), nil, alwaysEditable())
	api := New(ReadyProbe{}, "test", controller, stream.New(), nil)
	api.rateBurst = 100
	api.ratePerSec = 100

	srv := httptest.NewServer(api.Handler())
	t.Cleanup(srv.Close)

	return &apiClient{
		baseURL: srv.URL,
		client:  srv.Client(),
		t:       t,
	}
}

func (c *apiClient) post(path string, body any, headers map[string]string) *http.Response {
	c.t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			c.t.Fatalf("marshal body: %v", err)
		}
	}
	req, err := http.NewRequest(http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		c.t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		c.t.Fatalf("do request: %v", err)
	}
	return resp
}

func (c *apiClient) get(path string, params url.Values, headers map[string]string) *http.Response {
	c.t.Helper()
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		c.t.Fatalf("parse url: %v", err)
	}
	if params != nil {
		u.RawQuery = params.Encode()
	}
	req, err := http.NewRequest(http.MethodGet, u.String(), nil)
	if err != nil {
		c.t.Fatalf("new request: %v", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		c.t.Fatalf("get request: %v", err)
	}
	return resp
}

func (c *apiClient) obtainToken(userID, tenantID, roleName string) map[string]string {
	c.t.Helper()
	resp := c.post("/v1/auth/token", map[string]any{
		"user_id":   userID,
		"tenant_id": tenantID,
		"role_name": roleName,
	}, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		c.t.Fatalf("unexpected token status: %d", resp.StatusCode)
	}
	var payload tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.t.Fatalf("decode token response: %v", err)
	}
	if payload.Token == "" {
		c.t.Fatalf("empty token issued")
	}
	return map[string]string{"Authorization": "Bearer " + payload.Token}
}

func decode[T any](t *testing.T, r *http.Response) T {
	t.Helper()
	defer r.Body.Close()
	var v T
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestReportLifecycleFlow(t *testing.T) {
	api := newTestAPI(t)
	employee := api.obtainToken("emp-1", "acme", "Employee")
	manager := api.obtainToken("mgr-1", "acme", "Manager")

	// Employee submits the day's report.
	resp := api.post("/v1/reports", map[string]any{
		"date":              "2026-03-02",
		"tasks_completed":   "closed three tickets",
		"plan_for_tomorrow": "start on the release notes",
	}, employee)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	if resp.Header.Get("Location") == "" {
		t.Fatalf("missing Location header")
	}
	created := decode[map[string]any](t, resp)
	reportID := created["id"].(string)
	if created["status"] != "pending" {
		t.Fatalf("unexpected status: %v", created["status"])
	}

	// Duplicate submission for the same day conflicts.
	resp = api.post("/v1/reports", map[string]any{
		"date":            "2026-03-02",
		"tasks_completed": "again",
	}, employee)
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}

	// Employee edits their report: version 2.
	resp = api.post("/v1/reports/"+reportID+"/versions", map[string]any{
		"tasks_completed": "closed three tickets, reviewed PR",
	}, employee)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected edit status: %d", resp.StatusCode)
	}
	edited := decode[map[string]any](t, resp)
	versions := edited["versions"].([]any)
	if len(versions) != 2 {
		t.Fatalf("expected 2 versions, got %d", len(versions))
	}

	// Manager reads and acknowledges it.
	resp = api.get("/v1/reports/"+reportID, nil, manager)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected read status: %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = api.post("/v1/reports/"+reportID+"/acknowledge", map[string]any{
		"manager_name": "M. One",
		"designation":  "Engineering Manager",
		"comment":      "good progress",
	}, manager)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected ack status: %d", resp.StatusCode)
	}
	acked := decode[map[string]any](t, resp)
	if acked["status"] != "acknowledged" {
		t.Fatalf("unexpected status after ack: %v", acked["status"])
	}
	if acked["manager_comments"] != "good progress" {
		t.Fatalf("unexpected comment: %v", acked["manager_comments"])
	}

	// Manager updates the comment without re-acknowledging.
	resp = api.post("/v1/reports/"+reportID+"/comment", map[string]any{
		"comment": "good progress, ship it",
	}, manager)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected comment status: %d", resp.StatusCode)
	}
	commented := decode[map[string]any](t, resp)
	acks := commented["acknowledgments"].([]any)
	if len(acks) != 1 {
		t.Fatalf("comment update changed acknowledgments: %d", len(acks))
	}

	// Manager lists the employee's reports.
	resp = api.get("/v1/employees/emp-1/reports", url.Values{"limit": []string{"10"}}, manager)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected list status: %d", resp.StatusCode)
	}
	listing := decode[map[string]any](t, resp)
	items := listing["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("expected 1 report, got %d", len(items))
	}
}

func TestSubmitCopyForward(t *testing.T) {
	api := newTestAPI(t)
	employee := api.obtainToken("emp-1", "acme", "Employee")

	resp := api.post("/v1/reports", map[string]any{
		"date":              "2026-03-02",
		"tasks_completed":   "migration groundwork",
		"plan_for_tomorrow": "finish the migration",
	}, employee)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = api.post("/v1/reports", map[string]any{
		"date":           "2026-03-03",
		"copy_from_date": "2026-03-02",
	}, employee)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("unexpected copy status: %d", resp.StatusCode)
	}
	copied := decode[map[string]any](t, resp)
	versions := copied["versions"].([]any)
	v1 := versions[0].(map[string]any)
	if v1["is_copied"] != true {
		t.Fatalf("expected is_copied true: %v", v1)
	}
	if v1["tasks_completed"] != "migration groundwork" {
		t.Fatalf("expected copied tasks, got %v", v1["tasks_completed"])
	}
}

func TestPeerCannotReadOthersReport(t *testing.T) {
	api := newTestAPI(t)
	owner := api.obtainToken("emp-1", "acme", "Employee")
	peer := api.obtainToken("emp-2", "acme", "Employee")

	resp := api.post("/v1/reports", map[string]any{
		"date":            "2026-03-02",
		"tasks_completed": "private work",
	}, owner)
	created := decode[map[string]any](t, resp)
	reportID := created["id"].(string)

	resp = api.get("/v1/reports/"+reportID, nil, peer)
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func TestAPIEnforcesAuth(t *testing.T) {
	api := newTestAPI(t)

	resp := api.post("/v1/reports", map[string]any{
		"date":            "2026-03-02",
		"tasks_completed": "work",
	}, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	var errBody map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&errBody); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if errBody["error"] == "" {
		t.Fatalf("expected error message")
	}
}

func TestTokenEndpointValidation(t *testing.T) {
	api := newTestAPI(t)

	resp := api.post("/v1/auth/token", map[string]any{"user_id": ""}, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestMyPermissionsEndpoint(t *testing.T) {
	api := newTestAPI(t)
	lead := api.obtainToken("lead-1", "acme", "Team Lead")

	resp := api.get("/v1/me/permissions", nil, lead)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	payload := decode[map[string]any](t, resp)
	if payload["legacy_role"] != "team_lead" {
		t.Fatalf("unexpected legacy role: %v", payload["legacy_role"])
	}
	perms := payload["permissions"].([]any)
	if len(perms) == 0 {
		t.Fatalf("expected permissions for team lead")
	}

	resp = api.post("/v1/me/permissions/check", map[string]any{
		"permission": "leave.approve",
	}, lead)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected check status: %d", resp.StatusCode)
	}
	check := decode[permissionCheckResponse](t, resp)
	if check.Allowed {
		t.Fatalf("team lead must not hold leave.approve")
	}
}

func TestReportErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{report.ErrInvalidInput, http.StatusBadRequest},
		{report.ErrInvalidVersion, http.StatusBadRequest},
		// An empty version ledger is corrupt stored state, not a bad
		// request.
		{report.ErrEmptyReport, http.StatusInternalServerError},
		{report.ErrPermissionDenied, http.StatusForbidden},
		{report.ErrNotFound, http.StatusNotFound},
		{report.ErrAlreadyExists, http.StatusConflict},
		{report.ErrVersionConflict, http.StatusConflict},
		{report.ErrReportLocked, http.StatusLocked},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/reports/r1", nil)
		handleReportError(rec, req, tc.err)
		if rec.Code != tc.code {
			t.Fatalf("%v: expected status %d, got %d", tc.err, tc.code, rec.Code)
		}
	}
}
