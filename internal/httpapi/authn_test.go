package httpapi

import (
	"testing"
)

func TestExtractBearerToken(t *testing.T) {
	cases := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"valid", "Bearer abc.def.ghi", "abc.def.ghi", false},
		{"case insensitive scheme", "bearer abc", "abc", false},
		{"padded", "  Bearer   abc  ", "abc", false},
		{"empty", "", "", true},
		{"wrong scheme", "Basic dXNlcg==", "", true},
		{"scheme only", "Bearer ", "", true},
	}
	for _, tc := range cases {
		got, err := extractBearerToken(tc.header)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("%s: expected error", tc.name)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
	}
}

func TestPublicPaths(t *testing.T) {
	for _, path := range []string{"/healthz", "/readyz", "/metrics", "/v1/auth/token", "/"} {
		if !isPublicPath(path) {
			t.Fatalf("expected %s public", path)
		}
	}
	for _, path := range []string{"/v1/reports", "/v1/reports/r1", "/v1/me/permissions", "/v1/stream"} {
		if isPublicPath(path) {
			t.Fatalf("expected %s protected", path)
		}
	}
}

func TestWithAuthRejectsGarbageToken(t *testing.T) {
	api := newTestAPI(t)

	resp := api.get("/v1/me/permissions", nil, map[string]string{
		"Authorization": "Bearer not-a-token",
	})
	defer resp.Body.Close()
	if resp.StatusCode != 401 {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	if resp.Header.Get("WWW-Authenticate") == "" {
		t.Fatalf("expected WWW-Authenticate header")
	}
}
