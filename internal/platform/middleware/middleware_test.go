package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizfilings/internal/authz"
	jwttoken "bizfilings/internal/jwt_token"
	"bizfilings/internal/platform/metrics"
	"bizfilings/internal/session"
	"bizfilings/pkg/platform/middleware/metadata"
	"bizfilings/pkg/requestcontext"
	"bizfilings/pkg/testutil"
)

var discard = slog.New(slog.DiscardHandler)

func issue(t *testing.T, roles ...string) string {
	t.Helper()
	token, err := jwttoken.NewIssuer("mw-key", "test").Issue(jwttoken.IssueRequest{
		Subject:   "user-1",
		Roles:     roles,
		ExpiresIn: time.Hour,
	})
	require.NoError(t, err)
	return token
}

func sessionHandler(svc *session.Service) (http.Handler, *session.Context) {
	seen := &session.Context{}
	h := RequireSession(svc, discard)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sc, _ := session.FromContext(r.Context())
		*seen = *sc
		w.WriteHeader(http.StatusNoContent)
	}))
	return h, seen
}

func TestRequireSession(t *testing.T) {
	svc := session.NewService(jwttoken.NewDecoder(jwttoken.WithSigningKey("mw-key")))

	t.Run("bearer credential with account headers", func(t *testing.T) {
		h, seen := sessionHandler(svc)
		req := testutil.NewRequest(t, http.MethodGet, "/")
		req.Header.Set("Authorization", "Bearer "+issue(t, "view"))
		req.Header.Set(HeaderAccountID, "2617")
		req.Header.Set(HeaderAccountType, "premium")

		rr := testutil.DoRequest(h, req)

		testutil.AssertStatus(t, rr, http.StatusNoContent)
		assert.Equal(t, "2617", seen.AccountID)
		assert.Equal(t, authz.AccountTypePremium, seen.AccountType)
		assert.True(t, seen.Actions.Has(authz.ActionSaveDrafts))
	})

	t.Run("stored session key", func(t *testing.T) {
		started, err := svc.Begin(context.Background(), issue(t, "staff"), session.AccountSelection{Type: authz.AccountTypeStaff})
		require.NoError(t, err)

		h, seen := sessionHandler(svc)
		req := testutil.NewRequest(t, http.MethodGet, "/")
		req.Header.Set(HeaderSessionKey, started.Key)

		rr := testutil.DoRequest(h, req)

		testutil.AssertStatus(t, rr, http.StatusNoContent)
		assert.Equal(t, started.Key, seen.Key)
		assert.True(t, seen.IsStaff())
	})

	tests := []struct {
		name   string
		header map[string]string
		status int
		code   string
	}{
		{name: "missing credential", status: http.StatusUnauthorized, code: "unauthorized"},
		{name: "malformed credential", header: map[string]string{"Authorization": "Bearer abc"}, status: http.StatusUnauthorized, code: "unauthorized"},
		{name: "basic auth scheme", header: map[string]string{"Authorization": "Basic dXNlcjpwYXNz"}, status: http.StatusUnauthorized, code: "unauthorized"},
		{name: "unknown session key", header: map[string]string{HeaderSessionKey: "nope"}, status: http.StatusUnauthorized, code: "unauthorized"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := sessionHandler(svc)
			req := testutil.NewRequest(t, http.MethodGet, "/")
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			testutil.AssertStatusAndError(t, testutil.DoRequest(h, req), tt.status, tt.code)
		})
	}

	t.Run("no recognised roles is forbidden", func(t *testing.T) {
		h, _ := sessionHandler(svc)
		req := testutil.NewRequest(t, http.MethodGet, "/")
		req.Header.Set("Authorization", "Bearer "+issue(t, "uma_authorization"))
		testutil.AssertStatusAndError(t, testutil.DoRequest(h, req), http.StatusForbidden, "forbidden")
	})

	t.Run("unknown account type", func(t *testing.T) {
		h, _ := sessionHandler(svc)
		req := testutil.NewRequest(t, http.MethodGet, "/")
		req.Header.Set("Authorization", "Bearer "+issue(t, "view"))
		req.Header.Set(HeaderAccountType, "GOLD")
		testutil.AssertStatusAndError(t, testutil.DoRequest(h, req), http.StatusBadRequest, "bad_request")
	})
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestcontext.RequestID(r.Context())
	}))

	req := testutil.NewRequest(t, http.MethodGet, "/")
	req.Header.Set(HeaderRequestID, "req-123")
	rr := testutil.DoRequest(h, req)
	assert.Equal(t, "req-123", seen)
	assert.Equal(t, "req-123", rr.Header().Get(HeaderRequestID))

	rr = testutil.DoRequest(h, testutil.NewRequest(t, http.MethodGet, "/"))
	assert.Len(t, seen, 36)
	assert.Equal(t, seen, rr.Header().Get(HeaderRequestID))
}

func TestRecovery(t *testing.T) {
	h := Recovery(discard)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	testutil.AssertStatusAndError(t, testutil.DoRequest(h, testutil.NewRequest(t, http.MethodGet, "/")),
		http.StatusInternalServerError, "internal_error")
}

func TestAccessLogUsesRoutePattern(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	m := metrics.NewWith(prometheus.NewRegistry())

	r := chi.NewRouter()
	r.Use(metadata.ClientMetadata)
	r.Use(AccessLog(logger, m))
	r.Get("/v1/businesses/{identifier}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	req := testutil.NewRequest(t, http.MethodGet, "/v1/businesses/BC0871227")
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	testutil.DoRequest(r, req)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "/v1/businesses/{identifier}", entry["route"])
	assert.EqualValues(t, http.StatusTeapot, entry["status"])
	assert.Equal(t, "203.0.113.7", entry["client_ip"])
	assert.Equal(t, 1, promtestutil.CollectAndCount(m.RequestLatency))
}

func TestRequireSessionPassesThrough(t *testing.T) {
	svc := session.NewService(jwttoken.NewDecoder())
	h := RequireSession(svc, discard)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+issue(t, "view"))

	rr := testutil.DoRequest(h, req)

	assert.Equal(t, "ok", rr.Body.String())
}
