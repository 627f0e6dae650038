package session_test

//go:generate mockgen -destination=mocks/mocks.go -package=mocks bizfilings/internal/session Decoder,Store

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"bizfilings/internal/authz"
	jwttoken "bizfilings/internal/jwt_token"
	"bizfilings/internal/platform/metrics"
	"bizfilings/internal/session"
	"bizfilings/internal/session/mocks"
	dErrors "bizfilings/pkg/domain-errors"
	"bizfilings/pkg/platform/middleware/metadata"
	"bizfilings/pkg/platform/sentinel"
	"bizfilings/pkg/requestcontext"
)

const signingKey = "session-test-key"

func issue(t *testing.T, roles ...string) string {
	t.Helper()
	token, err := jwttoken.NewIssuer(signingKey, "bizfilings-test").Issue(jwttoken.IssueRequest{
		Subject:   "user-1",
		Username:  "bcsc/abc",
		AccountID: "2617",
		Roles:     roles,
		ExpiresIn: time.Hour,
	})
	require.NoError(t, err)
	return token
}

func newService(opts ...session.Option) *session.Service {
	return session.NewService(jwttoken.NewDecoder(jwttoken.WithSigningKey(signingKey)), opts...)
}

func TestDerive(t *testing.T) {
	ctx := context.Background()

	t.Run("maps roles for the selected account type", func(t *testing.T) {
		sc, err := newService().Derive(ctx, issue(t, "view"), session.AccountSelection{ID: "99", Type: authz.AccountTypePremium})
		require.NoError(t, err)

		assert.Equal(t, "99", sc.AccountID)
		assert.Equal(t, authz.AccountTypePremium, sc.AccountType)
		assert.True(t, sc.Actions.Has(authz.ActionSaveDrafts))
		assert.True(t, sc.Actions.Has(authz.ActionFileAnnualReport))
		assert.False(t, sc.IsStaff())
		assert.Empty(t, sc.Key, "derive does not create a stored session")
	})

	t.Run("empty selection falls back to claims account and BASIC", func(t *testing.T) {
		sc, err := newService().Derive(ctx, issue(t, "view"), session.AccountSelection{})
		require.NoError(t, err)

		assert.Equal(t, "2617", sc.AccountID)
		assert.Equal(t, authz.AccountTypeBasic, sc.AccountType)
		assert.False(t, sc.Actions.Has(authz.ActionSaveDrafts))
	})

	t.Run("staff roles", func(t *testing.T) {
		sc, err := newService().Derive(ctx, issue(t, "staff"), session.AccountSelection{Type: authz.AccountTypeStaff})
		require.NoError(t, err)
		assert.True(t, sc.IsStaff())
		assert.True(t, sc.Actions.Has(authz.ActionFileCourtOrder))
	})

	t.Run("malformed credential is unauthorized", func(t *testing.T) {
		_, err := newService().Derive(ctx, "not-a-token", session.AccountSelection{})
		require.ErrorIs(t, err, jwttoken.ErrMalformedCredential)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("credential without recognised roles is forbidden", func(t *testing.T) {
		_, err := newService().Derive(ctx, issue(t, "offline_access"), session.AccountSelection{})
		require.ErrorIs(t, err, jwttoken.ErrNoRoles)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	})
}

func TestDeriveCountsOutcomes(t *testing.T) {
	ctrl := gomock.NewController(t)
	decoder := mocks.NewMockDecoder(ctrl)
	m := metrics.NewWith(prometheus.NewRegistry())
	svc := session.NewService(decoder, session.WithMetrics(m))

	decoder.EXPECT().Decode("expired").Return(nil, jwttoken.ErrExpiredCredential)
	decoder.EXPECT().Decode("ok").Return(&jwttoken.RoleClaims{Roles: []authz.Role{authz.RoleView}}, nil)

	_, err := svc.Derive(context.Background(), "expired", session.AccountSelection{})
	require.Error(t, err)
	assert.Equal(t, "credential has expired", dErrors.MessageOf(err))

	_, err = svc.Derive(context.Background(), "ok", session.AccountSelection{})
	require.NoError(t, err)

	assert.InDelta(t, 1, promtestutil.ToFloat64(m.CredentialOutcomes.WithLabelValues("expired")), 0)
	assert.InDelta(t, 1, promtestutil.ToFloat64(m.CredentialOutcomes.WithLabelValues("ok")), 0)
}

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	started, err := svc.Begin(ctx, issue(t, "view"), session.AccountSelection{ID: "2617", Type: authz.AccountTypePremium})
	require.NoError(t, err)
	require.NotEmpty(t, started.Key)

	resumed, err := svc.Resume(ctx, started.Key)
	require.NoError(t, err)
	assert.Equal(t, started.Key, resumed.Key)
	assert.True(t, started.Actions.Equal(resumed.Actions))
	assert.Equal(t, authz.AccountTypePremium, resumed.AccountType)

	refreshed, err := svc.Refresh(ctx, started.Key, issue(t, "staff"))
	require.NoError(t, err)
	assert.True(t, refreshed.Actions.Has(authz.ActionAdminFreeze))
	assert.Equal(t, authz.AccountTypePremium, refreshed.AccountType, "refresh keeps the account selection")

	resumed, err = svc.Resume(ctx, started.Key)
	require.NoError(t, err)
	assert.True(t, resumed.Actions.Has(authz.ActionAdminFreeze))

	require.NoError(t, svc.End(ctx, started.Key))
	_, err = svc.Resume(ctx, started.Key)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestResumeDropsSessionWhenCredentialNoLongerDecodes(t *testing.T) {
	ctrl := gomock.NewController(t)
	decoder := mocks.NewMockDecoder(ctrl)
	store := session.NewInMemoryStore()
	svc := session.NewService(decoder, session.WithStore(store))
	ctx := context.Background()

	gomock.InOrder(
		decoder.EXPECT().Decode("cred").Return(&jwttoken.RoleClaims{Roles: []authz.Role{authz.RoleView}}, nil),
		decoder.EXPECT().Decode("cred").Return(nil, jwttoken.ErrExpiredCredential),
	)

	sc, err := svc.Begin(ctx, "cred", session.AccountSelection{})
	require.NoError(t, err)

	_, err = svc.Resume(ctx, sc.Key)
	require.ErrorIs(t, err, jwttoken.ErrExpiredCredential)

	_, err = store.Find(ctx, sc.Key)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestResumeLogsWhenRejectedSessionCannotBeDropped(t *testing.T) {
	ctrl := gomock.NewController(t)
	decoder := mocks.NewMockDecoder(ctrl)
	store := mocks.NewMockStore(ctrl)
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	svc := session.NewService(decoder, session.WithStore(store), session.WithLogger(logger))
	ctx := requestcontext.WithRequestID(context.Background(), "req-7")

	store.EXPECT().Find(gomock.Any(), "k").Return(&session.Record{Key: "k", Credential: "cred"}, nil)
	decoder.EXPECT().Decode("cred").Return(nil, jwttoken.ErrExpiredCredential)
	store.EXPECT().Delete(gomock.Any(), "k").Return(sentinel.ErrUnavailable)

	_, err := svc.Resume(ctx, "k")
	require.ErrorIs(t, err, jwttoken.ErrExpiredCredential, "the credential error wins over the cleanup error")

	lines := bytes.Split(bytes.TrimSpace(logs.Bytes()), []byte("\n"))
	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "failed to drop rejected session", entry["msg"])
	assert.Equal(t, "k", entry["session"])
	assert.Equal(t, "req-7", entry["request_id"])
	assert.Contains(t, entry["error"], sentinel.ErrUnavailable.Error())
}

func TestBeginRecordsClientAndCapsLifetime(t *testing.T) {
	ctrl := gomock.NewController(t)
	decoder := mocks.NewMockDecoder(ctrl)
	store := mocks.NewMockStore(ctrl)
	svc := session.NewService(decoder, session.WithStore(store), session.WithTTL(8*time.Hour))

	now := time.Date(2023, 2, 1, 9, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), now)
	ctx = metadata.WithClient(ctx, metadata.Client{IP: "192.0.2.10", Device: "Firefox 120 on Linux"})

	decoder.EXPECT().Decode("cred").Return(&jwttoken.RoleClaims{
		Roles:     []authz.Role{authz.RoleView},
		ExpiresAt: now.Add(30 * time.Minute),
	}, nil)
	store.EXPECT().Save(gomock.Any(), gomock.Any(), 30*time.Minute).
		DoAndReturn(func(_ context.Context, rec *session.Record, _ time.Duration) error {
			assert.Equal(t, "cred", rec.Credential)
			assert.Equal(t, authz.AccountTypeBasic, rec.AccountType)
			assert.Equal(t, now, rec.CreatedAt)
			assert.Equal(t, "192.0.2.10", rec.ClientIP)
			assert.Equal(t, "Firefox 120 on Linux", rec.Device)
			return nil
		})

	_, err := svc.Begin(ctx, "cred", session.AccountSelection{})
	require.NoError(t, err)
}

func TestStoreFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	decoder := mocks.NewMockDecoder(ctrl)
	store := mocks.NewMockStore(ctrl)
	svc := session.NewService(decoder, session.WithStore(store))
	ctx := context.Background()

	store.EXPECT().Find(gomock.Any(), "k").Return(nil, sentinel.ErrUnavailable)
	_, err := svc.Resume(ctx, "k")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))

	store.EXPECT().Delete(gomock.Any(), "k").Return(sentinel.ErrUnavailable)
	err = svc.End(ctx, "k")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
}

func TestContextHelpers(t *testing.T) {
	_, ok := session.FromContext(context.Background())
	assert.False(t, ok)

	sc := &session.Context{AccountID: "1", Claims: &jwttoken.RoleClaims{}}
	got, ok := session.FromContext(session.WithContext(context.Background(), sc))
	require.True(t, ok)
	assert.Same(t, sc, got)
}
