package session

import (
	"context"
	"time"

	"bizfilings/internal/authz"
	jwttoken "bizfilings/internal/jwt_token"
)

// Context is everything downstream code may know about the caller. It is
// built once per request (or per stored session) and passed explicitly.
type Context struct {
	// Key identifies a stored session. Empty for stateless bearer requests.
	Key string

	Claims      *jwttoken.RoleClaims
	AccountID   string
	AccountType authz.AccountType
	Actions     authz.ActionSet
}

// IsStaff reports whether the caller holds the staff or sbc_staff role.
func (c *Context) IsStaff() bool {
	return c.Claims.HasRole(authz.RoleStaff) || c.Claims.HasRole(authz.RoleSBCStaff)
}

// AccountSelection is the account the caller chose to act for.
type AccountSelection struct {
	ID   string
	Type authz.AccountType
}

// Record is what a Store persists. Actions are never stored; they are
// re-derived from the credential every time the session is resumed.
type Record struct {
	Key         string            `json:"key"`
	Credential  string            `json:"credential"`
	AccountID   string            `json:"account_id,omitempty"`
	AccountType authz.AccountType `json:"account_type"`
	ClientIP    string            `json:"client_ip,omitempty"`
	Device      string            `json:"device,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	ExpiresAt   time.Time         `json:"expires_at"`
}

type contextKey struct{}

// WithContext stores the session context on ctx.
func WithContext(ctx context.Context, sc *Context) context.Context {
	return context.WithValue(ctx, contextKey{}, sc)
}

// FromContext returns the session context stored by WithContext.
func FromContext(ctx context.Context) (*Context, bool) {
	sc, ok := ctx.Value(contextKey{}).(*Context)
	return sc, ok && sc != nil
}
