package jwttoken

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"bizfilings/internal/authz"
	strutil "bizfilings/pkg/platform/strings"
)

// Decoding failures. All of them are fatal to session initialisation.
var (
	ErrMalformedCredential = errors.New("malformed credential")
	ErrNoRoles             = errors.New("credential carries no roles")
	ErrExpiredCredential   = errors.New("credential has expired")
)

// RoleClaims is what the rest of the system needs from a decoded credential.
type RoleClaims struct {
	Subject   string       `json:"sub"`
	Username  string       `json:"username,omitempty"`
	AccountID string       `json:"account_id,omitempty"`
	Roles     []authz.Role `json:"roles"`
	ExpiresAt time.Time    `json:"expires_at,omitzero"`
}

// HasRole reports whether the claims carry the given role.
func (c *RoleClaims) HasRole(role authz.Role) bool {
	return slices.Contains(c.Roles, role)
}

type realmAccess struct {
	Roles []string `json:"roles"`
}

// Claims is the payload shape issued by the identity provider. Roles may be
// top level or nested under realm_access depending on the realm config.
type Claims struct {
	Roles             []string     `json:"roles,omitempty"`
	RealmAccess       *realmAccess `json:"realm_access,omitempty"`
	Username          string       `json:"username,omitempty"`
	PreferredUsername string       `json:"preferred_username,omitempty"`
	AccountID         string       `json:"account_id,omitempty"`
	jwt.RegisteredClaims
}

// Decoder turns a bearer credential into RoleClaims. Without a signing key it
// only decodes, which is what a client holding a token from a trusted
// identity provider needs.
type Decoder struct {
	signingKey []byte
	now        func() time.Time
}

// DecoderOption configures a Decoder.
type DecoderOption func(*Decoder)

// WithSigningKey enables HS256 signature verification.
func WithSigningKey(key string) DecoderOption {
	return func(d *Decoder) {
		if key != "" {
			d.signingKey = []byte(key)
		}
	}
}

// WithClock overrides the clock used for expiry checks.
func WithClock(now func() time.Time) DecoderOption {
	return func(d *Decoder) {
		if now != nil {
			d.now = now
		}
	}
}

func NewDecoder(opts ...DecoderOption) *Decoder {
	d := &Decoder{now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Decode parses the credential and extracts its role claims.
func (d *Decoder) Decode(credential string) (*RoleClaims, error) {
	credential = strings.TrimSpace(credential)
	segments := strings.Split(credential, ".")
	if len(segments) != 3 || slices.Contains(segments, "") {
		return nil, fmt.Errorf("%w: expected three segments", ErrMalformedCredential)
	}

	claims, err := d.parse(credential)
	if err != nil {
		return nil, err
	}

	roles := collectRoles(claims)
	if len(roles) == 0 {
		return nil, ErrNoRoles
	}

	username := claims.Username
	if username == "" {
		username = claims.PreferredUsername
	}
	out := &RoleClaims{
		Subject:   claims.Subject,
		Username:  username,
		AccountID: claims.AccountID,
		Roles:     roles,
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

func (d *Decoder) parse(credential string) (*Claims, error) {
	claims := &Claims{}
	if d.signingKey == nil {
		token, _, err := jwt.NewParser().ParseUnverified(credential, claims)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedCredential, err)
		}
		if token.Method.Alg() == jwt.SigningMethodNone.Alg() {
			return nil, fmt.Errorf("%w: unsigned credential", ErrMalformedCredential)
		}
		if claims.ExpiresAt != nil && !claims.ExpiresAt.After(d.now()) {
			return nil, ErrExpiredCredential
		}
		return claims, nil
	}

	parsed, err := jwt.ParseWithClaims(credential, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return d.signingKey, nil
	}, jwt.WithTimeFunc(d.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredCredential
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedCredential, err)
	}
	if !parsed.Valid {
		return nil, fmt.Errorf("%w: invalid token", ErrMalformedCredential)
	}
	return claims, nil
}

// collectRoles merges both role locations, keeps recognised roles only and
// dedupes in first-seen order.
func collectRoles(claims *Claims) []authz.Role {
	raw := append([]string(nil), claims.Roles...)
	if claims.RealmAccess != nil {
		raw = append(raw, claims.RealmAccess.Roles...)
	}
	folded := strutil.FoldDedupe(raw)
	roles := make([]authz.Role, 0, len(folded))
	for _, r := range folded {
		role, err := authz.ParseRole(r)
		if err != nil {
			continue
		}
		roles = append(roles, role)
	}
	return roles
}

// Issuer mints HS256 credentials. Used by the dev server and tests.
type Issuer struct {
	signingKey []byte
	issuer     string
	now        func() time.Time
}

// IssuerOption configures an Issuer.
type IssuerOption func(*Issuer)

// WithIssueClock overrides the clock used for iat and exp.
func WithIssueClock(now func() time.Time) IssuerOption {
	return func(i *Issuer) {
		if now != nil {
			i.now = now
		}
	}
}

func NewIssuer(signingKey string, issuer string, opts ...IssuerOption) *Issuer {
	i := &Issuer{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		now:        time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(i)
		}
	}
	return i
}

// IssueRequest describes the credential to mint.
type IssueRequest struct {
	Subject   string
	Username  string
	AccountID string
	Roles     []string
	ExpiresIn time.Duration
}

func (i *Issuer) Issue(req IssueRequest) (string, error) {
	now := i.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Roles:     req.Roles,
		Username:  req.Username,
		AccountID: req.AccountID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   req.Subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(req.ExpiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    i.issuer,
			ID:        uuid.NewString(),
		},
	})

	signed, err := token.SignedString(i.signingKey)
	if err != nil {
		return "", err
	}
	return signed, nil
}
