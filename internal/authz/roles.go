package authz

import (
	"fmt"
	"strings"
)

// Role is a permission grant carried in the session credential by the identity provider.
type Role string

const (
	RoleContactCentreStaff Role = "contact_centre_staff"
	RoleMaximusStaff       Role = "maximus_staff"
	RoleSBCStaff           Role = "sbc_staff"
	RoleStaff              Role = "staff"
	RoleView               Role = "view"
)

// IsValid checks if the role is one of the supported enum values.
func (r Role) IsValid() bool {
	switch r {
	case RoleContactCentreStaff, RoleMaximusStaff, RoleSBCStaff, RoleStaff, RoleView:
		return true
	}
	return false
}

// String returns the string representation.
func (r Role) String() string {
	return string(r)
}

// ParseRole validates a raw role claim. Matching is case-insensitive because
// identity providers are inconsistent about casing.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", fmt.Errorf("unknown role: %q", s)
	}
	return r, nil
}

// AccountType is the type of the account the user is currently acting under.
type AccountType string

const (
	AccountTypeBasic              AccountType = "BASIC"
	AccountTypePremium            AccountType = "PREMIUM"
	AccountTypeStaff              AccountType = "STAFF"
	AccountTypeSBCStaff           AccountType = "SBC_STAFF"
	AccountTypeMaximusStaff       AccountType = "MAXIMUS_STAFF"
	AccountTypeContactCentreStaff AccountType = "CONTACT_CENTRE_STAFF"
)

// IsValid checks if the account type is one of the supported enum values.
func (a AccountType) IsValid() bool {
	switch a {
	case AccountTypeBasic, AccountTypePremium, AccountTypeStaff, AccountTypeSBCStaff,
		AccountTypeMaximusStaff, AccountTypeContactCentreStaff:
		return true
	}
	return false
}

// String returns the string representation.
func (a AccountType) String() string {
	return string(a)
}

// ParseAccountType validates an account type. An empty value means the user
// has not selected an account and is treated as BASIC.
func ParseAccountType(s string) (AccountType, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return AccountTypeBasic, nil
	}
	a := AccountType(s)
	if !a.IsValid() {
		return "", fmt.Errorf("unknown account type: %q", s)
	}
	return a, nil
}
