package authz

// selfServiceActions are the filing actions any business user may take on a
// business they have access to.
var selfServiceActions = []Action{
	ActionFileAnnualReport,
	ActionChangeAddress,
	ActionChangeDirectors,
	ActionChangeRegistration,
	ActionFileAlteration,
	ActionDissolveCompany,
	ActionRequestAgmExtension,
	ActionChangeAgmLocation,
	ActionConsentContinuationOut,
	ActionSaveDrafts,
	ActionDigitalCredentials,
}

// supportActions are granted to contact centre and Maximus agents who file on
// behalf of clients but do not administer the register.
var supportActions = []Action{
	ActionAddStaffComment,
	ActionStaffPayment,
	ActionSaveDrafts,
	ActionFileAnnualReport,
	ActionChangeAddress,
	ActionChangeDirectors,
}

// sbcStaffActions are granted to Service BC front counter staff.
var sbcStaffActions = concat(selfServiceActions, []Action{
	ActionAddStaffComment,
	ActionEditBusinessProfile,
	ActionFileStaffNotation,
	ActionFileCorrection,
	ActionStaffPayment,
})

// staffActions are granted to registry staff and cover every filing.
var staffActions = concat(sbcStaffActions, []Action{
	ActionFileCourtOrder,
	ActionAdminFreeze,
	ActionPutBackOn,
	ActionRestoreCompany,
	ActionFileConversion,
})

// rolePermissions is the single table mapping each role to the actions it
// contributes. Keep it in sync with the filing table in internal/filing.
var rolePermissions = map[Role][]Action{
	RoleStaff:              staffActions,
	RoleSBCStaff:           sbcStaffActions,
	RoleContactCentreStaff: supportActions,
	RoleMaximusStaff:       supportActions,
	RoleView:               selfServiceActions,
}

// premiumOnlyActions are removed for accounts that are not premium or staff.
var premiumOnlyActions = []Action{
	ActionSaveDrafts,
	ActionDigitalCredentials,
}

// MapToActions computes the authorized action set for the given roles acting
// under the given account type. It is a pure function: the union of each
// role's table entry, then the account-type gate.
//
// An empty role list yields an empty set; the caller decides whether that is fatal.
func MapToActions(roles []Role, accountType AccountType) ActionSet {
	set := make(ActionSet)
	for _, role := range roles {
		set.add(rolePermissions[role]...)
	}
	if accountType == AccountTypeBasic {
		for _, a := range premiumOnlyActions {
			delete(set, a)
		}
	}
	return set
}

// ActionsForRole returns the actions a single role contributes before any
// account-type gate.
func ActionsForRole(role Role) []Action {
	return append([]Action(nil), rolePermissions[role]...)
}

// GrantsByRole breaks MapToActions down per role: each role maps to the
// actions it contributes that survive the account-type gate. The union of
// the values equals MapToActions(roles, accountType).
func GrantsByRole(roles []Role, accountType AccountType) map[Role]ActionSet {
	allowed := MapToActions(roles, accountType)
	grants := make(map[Role]ActionSet, len(roles))
	for _, role := range roles {
		set := make(ActionSet)
		for _, a := range ActionsForRole(role) {
			if allowed.Has(a) {
				set.add(a)
			}
		}
		grants[role] = set
	}
	return grants
}

func concat(parts ...[]Action) []Action {
	var out []Action
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
