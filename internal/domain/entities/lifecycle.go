package entities

// AccountState is the derived lifecycle state of an account. It is
// always computed from the attribute combination and never stored, so
// the flags remain the single source of truth.
type AccountState string

const (
	// StateUnverified means the email verification code has not been
	// confirmed yet.
	StateUnverified AccountState = "UNVERIFIED"
	// StatePendingApproval means the email is verified but the account
	// is in a restricted age band and the parent has not approved it.
	StatePendingApproval AccountState = "PENDING_PARENT_APPROVAL"
	// StateActive means the account may log in.
	StateActive AccountState = "ACTIVE"
)

// Restricted age bands requiring parental approval before login.
const (
	AgeGroup5To10  = "5-10"
	AgeGroup10To15 = "10-15"
	AgeGroup15To17 = "15-17"
)

var restrictedAgeGroups = map[string]struct{}{
	AgeGroup5To10:  {},
	AgeGroup10To15: {},
	AgeGroup15To17: {},
}

// IsRestrictedAgeGroup reports whether the canonical age group requires
// parental approval.
func IsRestrictedAgeGroup(ageGroup string) bool {
	_, ok := restrictedAgeGroups[ageGroup]
	return ok
}

// State derives the account lifecycle state from the stored flags.
func (u *User) State() AccountState {
	if !u.IsEmailVerified {
		return StateUnverified
	}
	if u.RequiresParentApproval() && !u.IsParentApproved {
		return StatePendingApproval
	}
	return StateActive
}

// RequiresParentApproval reports whether the account's age group is one
// of the restricted bands.
func (u *User) RequiresParentApproval() bool {
	return u.AgeGroup.Valid && IsRestrictedAgeGroup(u.AgeGroup.String)
}

// CanLogin reports whether the account has completed the full
// activation flow.
func (u *User) CanLogin() bool {
	return u.State() == StateActive
}
