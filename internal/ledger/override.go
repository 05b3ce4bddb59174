package ledger

import "github.com/google/uuid"

// MinOverrideLen is the minimum length of a manager override code.
const MinOverrideLen = 4

// NeedsOverride reports whether opening a register requires a manager
// override: the acting user is not the register's assigned user AND holds a
// manager role. A non-manager who is not the assigned user is simply not
// offered the override path — the open is refused outright (ErrNotAssigned
// at the service layer). An unassigned register never needs an override.
func NeedsOverride(assignedUserID *uuid.UUID, currentUserID uuid.UUID, isManager bool) bool {
	if assignedUserID == nil || *assignedUserID == currentUserID {
		return false
	}
	return isManager
}

// ValidateOverride checks the override code shape before it is compared to
// the register's secret code.
func ValidateOverride(code string) error {
	if code == "" {
		return ErrOverrideRequired
	}
	if len(code) < MinOverrideLen {
		return ErrOverrideTooShort
	}
	return nil
}
