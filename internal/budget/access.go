package budget

import "github.com/triplogue/backend/pkg/apperr"

// expenseAction names the expense mutations gated by the permission rules
type expenseAction string

const (
	actionCreate expenseAction = "create"
	actionEdit   expenseAction = "edit"
	actionDelete expenseAction = "delete"
)

// ensureMemberAccess requires the caller to appear in the budget's roster.
// Past members pass; they retain read access.
func ensureMemberAccess(b *Budget, userID int64) error {
	if b.FindMember(userID) == nil {
		return apperr.Permission("you are not a member of this budget")
	}
	return nil
}

// ensureActiveMember requires the caller to be a current (not past) member.
// All mutations go through this gate.
func ensureActiveMember(b *Budget, userID int64) error {
	m := b.FindMember(userID)
	if m == nil {
		return apperr.Permission("you are not a member of this budget")
	}
	if m.IsPastMember {
		return apperr.Permission("past members cannot modify the budget")
	}
	return nil
}

// enforceExpensePermission applies the per-budget rule flags to an expense
// mutation. The budget creator may always act. Non-creators need the
// relevant rule flag, and for edit/delete must own the expense.
func enforceExpensePermission(action expenseAction, b *Budget, callerID, expenseOwnerID int64) error {
	caller := b.FindMember(callerID)
	if caller == nil {
		return apperr.Permission("you are not a member of this budget")
	}
	if caller.Role == RoleCreator {
		return nil
	}

	switch action {
	case actionCreate:
		if !b.Rules.AllowMemberExpenseCreation {
			return apperr.Permission("members are not allowed to create expenses in this budget")
		}
	case actionEdit, actionDelete:
		if expenseOwnerID != callerID {
			return apperr.Permission("you can only %s your own expenses", action)
		}
		if !b.Rules.AllowMemberExpenseEdits {
			return apperr.Permission("members are not allowed to %s expenses in this budget", action)
		}
	}

	return nil
}
