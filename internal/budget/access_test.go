package budget

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/triplogue/backend/pkg/apperr"
)

func testBudget(rules Rules) *Budget {
	return &Budget{
		ID:           1,
		TripID:       10,
		BaseCurrency: "EUR",
		CreatedBy:    1,
		Rules:        rules,
		Members: []*Member{
			{UserID: 1, Role: RoleCreator},
			{UserID: 2, Role: RoleMember},
			{UserID: 3, Role: RoleMember, IsPastMember: true},
		},
	}
}

func TestEnsureMemberAccess(t *testing.T) {
	b := testBudget(DefaultRules())

	assert.NoError(t, ensureMemberAccess(b, 1))
	assert.NoError(t, ensureMemberAccess(b, 2))
	// Past members retain read access
	assert.NoError(t, ensureMemberAccess(b, 3))

	err := ensureMemberAccess(b, 99)
	assert.True(t, apperr.IsKind(err, apperr.KindPermission))
}

func TestEnsureActiveMember(t *testing.T) {
	b := testBudget(DefaultRules())

	assert.NoError(t, ensureActiveMember(b, 1))
	assert.NoError(t, ensureActiveMember(b, 2))

	err := ensureActiveMember(b, 3)
	assert.True(t, apperr.IsKind(err, apperr.KindPermission), "past member cannot mutate")

	err = ensureActiveMember(b, 99)
	assert.True(t, apperr.IsKind(err, apperr.KindPermission))
}

func TestEnforceExpensePermission(t *testing.T) {
	t.Run("creator may always act", func(t *testing.T) {
		b := testBudget(Rules{}) // everything forbidden for members
		assert.NoError(t, enforceExpensePermission(actionCreate, b, 1, 0))
		assert.NoError(t, enforceExpensePermission(actionEdit, b, 1, 2))
		assert.NoError(t, enforceExpensePermission(actionDelete, b, 1, 2))
	})

	t.Run("member create gated by rule flag", func(t *testing.T) {
		allowed := testBudget(Rules{AllowMemberExpenseCreation: true})
		assert.NoError(t, enforceExpensePermission(actionCreate, allowed, 2, 0))

		blocked := testBudget(Rules{})
		err := enforceExpensePermission(actionCreate, blocked, 2, 0)
		assert.True(t, apperr.IsKind(err, apperr.KindPermission))
	})

	t.Run("member edits own expense when rule allows", func(t *testing.T) {
		b := testBudget(Rules{AllowMemberExpenseEdits: true})
		assert.NoError(t, enforceExpensePermission(actionEdit, b, 2, 2))
		assert.NoError(t, enforceExpensePermission(actionDelete, b, 2, 2))
	})

	t.Run("member cannot touch another member's expense even when rule allows", func(t *testing.T) {
		b := testBudget(Rules{AllowMemberExpenseEdits: true})
		err := enforceExpensePermission(actionEdit, b, 2, 1)
		assert.True(t, apperr.IsKind(err, apperr.KindPermission))
	})

	t.Run("member blocked by edit rule on own expense", func(t *testing.T) {
		b := testBudget(Rules{})
		err := enforceExpensePermission(actionDelete, b, 2, 2)
		assert.True(t, apperr.IsKind(err, apperr.KindPermission))
	})

	t.Run("non-member has no permission", func(t *testing.T) {
		b := testBudget(DefaultRules())
		err := enforceExpensePermission(actionCreate, b, 99, 0)
		assert.True(t, apperr.IsKind(err, apperr.KindPermission))
	})
}
