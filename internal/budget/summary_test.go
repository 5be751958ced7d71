package budget

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/triplogue/backend/internal/budget/split"
)

func summaryFixture() (*Budget, []*Expense) {
	b := &Budget{
		ID:           1,
		TripID:       10,
		BaseCurrency: "EUR",
		CreatedBy:    1,
		Rules:        DefaultRules(),
		Members: []*Member{
			{UserID: 1, PlannedContribution: 300, Role: RoleCreator},
			{UserID: 2, PlannedContribution: 200, Role: RoleMember},
			{UserID: 3, PlannedContribution: 100, Role: RoleMember, IsPastMember: true},
		},
	}
	expenses := []*Expense{
		{
			ID: 1, Amount: 90, Currency: "EUR", PaidBy: 1, SplitMethod: split.MethodEqual,
			Splits: []*ExpenseSplit{
				{UserID: 1, Amount: 30},
				{UserID: 2, Amount: 30},
				{UserID: 3, Amount: 30},
			},
		},
		{
			ID: 2, Amount: 50, Currency: "EUR", PaidBy: 2, SplitMethod: split.MethodCustom,
			Splits: []*ExpenseSplit{
				{UserID: 1, Amount: 10},
				{UserID: 2, Amount: 40},
			},
		},
	}
	return b, expenses
}

func TestComputeSummary(t *testing.T) {
	b, expenses := summaryFixture()

	s := computeSummary(b, expenses)
	assert.Equal(t, 600.0, s.TotalPlanned)
	assert.Equal(t, 140.0, s.TotalSpent)
	assert.Equal(t, 460.0, s.Remaining)
}

func TestComputeSummaryEmpty(t *testing.T) {
	b, _ := summaryFixture()

	s := computeSummary(b, nil)
	assert.Equal(t, 600.0, s.TotalPlanned)
	assert.Equal(t, 0.0, s.TotalSpent)
	assert.Equal(t, 600.0, s.Remaining)
}

func TestComputeSummaryOverspent(t *testing.T) {
	b := &Budget{Members: []*Member{{UserID: 1, PlannedContribution: 50}}}
	expenses := []*Expense{{Amount: 80, Splits: []*ExpenseSplit{{UserID: 1, Amount: 80}}}}

	s := computeSummary(b, expenses)
	assert.Equal(t, -30.0, s.Remaining, "remaining may go negative")
}

func TestComputeMemberSummaries(t *testing.T) {
	b, expenses := summaryFixture()

	summaries := computeMemberSummaries(b, expenses)
	assert.Len(t, summaries, 3, "past members stay in the breakdown")

	// Roster order is preserved
	assert.Equal(t, int64(1), summaries[0].UserID)
	assert.Equal(t, 300.0, summaries[0].Planned)
	assert.Equal(t, 40.0, summaries[0].Spent)
	assert.Equal(t, 260.0, summaries[0].Remaining)

	assert.Equal(t, int64(2), summaries[1].UserID)
	assert.Equal(t, 70.0, summaries[1].Spent)

	assert.Equal(t, int64(3), summaries[2].UserID)
	assert.Equal(t, 30.0, summaries[2].Spent)
	assert.Equal(t, 70.0, summaries[2].Remaining)
}

func TestComputeMemberSummariesRounding(t *testing.T) {
	b := &Budget{Members: []*Member{
		{UserID: 1, PlannedContribution: 100},
		{UserID: 2, PlannedContribution: 100},
	}}
	// Three equal thirds of 100 landing on the same user across expenses
	expenses := []*Expense{
		{Splits: []*ExpenseSplit{{UserID: 1, Amount: 33.33}}},
		{Splits: []*ExpenseSplit{{UserID: 1, Amount: 33.33}}},
		{Splits: []*ExpenseSplit{{UserID: 1, Amount: 33.34}}},
	}

	summaries := computeMemberSummaries(b, expenses)
	assert.Equal(t, 100.0, summaries[0].Spent)
	assert.Equal(t, 0.0, summaries[0].Remaining)
	assert.Equal(t, 0.0, summaries[1].Spent)
}

func TestMemberSpent(t *testing.T) {
	_, expenses := summaryFixture()

	assert.Equal(t, 40.0, memberSpent(1, expenses))
	assert.Equal(t, 70.0, memberSpent(2, expenses))
	assert.Equal(t, 30.0, memberSpent(3, expenses))
	assert.Equal(t, 0.0, memberSpent(99, expenses))
}

func TestBuildSnapshotIdempotent(t *testing.T) {
	b, expenses := summaryFixture()

	first := buildSnapshot(b, expenses)
	second := buildSnapshot(b, expenses)
	assert.Equal(t, first.Summary, second.Summary)
	assert.Equal(t, first.MemberSummaries, second.MemberSummaries)
	assert.Len(t, first.Expenses, 2)
	assert.Equal(t, b.TripID, first.Budget.TripID)
}
