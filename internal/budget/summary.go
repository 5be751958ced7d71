package budget

import "github.com/triplogue/backend/internal/budget/split"

// computeSummary sums all members' planned contributions and all expense
// amounts. Every value passes through rounding so snapshot comparisons are
// exact to the cent.
func computeSummary(b *Budget, expenses []*Expense) *Summary {
	var planned, spent float64
	for _, m := range b.Members {
		planned += m.PlannedContribution
	}
	for _, e := range expenses {
		spent += e.Amount
	}

	planned = split.Round(planned)
	spent = split.Round(spent)
	return &Summary{
		TotalPlanned: planned,
		TotalSpent:   spent,
		Remaining:    split.Round(planned - spent),
	}
}

// computeMemberSummaries unwinds every expense's splits, accumulates spend
// per user, and pairs it with that member's planned contribution. Members
// appear in roster order, past members included.
func computeMemberSummaries(b *Budget, expenses []*Expense) []*MemberSummary {
	spentBy := make(map[int64]float64, len(b.Members))
	for _, e := range expenses {
		for _, s := range e.Splits {
			spentBy[s.UserID] += s.Amount
		}
	}

	summaries := make([]*MemberSummary, len(b.Members))
	for i, m := range b.Members {
		planned := split.Round(m.PlannedContribution)
		spent := split.Round(spentBy[m.UserID])
		summaries[i] = &MemberSummary{
			UserID:    m.UserID,
			Planned:   planned,
			Spent:     spent,
			Remaining: split.Round(planned - spent),
		}
	}
	return summaries
}

// memberSpent returns one member's accumulated share across all expenses
func memberSpent(userID int64, expenses []*Expense) float64 {
	var total float64
	for _, e := range expenses {
		if s := e.SplitFor(userID); s != nil {
			total += s.Amount
		}
	}
	return split.Round(total)
}

// buildSnapshot assembles the full derived view for a budget
func buildSnapshot(b *Budget, expenses []*Expense) *Snapshot {
	expenseResponses := make([]*ExpenseResponse, len(expenses))
	for i, e := range expenses {
		expenseResponses[i] = e.ToResponse()
	}
	return &Snapshot{
		Budget:          b.ToResponse(),
		Expenses:        expenseResponses,
		Summary:         computeSummary(b, expenses),
		MemberSummaries: computeMemberSummaries(b, expenses),
	}
}
