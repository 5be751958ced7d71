package split

// =============================================================================
// EQUAL SPLIT STRATEGY
// Divides the expense evenly among all active budget members
// =============================================================================

// EqualStrategy implements the Strategy interface for equal splits
type EqualStrategy struct{}

// Method returns the split method identifier
func (s *EqualStrategy) Method() Method {
	return MethodEqual
}

// Compute divides the total amount evenly among all active members. Each
// share is rounded to 2 decimals; the leftover cents from rounding go to the
// last member so the total always reconciles exactly.
func (s *EqualStrategy) Compute(totalAmount float64, _ []Input, activeMemberIDs []int64) ([]Entry, error) {
	if totalAmount < 0 {
		return nil, ErrNegativeAmount
	}
	if len(activeMemberIDs) == 0 {
		return nil, ErrNoActiveMembers
	}

	share := Round(totalAmount / float64(len(activeMemberIDs)))

	entries := make([]Entry, len(activeMemberIDs))
	var distributed float64
	for i, userID := range activeMemberIDs {
		entries[i] = Entry{UserID: userID, Amount: share}
		distributed += share
	}

	// Remainder goes to the last member
	if diff := Round(totalAmount - distributed); diff != 0 {
		last := len(entries) - 1
		entries[last].Amount = Round(entries[last].Amount + diff)
	}

	return entries, nil
}
