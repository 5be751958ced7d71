package split

import "math"

// =============================================================================
// PERCENTAGE SPLIT STRATEGY
// Divides the expense based on per-member percentages
// =============================================================================

// PercentageStrategy implements the Strategy interface for percentage splits
type PercentageStrategy struct{}

// Method returns the split method identifier
func (s *PercentageStrategy) Method() Method {
	return MethodPercentage
}

// Compute converts each member's percentage into a money amount. The
// percentages must sum to 100 within a 0.01 tolerance. Each amount is rounded
// to 2 decimals and the rounding remainder is pushed onto the last entry so
// the total equals the expense amount exactly.
func (s *PercentageStrategy) Compute(totalAmount float64, inputs []Input, _ []int64) ([]Entry, error) {
	if totalAmount < 0 {
		return nil, ErrNegativeAmount
	}
	if len(inputs) == 0 {
		return nil, ErrNoSplits
	}

	var totalPercentage float64
	for _, in := range inputs {
		if in.Amount < 0 {
			return nil, ErrNegativeAmount
		}
		totalPercentage += in.Amount
	}
	if math.Abs(totalPercentage-100) > 0.01 {
		return nil, ErrInvalidPercentages
	}

	entries := make([]Entry, len(inputs))
	var distributed float64
	for i, in := range inputs {
		amount := Round(totalAmount * in.Amount / 100)
		entries[i] = Entry{UserID: in.UserID, Amount: amount}
		distributed += amount
	}

	// Remainder goes to the last entry
	if diff := Round(totalAmount - distributed); diff != 0 {
		last := len(entries) - 1
		entries[last].Amount = Round(entries[last].Amount + diff)
	}

	return entries, nil
}
