package split

// =============================================================================
// CUSTOM SPLIT STRATEGY
// Caller supplies explicit per-member amounts
// =============================================================================

// CustomStrategy implements the Strategy interface for custom amount splits
type CustomStrategy struct{}

// Method returns the split method identifier
func (s *CustomStrategy) Method() Method {
	return MethodCustom
}

// Compute passes the supplied amounts through (rounded), with no
// redistribution. Whether they actually sum to the expense amount is checked
// afterward by ValidateEntries.
func (s *CustomStrategy) Compute(totalAmount float64, inputs []Input, _ []int64) ([]Entry, error) {
	if totalAmount < 0 {
		return nil, ErrNegativeAmount
	}
	if len(inputs) == 0 {
		return nil, ErrNoSplits
	}

	entries := make([]Entry, len(inputs))
	for i, in := range inputs {
		if in.Amount < 0 {
			return nil, ErrNegativeAmount
		}
		entries[i] = Entry{UserID: in.UserID, Amount: Round(in.Amount)}
	}

	return entries, nil
}
