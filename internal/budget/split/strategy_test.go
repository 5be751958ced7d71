package split

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEqualStrategy(t *testing.T) {
	s := &EqualStrategy{}

	t.Run("remainder goes to the last member", func(t *testing.T) {
		entries, err := s.Compute(100.00, nil, []int64{1, 2, 3})
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, 33.33, entries[0].Amount)
		assert.Equal(t, 33.33, entries[1].Amount)
		assert.Equal(t, 33.34, entries[2].Amount)
	})

	t.Run("single member takes everything", func(t *testing.T) {
		entries, err := s.Compute(59.99, nil, []int64{7})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, 59.99, entries[0].Amount)
	})

	t.Run("zero amount", func(t *testing.T) {
		entries, err := s.Compute(0, nil, []int64{1, 2})
		require.NoError(t, err)
		assert.Equal(t, 0.0, entries[0].Amount)
		assert.Equal(t, 0.0, entries[1].Amount)
	})

	t.Run("no active members fails", func(t *testing.T) {
		_, err := s.Compute(100, nil, nil)
		assert.ErrorIs(t, err, ErrNoActiveMembers)
	})

	t.Run("negative amount fails", func(t *testing.T) {
		_, err := s.Compute(-1, nil, []int64{1})
		assert.ErrorIs(t, err, ErrNegativeAmount)
	})
}

func TestPercentageStrategy(t *testing.T) {
	s := &PercentageStrategy{}

	t.Run("rounding remainder keeps the total exact", func(t *testing.T) {
		entries, err := s.Compute(99.99, []Input{
			{UserID: 1, Amount: 60},
			{UserID: 2, Amount: 40},
		}, nil)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, 59.99, entries[0].Amount)
		assert.Equal(t, 40.00, entries[1].Amount)
		assert.Equal(t, 99.99, entries[0].Amount+entries[1].Amount)
	})

	t.Run("percentages must sum to 100", func(t *testing.T) {
		_, err := s.Compute(100, []Input{
			{UserID: 1, Amount: 50},
			{UserID: 2, Amount: 40},
		}, nil)
		assert.ErrorIs(t, err, ErrInvalidPercentages)
	})

	t.Run("small tolerance is absorbed", func(t *testing.T) {
		_, err := s.Compute(100, []Input{
			{UserID: 1, Amount: 33.33},
			{UserID: 2, Amount: 33.33},
			{UserID: 3, Amount: 33.34},
		}, nil)
		assert.NoError(t, err)
	})

	t.Run("no entries fails", func(t *testing.T) {
		_, err := s.Compute(100, nil, nil)
		assert.ErrorIs(t, err, ErrNoSplits)
	})

	t.Run("negative percentage fails", func(t *testing.T) {
		_, err := s.Compute(100, []Input{
			{UserID: 1, Amount: -10},
			{UserID: 2, Amount: 110},
		}, nil)
		assert.ErrorIs(t, err, ErrNegativeAmount)
	})
}

func TestCustomStrategy(t *testing.T) {
	s := &CustomStrategy{}

	t.Run("passes amounts through rounded", func(t *testing.T) {
		entries, err := s.Compute(100, []Input{
			{UserID: 1, Amount: 60.006},
			{UserID: 2, Amount: 39.99},
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, 60.01, entries[0].Amount)
		assert.Equal(t, 39.99, entries[1].Amount)
	})

	t.Run("does not redistribute", func(t *testing.T) {
		// Mismatched totals pass through; ValidateEntries catches them later
		entries, err := s.Compute(100, []Input{
			{UserID: 1, Amount: 40},
			{UserID: 2, Amount: 50},
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, 40.0, entries[0].Amount)
		assert.Equal(t, 50.0, entries[1].Amount)
	})

	t.Run("negative amount fails", func(t *testing.T) {
		_, err := s.Compute(100, []Input{{UserID: 1, Amount: -5}}, nil)
		assert.ErrorIs(t, err, ErrNegativeAmount)
	})
}

func TestSplitConservation(t *testing.T) {
	// For any amount and member count, computed splits sum to the amount
	// exactly after rounding.
	amounts := []float64{0, 0.01, 0.10, 1, 10, 99.99, 100, 123.45, 1000.01}
	equal := &EqualStrategy{}

	for _, amount := range amounts {
		for n := 1; n <= 7; n++ {
			members := make([]int64, n)
			for i := range members {
				members[i] = int64(i + 1)
			}

			entries, err := equal.Compute(amount, nil, members)
			require.NoError(t, err)

			var sum float64
			for _, e := range entries {
				sum += e.Amount
			}
			assert.InDelta(t, amount, sum, 0.001, "amount=%v members=%d", amount, n)
		}
	}
}

func TestValidateEntries(t *testing.T) {
	members := map[int64]bool{1: true, 2: true}

	t.Run("valid set passes", func(t *testing.T) {
		err := ValidateEntries([]Entry{
			{UserID: 1, Amount: 60},
			{UserID: 2, Amount: 40},
		}, 100, members)
		assert.NoError(t, err)
	})

	t.Run("custom split not summing is rejected", func(t *testing.T) {
		err := ValidateEntries([]Entry{
			{UserID: 1, Amount: 40},
			{UserID: 2, Amount: 50},
		}, 100, members)
		assert.ErrorIs(t, err, ErrSplitsMismatch)
	})

	t.Run("empty set is rejected", func(t *testing.T) {
		err := ValidateEntries(nil, 100, members)
		assert.ErrorIs(t, err, ErrNoSplits)
	})

	t.Run("unknown member is rejected", func(t *testing.T) {
		err := ValidateEntries([]Entry{{UserID: 9, Amount: 100}}, 100, members)
		assert.ErrorIs(t, err, ErrUnknownMember)
	})

	t.Run("invalid user id is rejected", func(t *testing.T) {
		err := ValidateEntries([]Entry{{UserID: 0, Amount: 100}}, 100, members)
		assert.ErrorIs(t, err, ErrInvalidUserID)
	})

	t.Run("negative amount is rejected", func(t *testing.T) {
		err := ValidateEntries([]Entry{
			{UserID: 1, Amount: -10},
			{UserID: 2, Amount: 110},
		}, 100, members)
		assert.ErrorIs(t, err, ErrNegativeAmount)
	})

	t.Run("0.01 tolerance is allowed", func(t *testing.T) {
		err := ValidateEntries([]Entry{
			{UserID: 1, Amount: 50.00},
			{UserID: 2, Amount: 49.99},
		}, 100, members)
		assert.NoError(t, err)
	})
}

func TestFactory(t *testing.T) {
	f := NewFactory()

	for _, method := range []Method{MethodEqual, MethodCustom, MethodPercentage} {
		s, err := f.Create(method)
		require.NoError(t, err)
		assert.Equal(t, method, s.Method())
	}

	_, err := f.Create(Method("SOMETHING"))
	assert.Error(t, err)
}

func TestRound(t *testing.T) {
	assert.Equal(t, 33.33, Round(33.333333))
	assert.Equal(t, 66.67, Round(66.666666))
	assert.Equal(t, 0.0, Round(0))
	assert.Equal(t, -1.5, Round(-1.499))
}
