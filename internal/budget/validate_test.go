package budget

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/triplogue/backend/internal/budget/split"
	"github.com/triplogue/backend/pkg/apperr"
)

func TestValidateID(t *testing.T) {
	assert.NoError(t, validateID(1, "trip ID"))
	assert.Error(t, validateID(0, "trip ID"))
	assert.Error(t, validateID(-5, "user ID"))
	assert.True(t, apperr.IsKind(validateID(0, "trip ID"), apperr.KindValidation))
}

func TestValidateAmount(t *testing.T) {
	assert.NoError(t, validateAmount(0, "amount"))
	assert.NoError(t, validateAmount(10.50, "amount"))
	assert.True(t, apperr.IsKind(validateAmount(-0.01, "amount"), apperr.KindValidation))
}

func TestValidateCurrency(t *testing.T) {
	assert.NoError(t, validateCurrency("EUR"))
	assert.NoError(t, validateCurrency("USD"))
	assert.Error(t, validateCurrency("EU"))
	assert.Error(t, validateCurrency("EURO"))
	assert.Error(t, validateCurrency("eur"))
	assert.Error(t, validateCurrency("E1R"))
	assert.Error(t, validateCurrency(""))
}

func TestValidateSplitMethod(t *testing.T) {
	assert.NoError(t, validateSplitMethod(split.MethodEqual))
	assert.NoError(t, validateSplitMethod(split.MethodCustom))
	assert.NoError(t, validateSplitMethod(split.MethodPercentage))
	assert.Error(t, validateSplitMethod(split.Method("HALVES")))
	assert.Error(t, validateSplitMethod(split.Method("")))
}

func TestParseDate(t *testing.T) {
	d, err := parseDate("2026-03-15")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), d)

	_, err = parseDate("15/03/2026")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = parseDate("2026-13-40")
	assert.Error(t, err)

	today, err := parseDate("")
	assert.NoError(t, err)
	assert.False(t, today.IsZero())
}

func TestValidationErr(t *testing.T) {
	wrapped := validationErr(split.ErrSplitsMismatch)
	assert.True(t, apperr.IsKind(wrapped, apperr.KindValidation))
	assert.ErrorIs(t, wrapped, split.ErrSplitsMismatch)
}
