package budget

import (
	"time"

	"github.com/triplogue/backend/internal/budget/split"
	"github.com/triplogue/backend/pkg/apperr"
)

const dateLayout = "2006-01-02"

// validateID checks that an identifier is syntactically valid
func validateID(id int64, what string) error {
	if id <= 0 {
		return apperr.Validation("invalid %s", what)
	}
	return nil
}

// validateAmount checks that a money amount is non-negative
func validateAmount(amount float64, what string) error {
	if amount < 0 {
		return apperr.Validation("%s cannot be negative", what)
	}
	return nil
}

// validateCurrency checks a 3-letter uppercase currency code
func validateCurrency(code string) error {
	if len(code) != 3 {
		return apperr.Validation("currency must be a 3-letter code")
	}
	for _, c := range code {
		if c < 'A' || c > 'Z' {
			return apperr.Validation("currency must be a 3-letter uppercase code")
		}
	}
	return nil
}

// validateSplitMethod checks that the method is one of the known strategies
func validateSplitMethod(method split.Method) error {
	if !method.IsValid() {
		return apperr.Validation("invalid split method: %s", method)
	}
	return nil
}

// parseDate parses an ISO date, defaulting to today when empty
func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Now().UTC().Truncate(24 * time.Hour), nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, apperr.Validation("invalid date %q, expected YYYY-MM-DD", value)
	}
	return t, nil
}

// validationErr converts a split engine error into a tagged validation error
func validationErr(err error) error {
	return apperr.Wrap(apperr.KindValidation, err.Error(), err)
}
