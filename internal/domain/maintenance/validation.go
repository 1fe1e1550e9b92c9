package maintenance

import "github.com/shopspring/decimal"

func validateCost(cost decimal.Decimal) error {
	if cost.IsNegative() {
		return ErrInvalidInput
	}
	return nil
}

// ValidateForecasts checks every entry before any is applied.
func ValidateForecasts(entries []ForecastEntry) error {
	for _, e := range entries {
		if err := validateCost(e.Cost); err != nil {
			return err
		}
	}
	return nil
}

// ValidateActual checks a single actual entry.
func ValidateActual(e ActualEntry) error {
	return validateCost(e.Cost)
}
