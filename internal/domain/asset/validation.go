package asset

// ValidateFields rejects values that have no physical meaning.
func ValidateFields(f Fields) error {
	if f.Quantity < 0 || f.ExpectedLife < 0 {
		return ErrInvalidInput
	}
	if f.PurchasePrice.IsNegative() {
		return ErrInvalidInput
	}
	return nil
}
