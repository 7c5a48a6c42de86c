package domain

// Normalize forces a line's stored amount sign to match its category:
// Outflow lines carry non-negative amounts, Inflow lines non-positive.
// Magnitude is always preserved and the operation is idempotent; a line with
// no transaction type yet is returned untouched.
func Normalize(table *CategoryTable, line LedgerLine) LedgerLine {
	if line.TransactionTypeID == nil {
		return line
	}

	switch table.CategoryOf(*line.TransactionTypeID) {
	case CategoryInflow:
		if line.Amount.Sign() > 0 {
			line.Amount = line.Amount.Neg()
		}
	default:
		if line.Amount.Sign() < 0 {
			line.Amount = line.Amount.Abs()
		}
	}
	return line
}

// NormalizeAll applies Normalize to every line. It is the bulk pass run once
// after an invoice load or a period regeneration maps raw records.
func NormalizeAll(table *CategoryTable, lines []LedgerLine) []LedgerLine {
	for i := range lines {
		lines[i] = Normalize(table, lines[i])
	}
	return lines
}
