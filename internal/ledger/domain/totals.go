package domain

// ComputeTotals aggregates a line collection into invoiced, paid and due
// amounts. Pure: no side effects, safe to call on every edit, and an empty
// collection yields zeros. Due is not floored at zero; a negative due is an
// overpayment the credit transfer resolver acts on.
func ComputeTotals(table *CategoryTable, lines []LedgerLine) Totals {
	totals := Totals{}
	for _, line := range lines {
		if line.TransactionTypeID == nil {
			continue
		}
		if table.CategoryOf(*line.TransactionTypeID) == CategoryInflow {
			totals.Paid = totals.Paid.Add(line.Amount.Abs())
		} else {
			totals.Invoiced = totals.Invoiced.Add(line.Amount.Abs())
		}
	}
	totals.Due = totals.Invoiced.Sub(totals.Paid)
	return totals
}
