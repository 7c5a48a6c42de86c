package domain

// TransactionCategory splits transaction types into amounts the tenant owes
// (Outflow) and amounts received against the invoice (Inflow).
type TransactionCategory string

const (
	CategoryOutflow TransactionCategory = "outflow"
	CategoryInflow  TransactionCategory = "inflow"
)

// TransactionType identifies a ledger line's transaction kind.
type TransactionType int

const (
	TransactionTypeDebit TransactionType = iota
	TransactionTypeCharge
	TransactionTypePayment
	TransactionTypeDeposit
	TransactionTypeRefund
	TransactionTypeAdjustment
)

// CategoryEntry maps a transaction type to its display label and sign category.
type CategoryEntry struct {
	Type     TransactionType
	Label    string
	Category TransactionCategory
}

// CategoryTable is the process-wide transaction-type lookup. It is built once
// at wiring time and never mutated afterwards, so concurrent reads are safe.
type CategoryTable struct {
	entries map[TransactionType]CategoryEntry
}

// NewCategoryTable builds the static transaction-type table. Only Payment is
// Inflow; Refund and Adjustment stay Outflow even though some legacy screens
// treated them as payment-like in a fallback path.
func NewCategoryTable() *CategoryTable {
	entries := []CategoryEntry{
		{Type: TransactionTypeDebit, Label: "Debit", Category: CategoryOutflow},
		{Type: TransactionTypeCharge, Label: "Charge", Category: CategoryOutflow},
		{Type: TransactionTypePayment, Label: "Payment", Category: CategoryInflow},
		{Type: TransactionTypeDeposit, Label: "Deposit", Category: CategoryOutflow},
		{Type: TransactionTypeRefund, Label: "Refund", Category: CategoryOutflow},
		{Type: TransactionTypeAdjustment, Label: "Adjustment", Category: CategoryOutflow},
	}

	table := &CategoryTable{entries: make(map[TransactionType]CategoryEntry, len(entries))}
	for _, entry := range entries {
		table.entries[entry.Type] = entry
	}
	return table
}

// Lookup returns the table entry for a transaction type.
func (t *CategoryTable) Lookup(tt TransactionType) (CategoryEntry, bool) {
	entry, ok := t.entries[tt]
	return entry, ok
}

// CategoryOf returns the sign category for a transaction type. Unknown types
// fall back to Outflow, the non-negative convention.
func (t *CategoryTable) CategoryOf(tt TransactionType) TransactionCategory {
	if entry, ok := t.entries[tt]; ok {
		return entry.Category
	}
	return CategoryOutflow
}

// LabelOf returns the display label for a transaction type.
func (t *CategoryTable) LabelOf(tt TransactionType) string {
	if entry, ok := t.entries[tt]; ok {
		return entry.Label
	}
	return ""
}
