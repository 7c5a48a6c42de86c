package domain

import "github.com/bwmarrin/snowflake"

// TakeSnapshot captures the dirty-comparison baseline: a value copy of only
// the compared line fields plus the notes string. Everything else on a line
// (labels, isNew, line numbers) is presentation state and deliberately left
// out of the copy.
func TakeSnapshot(lines []LedgerLine, notes string) Snapshot {
	snap := Snapshot{
		Lines: make([]SnapshotLine, 0, len(lines)),
		Notes: notes,
	}
	for _, line := range lines {
		snap.Lines = append(snap.Lines, SnapshotLine{
			LedgerLineID:      line.LedgerLineID,
			CostCodeID:        line.CostCodeID,
			TransactionTypeID: line.TransactionTypeID,
			Description:       line.Description,
			Amount:            line.Amount,
		})
	}
	return snap
}

// IsDirty compares current state to the snapshot, short-circuiting in order:
// line count, then pairwise field comparison by position, then notes
// (treating empty and unset notes as equivalent). In add mode the snapshot is
// empty, so any line at all makes the state dirty.
func IsDirty(lines []LedgerLine, notes string, snap Snapshot) bool {
	if len(lines) != len(snap.Lines) {
		return true
	}

	for i, line := range lines {
		base := snap.Lines[i]
		if !sameID(line.LedgerLineID, base.LedgerLineID) {
			return true
		}
		if line.CostCodeID != base.CostCodeID {
			return true
		}
		if !sameType(line.TransactionTypeID, base.TransactionTypeID) {
			return true
		}
		if line.Description != base.Description {
			return true
		}
		if !line.Amount.Equal(base.Amount) {
			return true
		}
	}

	return notes != snap.Notes
}

// ResolveAction derives the save-button semantics from session state.
// Payment-entry mode wins, then whether the invoice exists, then dirtiness.
// View means activation is "proceed", not "save".
func ResolveAction(persisted, dirty, paymentEntry bool) Action {
	switch {
	case paymentEntry:
		return ActionApply
	case !persisted:
		return ActionCreate
	case dirty:
		return ActionModify
	default:
		return ActionView
	}
}

func sameID(a, b *snowflake.ID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func sameType(a, b *TransactionType) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
