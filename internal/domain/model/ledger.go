package model

import "time"

// LedgerKind classifies a single balance change. The kind is stored
// explicitly rather than derived from the delta sign so the audit trail
// stays meaningful if new kinds are added later.
type LedgerKind string

const (
	LedgerKindManualAdd LedgerKind = "MANUAL_ADD"
	LedgerKindManualSub LedgerKind = "MANUAL_SUB"
	LedgerKindRedeem    LedgerKind = "REDEEM"
	LedgerKindRefund    LedgerKind = "REFUND"
)

// OperatorSystem marks ledger entries written by the service itself rather
// than by a named administrator.
const OperatorSystem = "SYSTEM"

// LedgerEntry is one immutable record of a balance change. Entries are never
// updated or deleted; replaying a user's entries in creation order reproduces
// the current balance.
type LedgerEntry struct {
	ID           int64
	OpenID       string
	Delta        int64
	BalanceAfter int64
	Kind         LedgerKind
	Reason       string
	Operator     string
	RefID        *string
	CreatedAt    time.Time
}
