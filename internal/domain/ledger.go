package domain

import "context"

// LedgerPort is the external custody/settlement collaborator. Every call is
// atomic on the ledger side and reports failure without partial effect.
type LedgerPort interface {
	Deposit(ctx context.Context, accountID, payerID string, amount int64) error
	Transfer(ctx context.Context, accountID, toID string, amount int64) error
}
