package actions

import (
	"context"
	"errors"
	"fmt"

	"github.com/carson-networks/finance-ledger/internal/ledgererr"
	"github.com/carson-networks/finance-ledger/internal/storage"
	"github.com/carson-networks/finance-ledger/internal/storage/account"
	"github.com/carson-networks/finance-ledger/internal/storage/transaction"
)

// findCounterpart returns the other side of a transfer, or nil.
//
// A stored link is followed first. Rows categorised as transfers without a
// link fall back to an unlinked transfer in another account carrying the same
// notes. When that search finds more than one row, the single one whose
// amount negates tx wins; otherwise nothing is returned and the ambiguity is
// reported in note. With relink set, a fallback match is linked on both sides.
func findCounterpart(ctx context.Context, writer *storage.Writer, tx *transaction.Transaction, relink bool) (cp *transaction.Transaction, note string, err error) {
	if tx.LinkedTxID != nil {
		cp, err = writer.Transaction.FindByID(ctx, *tx.LinkedTxID)
		if errors.Is(err, ledgererr.ErrNotFound) {
			return nil, fmt.Sprintf("transaction %d links to missing transaction %d", tx.ID, *tx.LinkedTxID), nil
		}
		return cp, "", err
	}

	if !tx.IsTransfer() || tx.Notes == nil {
		return nil, "", nil
	}

	candidates, err := writer.Transaction.FindTransferCandidates(ctx, *tx.Notes, tx.AccountID, tx.ID)
	if err != nil {
		return nil, "", err
	}

	switch len(candidates) {
	case 0:
		return nil, "", nil
	case 1:
		cp = candidates[0]
	default:
		var negating []*transaction.Transaction
		for _, c := range candidates {
			if c.Amount.Equal(tx.Amount.Neg()) {
				negating = append(negating, c)
			}
		}
		if len(negating) != 1 {
			return nil, fmt.Sprintf("transaction %d has %d possible transfer counterparts", tx.ID, len(candidates)), nil
		}
		cp = negating[0]
	}

	if relink {
		if err = writer.Transaction.SetLinked(ctx, tx.ID, int64Ptr(cp.ID)); err != nil {
			return nil, "", err
		}
		if err = writer.Transaction.SetLinked(ctx, cp.ID, int64Ptr(tx.ID)); err != nil {
			return nil, "", err
		}
		tx.LinkedTxID = int64Ptr(cp.ID)
		cp.LinkedTxID = int64Ptr(tx.ID)
	}
	return cp, "", nil
}

// moveBalance applies the balance effect of a row changing from old to next.
// A nil old means the row is new; a nil next means it is gone.
func moveBalance(ctx context.Context, writer *storage.Writer, old, next *transaction.Transaction) error {
	switch {
	case old == nil:
		return writer.Account.AddToBalance(ctx, next.AccountID, next.Amount)
	case next == nil:
		return writer.Account.AddToBalance(ctx, old.AccountID, old.Amount.Neg())
	case old.AccountID == next.AccountID:
		return writer.Account.AddToBalance(ctx, next.AccountID, next.Amount.Sub(old.Amount))
	}
	if err := writer.Account.AddToBalance(ctx, old.AccountID, old.Amount.Neg()); err != nil {
		return err
	}
	return writer.Account.AddToBalance(ctx, next.AccountID, next.Amount)
}

// requireAccount is FindByID with the error a dangling account reference gets.
func requireAccount(ctx context.Context, writer *storage.Writer, id int64) (*account.Account, error) {
	acc, err := writer.Account.FindByID(ctx, id)
	if errors.Is(err, ledgererr.ErrNotFound) {
		return nil, ledgererr.UnknownAccount(id)
	}
	return acc, err
}
