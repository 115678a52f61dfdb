package actions

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-ledger/internal/ledgererr"
	"github.com/carson-networks/finance-ledger/internal/rules"
	"github.com/carson-networks/finance-ledger/internal/storage"
	"github.com/carson-networks/finance-ledger/internal/storage/transaction"
)

// TransactionInput is the user-editable part of a transaction.
type TransactionInput struct {
	AccountID int64
	Date      string
	Payee     string
	Notes     *string
	Category  *string
	Amount    decimal.Decimal
	Currency  *string

	Ticker        *string
	Shares        decimal.NullDecimal
	PricePerShare decimal.NullDecimal
	Fee           decimal.NullDecimal
}

func (in *TransactionInput) validate() error {
	if normalizeName(in.Date) == "" {
		return ledgererr.Validation("transaction date must not be empty")
	}
	code, err := normalizeCurrency(in.Currency)
	if err != nil {
		return err
	}
	in.Currency = code
	return nil
}

// CreateTransaction runs the rules over the input, then records it. When the
// resulting payee is exactly another account's name the entry becomes a
// transfer and a linked mirror row is written into that account.
type CreateTransaction struct {
	TransactionInput

	Transaction *transaction.Transaction
	Counterpart *transaction.Transaction
	Warnings    []rules.Warning
}

func (c *CreateTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	if err := c.validate(); err != nil {
		return err
	}
	source, err := requireAccount(ctx, writer, c.AccountID)
	if err != nil {
		return err
	}

	ruleSet, err := writer.Rule.List(ctx)
	if err != nil {
		return err
	}
	draft := &rules.Draft{
		Date:     c.Date,
		Payee:    c.Payee,
		Notes:    c.Notes,
		Category: c.Category,
		Amount:   c.Amount,
		Currency: c.Currency,
		Ticker:   c.Ticker,
	}
	c.Warnings = rules.Apply(draft, ruleSet)

	target, err := writer.Account.FindOtherByName(ctx, draft.Payee, source.ID)
	if err != nil {
		return err
	}

	primary := &transaction.Transaction{
		AccountID:     source.ID,
		Date:          c.Date,
		Payee:         draft.Payee,
		Notes:         draft.Notes,
		Category:      draft.Category,
		Amount:        c.Amount,
		Ticker:        c.Ticker,
		Shares:        c.Shares,
		PricePerShare: c.PricePerShare,
		Fee:           c.Fee,
		Currency:      c.Currency,
	}
	if target != nil {
		primary.Category = strPtr(transaction.CategoryTransfer)
	}

	if primary.ID, err = writer.Transaction.Insert(ctx, primary); err != nil {
		return err
	}
	if err = moveBalance(ctx, writer, nil, primary); err != nil {
		return err
	}
	c.Transaction = primary

	if target == nil {
		return nil
	}

	mirror := &transaction.Transaction{
		AccountID:  target.ID,
		Date:       primary.Date,
		Payee:      source.Name,
		Notes:      primary.Notes,
		Category:   strPtr(transaction.CategoryTransfer),
		Amount:     primary.Amount.Neg(),
		Currency:   primary.Currency,
		LinkedTxID: int64Ptr(primary.ID),
	}
	if mirror.ID, err = writer.Transaction.Insert(ctx, mirror); err != nil {
		return err
	}
	if err = writer.Transaction.SetLinked(ctx, primary.ID, int64Ptr(mirror.ID)); err != nil {
		return err
	}
	primary.LinkedTxID = int64Ptr(mirror.ID)
	if err = moveBalance(ctx, writer, nil, mirror); err != nil {
		return err
	}
	c.Counterpart = mirror
	return nil
}

// UpdateTransaction rewrites a transaction, moving it between accounts if
// AccountID changed, and mirrors the edit onto its transfer counterpart.
type UpdateTransaction struct {
	ID int64
	TransactionInput

	Transaction *transaction.Transaction
	Counterpart *transaction.Transaction
	Note        string
}

func (u *UpdateTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	if err := u.validate(); err != nil {
		return err
	}
	old, err := writer.Transaction.FindByID(ctx, u.ID)
	if err != nil {
		return err
	}
	target, err := requireAccount(ctx, writer, u.AccountID)
	if err != nil {
		return err
	}

	cp, note, err := findCounterpart(ctx, writer, old, true)
	if err != nil {
		return err
	}
	u.Note = note

	next := *old
	next.AccountID = u.AccountID
	next.Date = u.Date
	next.Payee = u.Payee
	next.Notes = u.Notes
	next.Category = u.Category
	next.Amount = u.Amount
	next.Currency = u.Currency
	if u.Ticker != nil {
		next.Ticker = u.Ticker
	}
	if u.Shares.Valid {
		next.Shares = u.Shares
	}
	if u.PricePerShare.Valid {
		next.PricePerShare = u.PricePerShare
	}
	if u.Fee.Valid {
		next.Fee = u.Fee
	}

	if err = writer.Transaction.Update(ctx, &next); err != nil {
		return err
	}
	if err = moveBalance(ctx, writer, old, &next); err != nil {
		return err
	}
	u.Transaction = &next

	if cp == nil {
		return nil
	}

	mirrored := *cp
	mirrored.Date = next.Date
	mirrored.Payee = target.Name
	mirrored.Notes = next.Notes
	mirrored.Category = strPtr(transaction.CategoryTransfer)
	mirrored.Amount = next.Amount.Neg()
	mirrored.Currency = next.Currency
	if err = writer.Transaction.Update(ctx, &mirrored); err != nil {
		return err
	}
	if err = moveBalance(ctx, writer, cp, &mirrored); err != nil {
		return err
	}
	u.Counterpart = &mirrored
	return nil
}

// DeleteTransaction removes a transaction and its transfer counterpart,
// reversing both from their accounts' balances.
type DeleteTransaction struct {
	ID int64

	Deleted []int64
	Note    string
}

func (d *DeleteTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	tx, err := writer.Transaction.FindByID(ctx, d.ID)
	if err != nil {
		return err
	}
	cp, note, err := findCounterpart(ctx, writer, tx, false)
	if err != nil {
		return err
	}
	d.Note = note

	for _, row := range []*transaction.Transaction{tx, cp} {
		if row == nil {
			continue
		}
		if err = writer.Transaction.Delete(ctx, row.ID); err != nil {
			return err
		}
		if err = moveBalance(ctx, writer, row, nil); err != nil {
			return err
		}
		d.Deleted = append(d.Deleted, row.ID)
	}
	return nil
}
