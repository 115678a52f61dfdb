package actions

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-ledger/internal/currency"
	"github.com/carson-networks/finance-ledger/internal/ledgererr"
	"github.com/carson-networks/finance-ledger/internal/storage"
	"github.com/carson-networks/finance-ledger/internal/storage/account"
	"github.com/carson-networks/finance-ledger/internal/storage/transaction"
)

const (
	OpeningBalancePayee    = "Opening Balance"
	OpeningBalanceNotes    = "Initial Balance"
	OpeningBalanceCategory = "Income"
)

// CreateAccount inserts an account and, for a non-zero initial balance, the
// opening-balance transaction that accounts for it.
type CreateAccount struct {
	Name           string
	InitialBalance decimal.Decimal
	Currency       *string
	// Date of the opening transaction; today when empty.
	Date string

	Account *account.Account
	Opening *transaction.Transaction
}

func (c *CreateAccount) Perform(ctx context.Context, writer *storage.Writer) error {
	name, err := checkName(ctx, writer, c.Name, 0)
	if err != nil {
		return err
	}
	code, err := normalizeCurrency(c.Currency)
	if err != nil {
		return err
	}

	id, err := writer.Account.Insert(ctx, &account.AccountCreate{
		Name:     name,
		Balance:  c.InitialBalance,
		Currency: code,
	})
	if err != nil {
		return err
	}

	if !c.InitialBalance.IsZero() {
		date := c.Date
		if date == "" {
			date = today()
		}
		opening := &transaction.Transaction{
			AccountID: id,
			Date:      date,
			Payee:     OpeningBalancePayee,
			Notes:     strPtr(OpeningBalanceNotes),
			Category:  strPtr(OpeningBalanceCategory),
			Amount:    c.InitialBalance,
			Currency:  code,
		}
		opening.ID, err = writer.Transaction.Insert(ctx, opening)
		if err != nil {
			return err
		}
		c.Opening = opening
	}

	c.Account, err = writer.Account.FindByID(ctx, id)
	return err
}

// UpdateAccount replaces an account's name and currency.
type UpdateAccount struct {
	ID       int64
	Name     string
	Currency *string

	Account *account.Account
}

func (u *UpdateAccount) Perform(ctx context.Context, writer *storage.Writer) error {
	if _, err := writer.Account.FindByID(ctx, u.ID); err != nil {
		return err
	}
	name, err := checkName(ctx, writer, u.Name, u.ID)
	if err != nil {
		return err
	}
	code, err := normalizeCurrency(u.Currency)
	if err != nil {
		return err
	}

	if err = writer.Account.Update(ctx, u.ID, &account.AccountUpdate{Name: name, Currency: code}); err != nil {
		return err
	}
	u.Account, err = writer.Account.FindByID(ctx, u.ID)
	return err
}

// RenameAccount changes only the name.
type RenameAccount struct {
	ID   int64
	Name string

	Account *account.Account
}

func (r *RenameAccount) Perform(ctx context.Context, writer *storage.Writer) error {
	existing, err := writer.Account.FindByID(ctx, r.ID)
	if err != nil {
		return err
	}
	update := &UpdateAccount{ID: r.ID, Name: r.Name, Currency: existing.Currency}
	if err = update.Perform(ctx, writer); err != nil {
		return err
	}
	r.Account = update.Account
	return nil
}

// DeleteAccount removes an account and every transaction it owns. Transfer
// counterparts in other accounts survive unlinked. A missing id is a no-op.
type DeleteAccount struct {
	ID int64

	Deleted        bool
	RemovedEntries int64
}

func (d *DeleteAccount) Perform(ctx context.Context, writer *storage.Writer) error {
	_, err := writer.Account.FindByID(ctx, d.ID)
	if errors.Is(err, ledgererr.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if err = writer.Transaction.ClearLinksInto(ctx, d.ID); err != nil {
		return err
	}
	if d.RemovedEntries, err = writer.Transaction.DeleteByAccount(ctx, d.ID); err != nil {
		return err
	}
	if err = writer.Account.Delete(ctx, d.ID); err != nil {
		return err
	}
	d.Deleted = true
	return nil
}

func checkName(ctx context.Context, writer *storage.Writer, raw string, selfID int64) (string, error) {
	name := normalizeName(raw)
	if name == "" {
		return "", ledgererr.Validation("account name must not be empty")
	}
	taken, err := writer.Account.NameTaken(ctx, name, selfID)
	if err != nil {
		return "", err
	}
	if taken {
		return "", ledgererr.DuplicateName(name)
	}
	return name, nil
}

func normalizeCurrency(code *string) (*string, error) {
	if code == nil || normalizeName(*code) == "" {
		return nil, nil
	}
	normalized, ok := currency.NormalizeCode(*code)
	if !ok {
		return nil, ledgererr.Validation("unknown currency %q", *code)
	}
	return &normalized, nil
}
