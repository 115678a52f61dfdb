package actions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-ledger/internal/ledgererr"
	"github.com/carson-networks/finance-ledger/internal/storage"
	"github.com/carson-networks/finance-ledger/internal/storage/transaction"
)

const CategoryInvestment = "Investment"

type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

func ParseSide(s string) (Side, bool) {
	switch Side(strings.ToLower(strings.TrimSpace(s))) {
	case SideBuy:
		return SideBuy, true
	case SideSell:
		return SideSell, true
	}
	return "", false
}

// InvestmentInput describes a trade. Shares is the unsigned quantity; the
// stored share count is negative for sells.
type InvestmentInput struct {
	AccountID     int64
	Date          string
	Side          Side
	Ticker        string
	Shares        decimal.Decimal
	PricePerShare decimal.Decimal
	Fee           decimal.Decimal
	Notes         *string
	Currency      *string
}

// row derives the stored transaction. Buys cost shares*price plus the fee;
// sells return shares*price less the fee.
func (in *InvestmentInput) row() (*transaction.Transaction, error) {
	ticker := strings.ToUpper(strings.TrimSpace(in.Ticker))
	switch {
	case normalizeName(in.Date) == "":
		return nil, ledgererr.Validation("transaction date must not be empty")
	case ticker == "":
		return nil, ledgererr.Validation("ticker must not be empty")
	case !in.Shares.IsPositive():
		return nil, ledgererr.Validation("shares must be positive")
	case in.PricePerShare.IsNegative():
		return nil, ledgererr.Validation("price per share must not be negative")
	case in.Fee.IsNegative():
		return nil, ledgererr.Validation("fee must not be negative")
	}
	code, err := normalizeCurrency(in.Currency)
	if err != nil {
		return nil, err
	}

	gross := in.Shares.Mul(in.PricePerShare)
	var amount, shares decimal.Decimal
	var payee, verb string
	switch in.Side {
	case SideBuy:
		amount, shares, payee, verb = gross.Add(in.Fee).Neg(), in.Shares, "Buy", "Bought"
	case SideSell:
		amount, shares, payee, verb = gross.Sub(in.Fee), in.Shares.Neg(), "Sell", "Sold"
	default:
		return nil, ledgererr.Validation("side must be buy or sell, got %q", in.Side)
	}

	notes := in.Notes
	if notes == nil || normalizeName(*notes) == "" {
		notes = strPtr(fmt.Sprintf("%s %s shares of %s", verb, in.Shares.String(), ticker))
	}

	return &transaction.Transaction{
		AccountID:     in.AccountID,
		Date:          in.Date,
		Payee:         payee,
		Notes:         notes,
		Category:      strPtr(CategoryInvestment),
		Amount:        amount,
		Ticker:        &ticker,
		Shares:        decimal.NewNullDecimal(shares),
		PricePerShare: decimal.NewNullDecimal(in.PricePerShare),
		Fee:           decimal.NewNullDecimal(in.Fee),
		Currency:      code,
	}, nil
}

// CreateInvestment records a buy or sell. Investments skip the rules and
// never become transfers.
type CreateInvestment struct {
	InvestmentInput

	Transaction *transaction.Transaction
}

func (c *CreateInvestment) Perform(ctx context.Context, writer *storage.Writer) error {
	row, err := c.row()
	if err != nil {
		return err
	}
	if _, err = requireAccount(ctx, writer, c.AccountID); err != nil {
		return err
	}

	if row.ID, err = writer.Transaction.Insert(ctx, row); err != nil {
		return err
	}
	if err = moveBalance(ctx, writer, nil, row); err != nil {
		return err
	}
	c.Transaction = row
	return nil
}

type UpdateInvestment struct {
	ID int64
	InvestmentInput

	Transaction *transaction.Transaction
}

func (u *UpdateInvestment) Perform(ctx context.Context, writer *storage.Writer) error {
	next, err := u.row()
	if err != nil {
		return err
	}
	old, err := writer.Transaction.FindByID(ctx, u.ID)
	if err != nil {
		return err
	}
	if _, err = requireAccount(ctx, writer, u.AccountID); err != nil {
		return err
	}

	// An investment is never a transfer, so any existing link is dropped on
	// both sides and the former mirror stays as a plain entry.
	if old.LinkedTxID != nil {
		err = writer.Transaction.SetLinked(ctx, *old.LinkedTxID, nil)
		if err != nil && !errors.Is(err, ledgererr.ErrNotFound) {
			return err
		}
	}
	next.ID = old.ID
	if err = writer.Transaction.Update(ctx, next); err != nil {
		return err
	}
	if err = moveBalance(ctx, writer, old, next); err != nil {
		return err
	}
	u.Transaction = next
	return nil
}
