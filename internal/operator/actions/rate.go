package actions

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-ledger/internal/currency"
	"github.com/carson-networks/finance-ledger/internal/ledgererr"
	"github.com/carson-networks/finance-ledger/internal/storage"
)

// SetCustomRate overrides a currency's rate to USD.
type SetCustomRate struct {
	Currency string
	Rate     decimal.Decimal
}

func (s *SetCustomRate) Perform(ctx context.Context, writer *storage.Writer) error {
	code, ok := currency.NormalizeCode(s.Currency)
	if !ok {
		return ledgererr.Validation("unknown currency %q", s.Currency)
	}
	if !s.Rate.IsPositive() {
		return ledgererr.Validation("rate must be positive")
	}
	s.Currency = code
	return writer.Rate.Set(ctx, code, s.Rate)
}
