package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-ledger/internal/currency"
	"github.com/carson-networks/finance-ledger/internal/ledgererr"
	"github.com/carson-networks/finance-ledger/internal/operator/actions"
	"github.com/carson-networks/finance-ledger/internal/storage"
)

// CustomRate is a user override of a currency's rate to USD.
type CustomRate struct {
	Currency string
	Rate     decimal.Decimal
}

// RateService manages custom exchange rates.
type RateService struct {
	reader    *storage.Reader
	processor Processor
}

func NewRateService(reader *storage.Reader, processor Processor) *RateService {
	return &RateService{reader: reader, processor: processor}
}

func (s *RateService) SetCustomRate(ctx context.Context, code string, rate decimal.Decimal) (*CustomRate, error) {
	action := &actions.SetCustomRate{Currency: code, Rate: rate}
	if err := s.processor.Process(ctx, action); err != nil {
		return nil, err
	}
	return &CustomRate{Currency: action.Currency, Rate: action.Rate}, nil
}

// GetCustomRate returns NotFound when code has no override.
func (s *RateService) GetCustomRate(ctx context.Context, code string) (*CustomRate, error) {
	normalized, ok := currency.NormalizeCode(code)
	if !ok {
		return nil, ledgererr.Validation("unknown currency %q", code)
	}
	row, found, err := s.reader.Rates.Get(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: custom rate for %s", ledgererr.ErrNotFound, normalized)
	}
	return &CustomRate{Currency: row.Currency, Rate: row.Rate}, nil
}

func (s *RateService) ListCustomRates(ctx context.Context) ([]CustomRate, error) {
	rows, err := s.reader.Rates.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]CustomRate, len(rows))
	for i, row := range rows {
		out[i] = CustomRate{Currency: row.Currency, Rate: row.Rate}
	}
	return out, nil
}
