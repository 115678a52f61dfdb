package currency

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// RateSource fetches market prices for tickers. Implementations may omit
// tickers they cannot price.
type RateSource interface {
	FetchRates(ctx context.Context, tickers []string) (Rates, error)
}

// StaticSource serves rates from a fixed table.
type StaticSource struct {
	rates Rates
}

var _ RateSource = (*StaticSource)(nil)

func NewStaticSource(rates Rates) *StaticSource {
	if rates == nil {
		rates = Rates{}
	}
	return &StaticSource{rates: rates}
}

func (s *StaticSource) FetchRates(_ context.Context, tickers []string) (Rates, error) {
	out := make(Rates, len(tickers))
	for _, ticker := range tickers {
		if r, ok := s.rates[ticker]; ok {
			out[ticker] = r
		}
	}
	return out, nil
}

// ParseStaticRates parses "EURUSD=X=1.08,GBPUSD=X=1.27" into Rates. The price
// follows the last '='.
func ParseStaticRates(spec string) (Rates, error) {
	rates := Rates{}
	for _, entry := range strings.Split(spec, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		idx := strings.LastIndex(entry, "=")
		if idx <= 0 || idx == len(entry)-1 {
			return nil, fmt.Errorf("invalid rate entry %q", entry)
		}
		price, err := decimal.NewFromString(entry[idx+1:])
		if err != nil {
			return nil, fmt.Errorf("invalid price in %q: %w", entry, err)
		}
		rates[entry[:idx]] = price
	}
	return rates, nil
}
