package rate

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-ledger/internal/handlers/httperr"
	"github.com/carson-networks/finance-ledger/internal/service"
)

// CustomRate is the API model for a user override of a currency's rate.
type CustomRate struct {
	Currency string `json:"currency" doc:"ISO 4217 code"`
	Rate     string `json:"rate" doc:"Units of USD per unit of the currency"`
}

func fromService(r *service.CustomRate) CustomRate {
	return CustomRate{Currency: r.Currency, Rate: r.Rate.String()}
}

type CurrencyInput struct {
	Currency string `path:"currency" minLength:"3" maxLength:"3" doc:"ISO 4217 code"`
}

type SetRateInput struct {
	Currency string `path:"currency" minLength:"3" maxLength:"3" doc:"ISO 4217 code"`
	Body     struct {
		Rate string `json:"rate" doc:"Positive decimal rate to USD"`
	}
}

type RateOutput struct {
	Body CustomRate
}

type ListRatesOutput struct {
	Body struct {
		Rates []CustomRate `json:"rates" doc:"Custom rates ordered by currency"`
	}
}

type rateService interface {
	SetCustomRate(ctx context.Context, code string, rate decimal.Decimal) (*service.CustomRate, error)
	GetCustomRate(ctx context.Context, code string) (*service.CustomRate, error)
	ListCustomRates(ctx context.Context) ([]service.CustomRate, error)
}

// Handler serves the custom exchange rate endpoints.
type Handler struct {
	RateService rateService
}

func NewHandler(svc rateService) *Handler {
	return &Handler{RateService: svc}
}

func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "set-custom-rate",
		Method:      http.MethodPut,
		Path:        "/v1/rate/{currency}",
		Summary:     "Set a custom rate",
		Description: "Overrides the fetched rate for a currency. Custom rates take precedence over fetched ones.",
		Tags:        []string{"Rates"},
	}, h.set)

	huma.Register(api, huma.Operation{
		OperationID: "get-custom-rate",
		Method:      http.MethodGet,
		Path:        "/v1/rate/{currency}",
		Summary:     "Get a custom rate",
		Tags:        []string{"Rates"},
	}, h.get)

	huma.Register(api, huma.Operation{
		OperationID: "list-custom-rates",
		Method:      http.MethodGet,
		Path:        "/v1/rates",
		Summary:     "List custom rates",
		Tags:        []string{"Rates"},
	}, h.list)
}

func (h *Handler) set(ctx context.Context, input *SetRateInput) (*RateOutput, error) {
	rate, err := httperr.Decimal("rate", input.Body.Rate)
	if err != nil {
		return nil, err
	}
	saved, err := h.RateService.SetCustomRate(ctx, input.Currency, rate)
	if err != nil {
		return nil, httperr.From("failed to set custom rate", err)
	}
	return &RateOutput{Body: fromService(saved)}, nil
}

func (h *Handler) get(ctx context.Context, input *CurrencyInput) (*RateOutput, error) {
	r, err := h.RateService.GetCustomRate(ctx, input.Currency)
	if err != nil {
		return nil, httperr.From("failed to get custom rate", err)
	}
	return &RateOutput{Body: fromService(r)}, nil
}

func (h *Handler) list(ctx context.Context, _ *struct{}) (*ListRatesOutput, error) {
	rates, err := h.RateService.ListCustomRates(ctx)
	if err != nil {
		return nil, httperr.From("failed to list custom rates", err)
	}
	out := &ListRatesOutput{}
	out.Body.Rates = make([]CustomRate, len(rates))
	for i := range rates {
		out.Body.Rates[i] = fromService(&rates[i])
	}
	return out, nil
}
