package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/finance-ledger/internal/handlers/httperr"
	"github.com/carson-networks/finance-ledger/internal/logging"
	"github.com/carson-networks/finance-ledger/internal/service"
)

// InvestmentBody is the request body for a buy or sell.
type InvestmentBody struct {
	AccountID     int64  `json:"accountID" minimum:"1" doc:"Owning account ID"`
	Date          string `json:"date" format:"date" doc:"Trade date (YYYY-MM-DD)"`
	Side          string `json:"side" enum:"buy,sell" doc:"buy or sell"`
	Ticker        string `json:"ticker" minLength:"1" doc:"Instrument ticker"`
	Shares        string `json:"shares" doc:"Positive decimal share count"`
	PricePerShare string `json:"pricePerShare" doc:"Decimal price per share"`
	Fee           string `json:"fee,omitempty" doc:"Decimal fee, defaults to 0"`
	Notes         string `json:"notes,omitempty" doc:"Notes, defaults to a trade summary"`
	Currency      string `json:"currency,omitempty" doc:"ISO 4217 code"`
}

type CreateInvestmentInput struct {
	Body InvestmentBody
}

type UpdateInvestmentInput struct {
	ID   int64 `path:"id" minimum:"1" doc:"Transaction ID"`
	Body InvestmentBody
}

func (h *Handler) registerInvestment(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "create-investment",
		Method:      http.MethodPost,
		Path:        "/v1/investment",
		Summary:     "Record a trade",
		Description: "Records a buy or sell. The amount is derived from shares, price and fee.",
		Tags:        []string{"Investments"},
	}, h.createInvestment)

	huma.Register(api, huma.Operation{
		OperationID: "update-investment",
		Method:      http.MethodPut,
		Path:        "/v1/investment/{id}",
		Summary:     "Update a trade",
		Tags:        []string{"Investments"},
	}, h.updateInvestment)
}

func parseInvestmentBody(body *InvestmentBody) (service.InvestmentInput, error) {
	shares, err := httperr.Decimal("shares", body.Shares)
	if err != nil {
		return service.InvestmentInput{}, err
	}
	price, err := httperr.Decimal("pricePerShare", body.PricePerShare)
	if err != nil {
		return service.InvestmentInput{}, err
	}
	fee, err := httperr.OptionalDecimal("fee", body.Fee)
	if err != nil {
		return service.InvestmentInput{}, err
	}

	in := service.InvestmentInput{
		AccountID:     body.AccountID,
		Date:          body.Date,
		Side:          body.Side,
		Ticker:        body.Ticker,
		Shares:        shares,
		PricePerShare: price,
		Notes:         httperr.OptionalString(body.Notes),
		Currency:      httperr.OptionalString(body.Currency),
	}
	if fee != nil {
		in.Fee = *fee
	}
	return in, nil
}

func (h *Handler) createInvestment(ctx context.Context, input *CreateInvestmentInput) (*TransactionOutput, error) {
	in, err := parseInvestmentBody(&input.Body)
	if err != nil {
		return nil, err
	}
	tx, err := h.TransactionService.CreateInvestment(ctx, in)
	if err != nil {
		return nil, httperr.From("failed to record trade", err)
	}
	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("transactionID", tx.ID)
	}
	return &TransactionOutput{Status: http.StatusCreated, Body: fromService(tx)}, nil
}

func (h *Handler) updateInvestment(ctx context.Context, input *UpdateInvestmentInput) (*TransactionOutput, error) {
	in, err := parseInvestmentBody(&input.Body)
	if err != nil {
		return nil, err
	}
	tx, err := h.TransactionService.UpdateInvestment(ctx, input.ID, in)
	if err != nil {
		return nil, httperr.From("failed to update trade", err)
	}
	return &TransactionOutput{Status: http.StatusOK, Body: fromService(tx)}, nil
}
