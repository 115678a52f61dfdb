package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/finance-ledger/internal/handlers/httperr"
	"github.com/carson-networks/finance-ledger/internal/logging"
	"github.com/carson-networks/finance-ledger/internal/service"
)

// TransactionBody is the request body for creating or replacing a transaction.
type TransactionBody struct {
	AccountID     int64  `json:"accountID" minimum:"1" doc:"Owning account ID"`
	Date          string `json:"date" format:"date" doc:"Transaction date (YYYY-MM-DD)"`
	Payee         string `json:"payee" doc:"Payee. Naming another account makes this a transfer"`
	Notes         string `json:"notes,omitempty" doc:"Free-form notes"`
	Category      string `json:"category,omitempty" doc:"Category"`
	Amount        string `json:"amount" doc:"Signed decimal amount"`
	Currency      string `json:"currency,omitempty" doc:"ISO 4217 code"`
	Ticker        string `json:"ticker,omitempty" doc:"Instrument ticker"`
	Shares        string `json:"shares,omitempty" doc:"Decimal share count"`
	PricePerShare string `json:"pricePerShare,omitempty" doc:"Decimal price per share"`
	Fee           string `json:"fee,omitempty" doc:"Decimal fee"`
}

// CreateTransactionInput is the Huma input for creating a transaction.
type CreateTransactionInput struct {
	Body TransactionBody
}

func (h *Handler) registerCreate(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "create-transaction",
		Method:      http.MethodPost,
		Path:        "/v1/transaction",
		Summary:     "Create transaction",
		Description: "Runs the rules over the transaction and records it. A payee naming another account creates a linked transfer pair.",
		Tags:        []string{"Transactions"},
	}, h.create)
}

// parseTransactionBody parses the decimal fields of a request body.
func parseTransactionBody(body *TransactionBody) (service.TransactionInput, error) {
	amount, err := httperr.Decimal("amount", body.Amount)
	if err != nil {
		return service.TransactionInput{}, err
	}
	shares, err := httperr.OptionalDecimal("shares", body.Shares)
	if err != nil {
		return service.TransactionInput{}, err
	}
	price, err := httperr.OptionalDecimal("pricePerShare", body.PricePerShare)
	if err != nil {
		return service.TransactionInput{}, err
	}
	fee, err := httperr.OptionalDecimal("fee", body.Fee)
	if err != nil {
		return service.TransactionInput{}, err
	}

	return service.TransactionInput{
		AccountID:     body.AccountID,
		Date:          body.Date,
		Payee:         body.Payee,
		Notes:         httperr.OptionalString(body.Notes),
		Category:      httperr.OptionalString(body.Category),
		Amount:        amount,
		Currency:      httperr.OptionalString(body.Currency),
		Ticker:        httperr.OptionalString(body.Ticker),
		Shares:        shares,
		PricePerShare: price,
		Fee:           fee,
	}, nil
}

func (h *Handler) create(ctx context.Context, input *CreateTransactionInput) (*TransactionResultOutput, error) {
	logData := logging.GetLogData(ctx)

	txInput, err := parseTransactionBody(&input.Body)
	if err != nil {
		return nil, err
	}

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("createTransactionMs")
	}
	result, err := h.TransactionService.CreateTransaction(ctx, txInput)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, httperr.From("failed to create transaction", err)
	}

	if logData != nil {
		logData.AddData("transactionID", result.Transaction.ID)
		logData.AddData("transfer", result.Counterpart != nil)
	}

	return &TransactionResultOutput{Status: http.StatusCreated, Body: resultFromService(result)}, nil
}
