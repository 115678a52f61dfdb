package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-ledger/internal/handlers/httperr"
	"github.com/carson-networks/finance-ledger/internal/logging"
	"github.com/carson-networks/finance-ledger/internal/service"
)

// CreateAccountInput is the Huma input for creating an account.
type CreateAccountInput struct {
	Body CreateAccountBody
}

// CreateAccountBody is the request body fields for creating an account.
type CreateAccountBody struct {
	Name           string `json:"name" minLength:"1" doc:"Account name, unique ignoring case"`
	InitialBalance string `json:"initialBalance,omitempty" doc:"Opening balance (e.g. '0' or '1234.56'), defaults to 0"`
	Currency       string `json:"currency,omitempty" doc:"ISO 4217 code, empty for the reporting currency"`
}

func (h *Handler) registerCreate(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "create-account",
		Method:      http.MethodPost,
		Path:        "/v1/account",
		Summary:     "Create an account",
		Description: "Creates an account. A non-zero initial balance is recorded as an opening-balance transaction.",
		Tags:        []string{"Accounts"},
	}, h.create)
}

func parseCreateAccountInput(input *CreateAccountInput) (service.AccountCreate, error) {
	initialBalance := decimal.Zero
	if input.Body.InitialBalance != "" {
		var err error
		initialBalance, err = httperr.Decimal("initialBalance", input.Body.InitialBalance)
		if err != nil {
			return service.AccountCreate{}, err
		}
	}

	return service.AccountCreate{
		Name:           input.Body.Name,
		InitialBalance: initialBalance,
		Currency:       httperr.OptionalString(input.Body.Currency),
	}, nil
}

func (h *Handler) create(ctx context.Context, input *CreateAccountInput) (*AccountOutput, error) {
	logData := logging.GetLogData(ctx)

	create, err := parseCreateAccountInput(input)
	if err != nil {
		return nil, err
	}

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("createAccountMs")
	}
	acc, err := h.AccountService.CreateAccount(ctx, create)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, httperr.From("failed to create account", err)
	}

	if logData != nil {
		logData.AddData("accountID", acc.ID)
	}

	return &AccountOutput{Status: http.StatusCreated, Body: fromService(acc)}, nil
}
