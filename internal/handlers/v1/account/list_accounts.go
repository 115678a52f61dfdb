package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/finance-ledger/internal/handlers/httperr"
	"github.com/carson-networks/finance-ledger/internal/logging"
	"github.com/carson-networks/finance-ledger/internal/service"
)

// ListAccountsOutput is the Huma output for listing accounts.
type ListAccountsOutput struct {
	Body ListAccountsResponseBody
}

// ListAccountsResponseBody is the response body for listing accounts.
type ListAccountsResponseBody struct {
	Accounts []Account `json:"accounts" doc:"Accounts ordered by name"`
}

// ListBalancesInput selects the reporting currency for balance listings.
type ListBalancesInput struct {
	Currency string `query:"currency" doc:"Reporting currency, defaults to the configured one"`
}

func (h *Handler) registerList(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-accounts",
		Method:      http.MethodGet,
		Path:        "/v1/accounts",
		Summary:     "List accounts",
		Description: "Returns every account with its stored balance.",
		Tags:        []string{"Accounts"},
	}, h.list)

	huma.Register(api, huma.Operation{
		OperationID: "list-account-balances",
		Method:      http.MethodGet,
		Path:        "/v1/accounts/balances",
		Summary:     "List account balances",
		Description: "Returns every account with its balance recomputed from its transactions, converted into the account currency, and the rate into the reporting currency.",
		Tags:        []string{"Accounts"},
	}, h.listBalances)
}

func toResponse(accounts []service.Account, withRates bool) ListAccountsResponseBody {
	resp := ListAccountsResponseBody{Accounts: make([]Account, len(accounts))}
	for i := range accounts {
		resp.Accounts[i] = fromService(&accounts[i])
		if withRates {
			resp.Accounts[i].ExchangeRate = accounts[i].ExchangeRate.String()
		}
	}
	return resp
}

func (h *Handler) list(ctx context.Context, _ *struct{}) (*ListAccountsOutput, error) {
	logData := logging.GetLogData(ctx)

	accounts, err := h.AccountService.ListAccounts(ctx)
	if err != nil {
		return nil, httperr.From("failed to list accounts", err)
	}
	if logData != nil {
		logData.AddData("accountCount", len(accounts))
	}
	return &ListAccountsOutput{Body: toResponse(accounts, false)}, nil
}

func (h *Handler) listBalances(ctx context.Context, input *ListBalancesInput) (*ListAccountsOutput, error) {
	logData := logging.GetLogData(ctx)

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("listBalancesMs")
	}
	accounts, err := h.AccountService.ListAccountBalances(ctx, input.Currency)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, httperr.From("failed to compute balances", err)
	}
	return &ListAccountsOutput{Body: toResponse(accounts, true)}, nil
}
