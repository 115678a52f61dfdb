package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/finance-ledger/internal/handlers/httperr"
	"github.com/carson-networks/finance-ledger/internal/logging"
)

type TransactionIDInput struct {
	ID int64 `path:"id" minimum:"1" doc:"Transaction ID"`
}

type UpdateTransactionInput struct {
	ID   int64 `path:"id" minimum:"1" doc:"Transaction ID"`
	Body TransactionBody
}

// DeleteTransactionOutput lists every row removed, the counterpart included.
type DeleteTransactionOutput struct {
	Body struct {
		Deleted []int64 `json:"deleted" doc:"IDs of the deleted transactions"`
	}
}

func (h *Handler) registerUpdate(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-transaction",
		Method:      http.MethodGet,
		Path:        "/v1/transaction/{id}",
		Summary:     "Get transaction",
		Tags:        []string{"Transactions"},
	}, h.get)

	huma.Register(api, huma.Operation{
		OperationID: "update-transaction",
		Method:      http.MethodPut,
		Path:        "/v1/transaction/{id}",
		Summary:     "Update transaction",
		Description: "Replaces the transaction, moving balances between accounts as needed and mirroring the change onto a transfer counterpart.",
		Tags:        []string{"Transactions"},
	}, h.update)

	huma.Register(api, huma.Operation{
		OperationID: "delete-transaction",
		Method:      http.MethodDelete,
		Path:        "/v1/transaction/{id}",
		Summary:     "Delete transaction",
		Description: "Deletes the transaction and its transfer counterpart, reversing both balances.",
		Tags:        []string{"Transactions"},
	}, h.delete)
}

func (h *Handler) get(ctx context.Context, input *TransactionIDInput) (*TransactionOutput, error) {
	tx, err := h.TransactionService.GetTransaction(ctx, input.ID)
	if err != nil {
		return nil, httperr.From("failed to get transaction", err)
	}
	return &TransactionOutput{Status: http.StatusOK, Body: fromService(tx)}, nil
}

func (h *Handler) update(ctx context.Context, input *UpdateTransactionInput) (*TransactionResultOutput, error) {
	txInput, err := parseTransactionBody(&input.Body)
	if err != nil {
		return nil, err
	}

	logData := logging.GetLogData(ctx)
	var stopTimer func()
	if logData != nil {
		logData.AddData("transactionID", input.ID)
		stopTimer = logData.AddTiming("updateTransactionMs")
	}
	result, err := h.TransactionService.UpdateTransaction(ctx, input.ID, txInput)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, httperr.From("failed to update transaction", err)
	}
	return &TransactionResultOutput{Status: http.StatusOK, Body: resultFromService(result)}, nil
}

func (h *Handler) delete(ctx context.Context, input *TransactionIDInput) (*DeleteTransactionOutput, error) {
	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("transactionID", input.ID)
	}
	deleted, err := h.TransactionService.DeleteTransaction(ctx, input.ID)
	if err != nil {
		return nil, httperr.From("failed to delete transaction", err)
	}
	out := &DeleteTransactionOutput{}
	out.Body.Deleted = deleted
	return out, nil
}
