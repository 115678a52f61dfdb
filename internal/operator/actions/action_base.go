// Package actions holds the ledger mutations. Each action runs inside one
// storage transaction owned by the operator, so a returned error means none
// of its writes are kept.
package actions

import (
	"context"
	"strings"
	"time"

	"github.com/carson-networks/finance-ledger/internal/storage"
)

type IAction interface {
	Perform(ctx context.Context, writer *storage.Writer) error
}

const dateLayout = "2006-01-02"

func today() string {
	return time.Now().Format(dateLayout)
}

func normalizeName(name string) string {
	return strings.TrimSpace(name)
}

func strPtr(s string) *string {
	return &s
}

func int64Ptr(i int64) *int64 {
	return &i
}
