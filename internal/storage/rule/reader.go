package rule

import (
	"context"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/sqlite"
	"github.com/stephenafamo/bob/dialect/sqlite/sm"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/finance-ledger/internal/ledgererr"
	"github.com/carson-networks/finance-ledger/internal/rules"
	"github.com/carson-networks/finance-ledger/internal/storage/sqlerr"
)

type Reader struct {
	exec bob.Executor
}

func NewReader(exec bob.Executor) *Reader {
	return &Reader{exec: exec}
}

// List returns all rules in evaluation order: priority descending, then id.
func (r *Reader) List(ctx context.Context) ([]rules.Rule, error) {
	rows, err := bob.All(ctx, r.exec, sqlite.Select(
		sm.Columns(columns...),
		sm.From(tableName),
		sm.OrderBy("priority").Desc(),
		sm.OrderBy("id").Asc(),
	), scan.StructMapper[*row]())
	if err != nil {
		return nil, sqlerr.Classify("rule.List", err)
	}

	out := make([]rules.Rule, 0, len(rows))
	for _, rw := range rows {
		rule, err := rw.toRule()
		if err != nil {
			return nil, ledgererr.Storage("rule.List", err)
		}
		out = append(out, *rule)
	}
	return out, nil
}

func (r *Reader) FindByID(ctx context.Context, id int64) (*rules.Rule, error) {
	rw, err := bob.One(ctx, r.exec, sqlite.Select(
		sm.Columns(columns...),
		sm.From(tableName),
		sm.Where(sqlite.Quote("id").EQ(sqlite.Arg(id))),
	), scan.StructMapper[*row]())
	if sqlerr.IsNoRows(err) {
		return nil, ledgererr.NotFound("rule", id)
	}
	if err != nil {
		return nil, sqlerr.Classify("rule.FindByID", err)
	}

	rule, err := rw.toRule()
	if err != nil {
		return nil, ledgererr.Storage("rule.FindByID", err)
	}
	return rule, nil
}
