package account

import (
	"context"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/sqlite"
	"github.com/stephenafamo/bob/dialect/sqlite/dialect"
	"github.com/stephenafamo/bob/dialect/sqlite/sm"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/finance-ledger/internal/ledgererr"
	"github.com/carson-networks/finance-ledger/internal/storage/sqlerr"
)

type Reader struct {
	exec bob.Executor
}

func NewReader(exec bob.Executor) *Reader {
	return &Reader{exec: exec}
}

func selectAccounts(mods ...bob.Mod[*dialect.SelectQuery]) bob.BaseQuery[*dialect.SelectQuery] {
	base := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(columns...),
		sm.From(tableName),
	}
	return sqlite.Select(append(base, mods...)...)
}

// List returns every account ordered by name, then id.
func (r *Reader) List(ctx context.Context) ([]*Account, error) {
	rows, err := bob.All(ctx, r.exec, selectAccounts(
		sm.OrderBy("name").Asc(),
		sm.OrderBy("id").Asc(),
	), scan.StructMapper[*Account]())
	if err != nil {
		return nil, sqlerr.Classify("account.List", err)
	}
	return rows, nil
}

// FindByID returns the account or a NotFound error.
func (r *Reader) FindByID(ctx context.Context, id int64) (*Account, error) {
	row, err := bob.One(ctx, r.exec, selectAccounts(
		sm.Where(sqlite.Quote("id").EQ(sqlite.Arg(id))),
	), scan.StructMapper[*Account]())
	if sqlerr.IsNoRows(err) {
		return nil, ledgererr.NotFound("account", id)
	}
	if err != nil {
		return nil, sqlerr.Classify("account.FindByID", err)
	}
	return row, nil
}

// FindOtherByName returns the account, other than excludeID, whose name is
// exactly name. It returns nil when there is none.
func (r *Reader) FindOtherByName(ctx context.Context, name string, excludeID int64) (*Account, error) {
	rows, err := bob.All(ctx, r.exec, selectAccounts(
		sm.Where(sqlite.Quote("name").EQ(sqlite.Arg(name))),
		sm.Where(sqlite.Quote("id").NE(sqlite.Arg(excludeID))),
		sm.OrderBy("id").Asc(),
		sm.Limit(1),
	), scan.StructMapper[*Account]())
	if err != nil {
		return nil, sqlerr.Classify("account.FindOtherByName", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// NameTaken reports whether an account other than excludeID already uses
// name, ignoring case. Pass 0 to check against every account.
func (r *Reader) NameTaken(ctx context.Context, name string, excludeID int64) (bool, error) {
	ids, err := bob.All(ctx, r.exec, sqlite.Select(
		sm.Columns("id"),
		sm.From(tableName),
		sm.Where(sqlite.Raw("LOWER(name) = LOWER(?)", name)),
		sm.Where(sqlite.Quote("id").NE(sqlite.Arg(excludeID))),
		sm.Limit(1),
	), scan.SingleColumnMapper[int64])
	if err != nil {
		return false, sqlerr.Classify("account.NameTaken", err)
	}
	return len(ids) > 0, nil
}
