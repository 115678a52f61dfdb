package rule

import (
	"context"
	"database/sql"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/sqlite"
	"github.com/stephenafamo/bob/dialect/sqlite/dm"
	"github.com/stephenafamo/bob/dialect/sqlite/im"
	"github.com/stephenafamo/bob/dialect/sqlite/um"

	"github.com/carson-networks/finance-ledger/internal/ledgererr"
	"github.com/carson-networks/finance-ledger/internal/rules"
	"github.com/carson-networks/finance-ledger/internal/storage/sqlerr"
)

type Writer struct {
	tx bob.Tx
	Reader
}

func NewWriter(tx bob.Tx) *Writer {
	return &Writer{
		tx: tx,
		Reader: Reader{
			exec: tx,
		},
	}
}

func encode(rule *rules.Rule) (conditions, actions string, err error) {
	if conditions, err = marshalList(rule.Conditions); err != nil {
		return "", "", ledgererr.Validation("rule conditions: %v", err)
	}
	if actions, err = marshalList(rule.Actions); err != nil {
		return "", "", ledgererr.Validation("rule actions: %v", err)
	}
	return conditions, actions, nil
}

func (w *Writer) Insert(ctx context.Context, rule *rules.Rule) (int64, error) {
	conditions, actions, err := encode(rule)
	if err != nil {
		return 0, err
	}

	result, err := bob.Exec(ctx, w.tx, sqlite.Insert(
		im.Into(tableName,
			"priority", "match_field", "match_pattern", "action_field",
			"action_value", "logic", "conditions", "actions",
		),
		im.Values(sqlite.Arg(
			rule.Priority, rule.MatchField, rule.MatchPattern, rule.ActionField,
			rule.ActionValue, rule.Logic, conditions, actions,
		)),
	))
	if err != nil {
		return 0, sqlerr.Classify("rule.Insert", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, sqlerr.Classify("rule.Insert", err)
	}
	return id, nil
}

func (w *Writer) Update(ctx context.Context, rule *rules.Rule) error {
	conditions, actions, err := encode(rule)
	if err != nil {
		return err
	}

	result, err := bob.Exec(ctx, w.tx, sqlite.Update(
		um.Table(tableName),
		um.SetCol("priority").ToArg(rule.Priority),
		um.SetCol("match_field").ToArg(rule.MatchField),
		um.SetCol("match_pattern").ToArg(rule.MatchPattern),
		um.SetCol("action_field").ToArg(rule.ActionField),
		um.SetCol("action_value").ToArg(rule.ActionValue),
		um.SetCol("logic").ToArg(rule.Logic),
		um.SetCol("conditions").ToArg(conditions),
		um.SetCol("actions").ToArg(actions),
		um.Where(sqlite.Quote("id").EQ(sqlite.Arg(rule.ID))),
	))
	return requireRow(rule.ID, "rule.Update", result, err)
}

func (w *Writer) SetPriority(ctx context.Context, id int64, priority int) error {
	result, err := bob.Exec(ctx, w.tx, sqlite.Update(
		um.Table(tableName),
		um.SetCol("priority").ToArg(priority),
		um.Where(sqlite.Quote("id").EQ(sqlite.Arg(id))),
	))
	return requireRow(id, "rule.SetPriority", result, err)
}

// Delete removes the rule. A missing id is not an error.
func (w *Writer) Delete(ctx context.Context, id int64) error {
	_, err := bob.Exec(ctx, w.tx, sqlite.Delete(
		dm.From(tableName),
		dm.Where(sqlite.Quote("id").EQ(sqlite.Arg(id))),
	))
	return sqlerr.Classify("rule.Delete", err)
}

func requireRow(id int64, op string, result sql.Result, err error) error {
	if err != nil {
		return sqlerr.Classify(op, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return sqlerr.Classify(op, err)
	}
	if n == 0 {
		return ledgererr.NotFound("rule", id)
	}
	return nil
}
