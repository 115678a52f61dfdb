package actions

import (
	"context"

	"github.com/carson-networks/finance-ledger/internal/ledgererr"
	"github.com/carson-networks/finance-ledger/internal/rules"
	"github.com/carson-networks/finance-ledger/internal/storage"
)

func validateRule(rule *rules.Rule) error {
	logic, ok := rules.ParseLogic(rule.Logic)
	if !ok {
		return ledgererr.Validation("rule logic must be \"and\" or \"or\", got %q", rule.Logic)
	}
	rule.Logic = string(logic)
	return nil
}

type CreateRule struct {
	Rule rules.Rule
}

func (c *CreateRule) Perform(ctx context.Context, writer *storage.Writer) error {
	if err := validateRule(&c.Rule); err != nil {
		return err
	}
	id, err := writer.Rule.Insert(ctx, &c.Rule)
	if err != nil {
		return err
	}
	c.Rule.ID = id
	return nil
}

type UpdateRule struct {
	Rule rules.Rule
}

func (u *UpdateRule) Perform(ctx context.Context, writer *storage.Writer) error {
	if err := validateRule(&u.Rule); err != nil {
		return err
	}
	return writer.Rule.Update(ctx, &u.Rule)
}

// DeleteRule removes a rule. A missing id is a no-op.
type DeleteRule struct {
	ID int64
}

func (d *DeleteRule) Perform(ctx context.Context, writer *storage.Writer) error {
	return writer.Rule.Delete(ctx, d.ID)
}

// ReorderRules assigns descending priorities in the given order, so the
// first id ends up evaluated with the highest priority.
type ReorderRules struct {
	IDs []int64
}

func (r *ReorderRules) Perform(ctx context.Context, writer *storage.Writer) error {
	seen := make(map[int64]struct{}, len(r.IDs))
	for _, id := range r.IDs {
		if _, dup := seen[id]; dup {
			return ledgererr.Validation("rule %d listed twice", id)
		}
		seen[id] = struct{}{}
	}

	for i, id := range r.IDs {
		if err := writer.Rule.SetPriority(ctx, id, len(r.IDs)-i); err != nil {
			return err
		}
	}
	return nil
}
