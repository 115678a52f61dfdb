package service

import (
	"context"

	"github.com/carson-networks/finance-ledger/internal/operator/actions"
	"github.com/carson-networks/finance-ledger/internal/rules"
	"github.com/carson-networks/finance-ledger/internal/storage"
)

// RuleService manages categorisation rules.
type RuleService struct {
	reader    *storage.Reader
	processor Processor
}

func NewRuleService(reader *storage.Reader, processor Processor) *RuleService {
	return &RuleService{reader: reader, processor: processor}
}

func (s *RuleService) CreateRule(ctx context.Context, rule rules.Rule) (*rules.Rule, error) {
	action := &actions.CreateRule{Rule: rule}
	if err := s.processor.Process(ctx, action); err != nil {
		return nil, err
	}
	return &action.Rule, nil
}

func (s *RuleService) UpdateRule(ctx context.Context, rule rules.Rule) (*rules.Rule, error) {
	action := &actions.UpdateRule{Rule: rule}
	if err := s.processor.Process(ctx, action); err != nil {
		return nil, err
	}
	return &action.Rule, nil
}

func (s *RuleService) DeleteRule(ctx context.Context, id int64) error {
	return s.processor.Process(ctx, &actions.DeleteRule{ID: id})
}

// ListRules returns rules in evaluation order.
func (s *RuleService) ListRules(ctx context.Context) ([]rules.Rule, error) {
	return s.reader.Rules.List(ctx)
}

// ReorderRules gives the first id the highest priority.
func (s *RuleService) ReorderRules(ctx context.Context, ids []int64) ([]rules.Rule, error) {
	if err := s.processor.Process(ctx, &actions.ReorderRules{IDs: ids}); err != nil {
		return nil, err
	}
	return s.reader.Rules.List(ctx)
}
