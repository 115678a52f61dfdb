package operator

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/finance-ledger/internal/operator/actions"
	"github.com/carson-networks/finance-ledger/internal/storage"
)

// Operator is the worker that processes items from the queue. Each action
// runs inside its own storage transaction and either commits in full or is
// rolled back.
type Operator struct {
	storage *storage.Storage
	queue   chan ActionItem
	logger  *logrus.Logger
}

func NewOperator(s *storage.Storage, queue chan ActionItem, logger *logrus.Logger) *Operator {
	return &Operator{
		storage: s,
		queue:   queue,
		logger:  logger,
	}
}

// Run listens to the queue and processes items. Exits when the queue is closed.
func (o *Operator) Run() {
	for item := range o.queue {
		o.processItem(item)
	}
}

func (o *Operator) processItem(item ActionItem) {
	start := time.Now()
	entry := o.logger.WithFields(logrus.Fields{
		"actionID": item.id.String(),
		"action":   fmt.Sprintf("%T", item.action),
	})

	if err := item.ctx.Err(); err != nil {
		item.response <- ActionItemResponse{err: err}
		return
	}

	writer, err := o.storage.Write(item.ctx)
	if err != nil {
		entry.WithError(err).Warn("Operator.processItem.begin")
		item.response <- ActionItemResponse{err: err}
		return
	}

	err = item.action.Perform(item.ctx, writer)
	if err != nil {
		if rbErr := writer.Rollback(); rbErr != nil {
			entry.WithError(rbErr).Error("Operator.processItem.rollback")
		}
		entry.WithError(err).WithField("durationMs", time.Since(start).Milliseconds()).
			Info("Operator.processItem.rejected")
		item.response <- ActionItemResponse{err: err}
		return
	}

	if err = writer.Commit(); err != nil {
		_ = writer.Rollback()
		entry.WithError(err).Error("Operator.processItem.commit")
		item.response <- ActionItemResponse{err: err}
		return
	}

	entry.WithField("durationMs", time.Since(start).Milliseconds()).Debug("Operator.processItem.committed")
	item.response <- ActionItemResponse{}
}

type ActionItem struct {
	ctx      context.Context
	id       uuid.UUID
	action   actions.IAction
	response chan ActionItemResponse
}

type ActionItemResponse struct {
	err error
}
