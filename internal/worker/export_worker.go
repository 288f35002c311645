// Package worker bridges ledger change events to the spreadsheet
// mirror. Each message carries only an id; the worker reads current
// state from the ledger, so replays and out-of-order delivery are safe.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"moneyrec/internal/amqp"
	"moneyrec/internal/core"
	"moneyrec/internal/export"
	"moneyrec/internal/ledger"
	applog "moneyrec/internal/log"
	"moneyrec/internal/services"
)

type ExportWorker struct {
	store    ledger.Store
	mirror   export.LedgerMirror
	enricher *services.Enricher
}

func NewExportWorker(store ledger.Store, mirror export.LedgerMirror) *ExportWorker {
	return &ExportWorker{
		store:    store,
		mirror:   mirror,
		enricher: services.NewEnricher(store),
	}
}

// HandleChange processes one change event. Returning an error nacks the
// message for requeue, so only retryable failures should error; a row
// that no longer exists is treated as deleted.
func (w *ExportWorker) HandleChange(ctx context.Context, msg *amqp.ChangeMessage) error {
	slog.InfoContext(ctx, "Processing ledger change",
		"entity", msg.Entity,
		"op", msg.Op,
		"id", msg.ID)

	if msg.Op == applog.OpDelete {
		if err := w.mirror.MarkDeleted(ctx, msg.Entity, msg.ID); err != nil {
			return fmt.Errorf("mark deleted: %w", err)
		}
		return nil
	}

	switch msg.Entity {
	case "transaction":
		return w.exportTransaction(ctx, msg.ID)
	case "transfer":
		return w.exportTransfer(ctx, msg.ID)
	case "account", "category":
		// Reference data is denormalized into rows at export time and
		// needs no mirror row of its own.
		return nil
	default:
		slog.WarnContext(ctx, "Unknown change entity, dropping", "entity", msg.Entity)
		return nil
	}
}

func (w *ExportWorker) exportTransaction(ctx context.Context, id int64) error {
	t, err := w.store.Transaction(ctx, id)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			// Deleted between publish and consume.
			return w.mirror.MarkDeleted(ctx, "transaction", id)
		}
		return fmt.Errorf("load transaction: %w", err)
	}

	enriched, err := w.enricher.EnrichTransactions(ctx, []core.Transaction{*t})
	if err != nil {
		return err
	}

	if err := w.mirror.AppendTransaction(ctx, enriched[0]); err != nil {
		return fmt.Errorf("append transaction: %w", err)
	}
	return nil
}

func (w *ExportWorker) exportTransfer(ctx context.Context, id int64) error {
	tr, err := w.store.Transfer(ctx, id)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return w.mirror.MarkDeleted(ctx, "transfer", id)
		}
		return fmt.Errorf("load transfer: %w", err)
	}

	enriched, err := w.enricher.EnrichTransfers(ctx, []core.Transfer{*tr})
	if err != nil {
		return err
	}

	if err := w.mirror.AppendTransfer(ctx, enriched[0]); err != nil {
		return fmt.Errorf("append transfer: %w", err)
	}
	return nil
}

// Run consumes change events until the context is cancelled, redialing
// the broker on connection loss.
func (w *ExportWorker) Run(ctx context.Context, url, exchange, queue string) error {
	return amqp.ConsumeWithReconnect(ctx, url, exchange, queue, func(msg *amqp.ChangeMessage) error {
		return w.HandleChange(ctx, msg)
	})
}
