package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"frota/internal/amqp"
	"frota/internal/core"
)

// Consumer delivers refresh signals until its context ends.
type Consumer interface {
	ConsumeRefresh(ctx context.Context, handler func(context.Context, *amqp.DataRefreshMessage) error) error
}

// ReportCache is the part of the report service the worker drives.
type ReportCache interface {
	RecordSet(ctx context.Context) (core.RecordSet, error)
	HandleRefresh(ctx context.Context, msg *amqp.DataRefreshMessage) error
}

// RefreshWorker keeps the record set cache in step with refresh signals
// published by other instances.
type RefreshWorker struct {
	consumer Consumer
	reports  ReportCache
}

func NewRefreshWorker(consumer Consumer, reports ReportCache) *RefreshWorker {
	return &RefreshWorker{
		consumer: consumer,
		reports:  reports,
	}
}

// WarmUp loads the table once so the first request hits the cache. A data
// error is reported but the caller may keep serving: the source may be
// fixed later without a restart.
func (w *RefreshWorker) WarmUp(ctx context.Context) error {
	set, err := w.reports.RecordSet(ctx)
	if err != nil {
		return fmt.Errorf("warm up record cache: %w", err)
	}
	slog.InfoContext(ctx, "Record cache warmed up",
		"fingerprint", set.Fingerprint(),
		"records", set.Len())
	return nil
}

// Run consumes refresh signals until ctx is cancelled. Each signal drops
// the cache and reloads the table.
func (w *RefreshWorker) Run(ctx context.Context) error {
	if w.consumer == nil {
		slog.InfoContext(ctx, "AMQP consumer not configured, refresh worker idle")
		<-ctx.Done()
		return nil
	}

	err := w.consumer.ConsumeRefresh(ctx, w.handle)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

func (w *RefreshWorker) handle(ctx context.Context, msg *amqp.DataRefreshMessage) error {
	if err := w.reports.HandleRefresh(ctx, msg); err != nil {
		return fmt.Errorf("handle refresh: %w", err)
	}
	if _, err := w.reports.RecordSet(ctx); err != nil {
		// The signal was applied; a broken table is reported on the next request.
		slog.WarnContext(ctx, "Reload after refresh signal failed", "error", err)
	}
	return nil
}
