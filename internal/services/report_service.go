package services

import (
	"context"
	"fmt"
	"log/slog"

	"frota/internal/amqp"
	"frota/internal/cache"
	"frota/internal/core"
	"frota/internal/source"

	"golang.org/x/sync/singleflight"
)

const recordsKey = "records"

// RefreshPublisher broadcasts data refresh signals to other instances.
type RefreshPublisher interface {
	PublishRefresh(ctx context.Context, msg *amqp.DataRefreshMessage) error
}

// ReportService loads the fleet table, keeps normalized record sets keyed
// by content fingerprint and composes the core audit functions for the
// transport layer.
type ReportService struct {
	reader     source.RowReader
	locale     core.Locale
	thresholds core.Thresholds
	sets       cache.Cache[core.RecordSet]
	group      singleflight.Group
	publisher  RefreshPublisher
	instanceID string
}

// Options configures a ReportService. Zero values fall back to the pt
// locale, the default thresholds and a small unbounded-age cache.
type Options struct {
	Locale     core.Locale
	Thresholds *core.Thresholds
	Cache      cache.Cache[core.RecordSet]
	Publisher  RefreshPublisher
	InstanceID string
}

// Dashboard is the filtered view of the table plus headline figures.
type Dashboard struct {
	Records    []core.Record
	Summary    core.Summary // over Records
	Bounds     core.Summary // over the whole set, for filter ranges
	Focus      *core.Record
	Locale     core.Locale
	Thresholds core.Thresholds
}

func NewReportService(reader source.RowReader, opts Options) *ReportService {
	s := &ReportService{
		reader:     reader,
		locale:     opts.Locale,
		thresholds: core.DefaultThresholds,
		sets:       opts.Cache,
		publisher:  opts.Publisher,
		instanceID: opts.InstanceID,
	}
	if s.locale.Name == "" {
		s.locale = core.LocalePT
	}
	if opts.Thresholds != nil {
		s.thresholds = *opts.Thresholds
	}
	if s.sets == nil {
		s.sets = cache.NewLRUCache[core.RecordSet](8, 0)
	}
	return s
}

func (s *ReportService) Locale() core.Locale { return s.locale }

func (s *ReportService) Thresholds() core.Thresholds { return s.thresholds }

// RecordSet reads the source and returns the normalized set. Normalization
// is skipped when a set with the same fingerprint is cached; concurrent
// callers share one read.
func (s *ReportService) RecordSet(ctx context.Context) (core.RecordSet, error) {
	v, err, shared := s.group.Do(recordsKey, func() (interface{}, error) {
		rows, err := s.reader.ReadRows(ctx)
		if err != nil {
			return core.RecordSet{}, fmt.Errorf("read fleet table: %w", err)
		}

		key := core.Fingerprint(rows)
		if set, ok := s.sets.Get(key); ok {
			return set, nil
		}

		set, err := core.Normalize(rows, s.locale)
		if err != nil {
			return core.RecordSet{}, err
		}
		s.sets.Set(key, set)
		slog.InfoContext(ctx, "Fleet table normalized",
			"fingerprint", key,
			"records", set.Len(),
			"locale", s.locale.Name)
		return set, nil
	})
	if err != nil {
		return core.RecordSet{}, err
	}
	if shared {
		slog.DebugContext(ctx, "Record set load shared with concurrent caller")
	}
	return v.(core.RecordSet), nil
}

// Invalidate drops every cached record set. A load already in flight may
// have read the source before the call, so later callers start a new one.
func (s *ReportService) Invalidate() {
	s.group.Forget(recordsKey)
	s.sets.Purge()
}

// Dashboard filters the current set and resolves the optional focus month,
// which must be one of the filtered records.
func (s *ReportService) Dashboard(ctx context.Context, filter core.Filter, focus *core.Period) (*Dashboard, error) {
	set, err := s.RecordSet(ctx)
	if err != nil {
		return nil, err
	}

	records := set.Filter(filter)
	d := &Dashboard{
		Records:    records,
		Summary:    core.Summarize(records),
		Bounds:     core.Summarize(set.Records()),
		Locale:     set.Locale(),
		Thresholds: s.thresholds,
	}

	if focus != nil {
		for i := range records {
			if records[i].Period == *focus {
				r := records[i]
				d.Focus = &r
				break
			}
		}
		if d.Focus == nil {
			return nil, &core.NotFoundError{Period: *focus}
		}
	}
	return d, nil
}

// Diagnostic classifies period against the mean spend of the full set.
func (s *ReportService) Diagnostic(ctx context.Context, period core.Period) (core.Classification, error) {
	set, err := s.RecordSet(ctx)
	if err != nil {
		return core.Classification{}, err
	}
	return core.ClassifyWith(period, set, s.thresholds)
}

// Refresh drops cached sets, reloads the table and notifies other
// instances. A failed broadcast is logged but does not fail the refresh.
func (s *ReportService) Refresh(ctx context.Context, reason string) (core.RecordSet, error) {
	s.Invalidate()
	set, err := s.RecordSet(ctx)
	if err != nil {
		return core.RecordSet{}, err
	}

	if s.publisher == nil {
		slog.DebugContext(ctx, "AMQP publisher not configured, skipping refresh broadcast")
		return set, nil
	}
	msg := amqp.NewDataRefreshMessage(s.instanceID, set.Fingerprint(), reason)
	if err := s.publisher.PublishRefresh(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish refresh message", "error", err)
	}
	return set, nil
}

// HandleRefresh is the consumer side of Refresh. Signals sent by this
// instance are ignored since Refresh already invalidated.
func (s *ReportService) HandleRefresh(ctx context.Context, msg *amqp.DataRefreshMessage) error {
	if msg.Origin != "" && msg.Origin == s.instanceID {
		return nil
	}
	s.Invalidate()
	slog.InfoContext(ctx, "Record cache invalidated by refresh signal",
		"origin", msg.Origin,
		"fingerprint", msg.Fingerprint,
		"reason", msg.Reason)
	return nil
}

// Ready checks that the source is reachable, reading it when it has no
// cheaper probe.
func (s *ReportService) Ready(ctx context.Context) error {
	if p, ok := s.reader.(source.Pinger); ok {
		return p.Ping(ctx)
	}
	_, err := s.reader.ReadRows(ctx)
	return err
}
