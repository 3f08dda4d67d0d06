// Package otelh records store hook events as OpenTelemetry metrics.
//
// Entity keys are unbounded cardinality and never become attributes;
// only the load source and invalidation reason are attached.
package otelh

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/LexiestLeszek/jasondb"
)

type Hooks struct {
	loads         metric.Int64Counter
	loadDuration  metric.Float64Histogram
	corrupt       metric.Int64Counter
	saves         metric.Int64Counter
	saveDuration  metric.Float64Histogram
	writeErrors   metric.Int64Counter
	invalidations metric.Int64Counter
}

var _ jasondb.Hooks = (*Hooks)(nil)

func New(meter metric.Meter) (*Hooks, error) {
	loads, err := meter.Int64Counter(
		"jasondb.load.total",
		metric.WithDescription("Total number of document loads"),
		metric.WithUnit("{load}"),
	)
	if err != nil {
		return nil, err
	}

	loadDuration, err := meter.Float64Histogram(
		"jasondb.load.duration_ms",
		metric.WithDescription("Document load duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	corrupt, err := meter.Int64Counter(
		"jasondb.load.corrupt",
		metric.WithDescription("Total number of loads that hit undecodable stored data"),
		metric.WithUnit("{document}"),
	)
	if err != nil {
		return nil, err
	}

	saves, err := meter.Int64Counter(
		"jasondb.save.total",
		metric.WithDescription("Total number of document saves"),
		metric.WithUnit("{save}"),
	)
	if err != nil {
		return nil, err
	}

	saveDuration, err := meter.Float64Histogram(
		"jasondb.save.duration_ms",
		metric.WithDescription("Document save duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	writeErrors, err := meter.Int64Counter(
		"jasondb.save.write_errors",
		metric.WithDescription("Total number of failed backend writes"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	invalidations, err := meter.Int64Counter(
		"jasondb.cache.invalidations",
		metric.WithDescription("Total number of cache invalidations"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, err
	}

	return &Hooks{
		loads:         loads,
		loadDuration:  loadDuration,
		corrupt:       corrupt,
		saves:         saves,
		saveDuration:  saveDuration,
		writeErrors:   writeErrors,
		invalidations: invalidations,
	}, nil
}

func ms(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }

func (h *Hooks) DocumentLoaded(_ string, source jasondb.LoadSource, elapsed time.Duration) {
	ctx := context.Background()
	opt := metric.WithAttributes(attribute.String("source", string(source)))
	h.loads.Add(ctx, 1, opt)
	h.loadDuration.Record(ctx, ms(elapsed), opt)
}

func (h *Hooks) DocumentSaved(_ string, elapsed time.Duration) {
	ctx := context.Background()
	h.saves.Add(ctx, 1)
	h.saveDuration.Record(ctx, ms(elapsed))
}

func (h *Hooks) CacheInvalidated(_ string, reason string) {
	h.invalidations.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("reason", reason)))
}

func (h *Hooks) CorruptDocument(string, error) {
	h.corrupt.Add(context.Background(), 1)
}

func (h *Hooks) WriteFailed(string, error) {
	h.writeErrors.Add(context.Background(), 1)
}
