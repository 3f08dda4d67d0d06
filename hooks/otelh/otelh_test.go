package otelh

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/LexiestLeszek/jasondb"
)

func newTestHooks(t *testing.T) (*Hooks, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	h, err := New(mp.Meter("test"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return h, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}
	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func TestLoadsCountedBySource(t *testing.T) {
	h, reader := newTestHooks(t)

	h.DocumentLoaded("u1", jasondb.SourceCache, time.Millisecond)
	h.DocumentLoaded("u2", jasondb.SourceCache, time.Millisecond)
	h.DocumentLoaded("u3", jasondb.SourceBackend, 2*time.Millisecond)

	rm := collect(t, reader)
	found := findMetric(rm, "jasondb.load.total")
	if found == nil {
		t.Fatal("jasondb.load.total not found")
	}
	sum, ok := found.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("expected Sum[int64], got %T", found.Data)
	}

	bySource := map[string]int64{}
	for _, dp := range sum.DataPoints {
		src, _ := dp.Attributes.Value(attribute.Key("source"))
		bySource[src.AsString()] = dp.Value
	}
	if bySource["cache"] != 2 || bySource["backend"] != 1 {
		t.Fatalf("loads by source = %v", bySource)
	}
}

func TestLoadDurationRecorded(t *testing.T) {
	h, reader := newTestHooks(t)

	h.DocumentLoaded("u1", jasondb.SourceBackend, 5*time.Millisecond)

	rm := collect(t, reader)
	found := findMetric(rm, "jasondb.load.duration_ms")
	if found == nil {
		t.Fatal("jasondb.load.duration_ms not found")
	}
	hist, ok := found.Data.(metricdata.Histogram[float64])
	if !ok {
		t.Fatalf("expected Histogram[float64], got %T", found.Data)
	}
	if len(hist.DataPoints) == 0 || hist.DataPoints[0].Count != 1 {
		t.Fatalf("histogram data points = %+v", hist.DataPoints)
	}
	if got := hist.DataPoints[0].Sum; got != 5 {
		t.Fatalf("recorded %v ms, want 5", got)
	}
}

func TestSaveAndErrorCounters(t *testing.T) {
	h, reader := newTestHooks(t)

	h.DocumentSaved("u1", time.Millisecond)
	h.DocumentSaved("u1", time.Millisecond)
	h.WriteFailed("u1", errors.New("disk full"))

	rm := collect(t, reader)

	saves := findMetric(rm, "jasondb.save.total")
	if saves == nil {
		t.Fatal("jasondb.save.total not found")
	}
	if sum := saves.Data.(metricdata.Sum[int64]); sum.DataPoints[0].Value != 2 {
		t.Fatalf("saves = %d, want 2", sum.DataPoints[0].Value)
	}

	werr := findMetric(rm, "jasondb.save.write_errors")
	if werr == nil {
		t.Fatal("jasondb.save.write_errors not found")
	}
	if sum := werr.Data.(metricdata.Sum[int64]); sum.DataPoints[0].Value != 1 {
		t.Fatalf("write errors = %d, want 1", sum.DataPoints[0].Value)
	}
}

func TestInvalidationsCountedByReason(t *testing.T) {
	h, reader := newTestHooks(t)

	h.CacheInvalidated("u1", "manual")
	h.CacheInvalidated("u1", "save_failed")
	h.CacheInvalidated("u2", "save_failed")

	rm := collect(t, reader)
	found := findMetric(rm, "jasondb.cache.invalidations")
	if found == nil {
		t.Fatal("jasondb.cache.invalidations not found")
	}
	sum := found.Data.(metricdata.Sum[int64])

	byReason := map[string]int64{}
	for _, dp := range sum.DataPoints {
		r, _ := dp.Attributes.Value(attribute.Key("reason"))
		byReason[r.AsString()] = dp.Value
	}
	if byReason["manual"] != 1 || byReason["save_failed"] != 2 {
		t.Fatalf("invalidations by reason = %v", byReason)
	}
}

func TestCorruptCounter(t *testing.T) {
	h, reader := newTestHooks(t)

	h.CorruptDocument("u1", errors.New("bad json"))

	rm := collect(t, reader)
	found := findMetric(rm, "jasondb.load.corrupt")
	if found == nil {
		t.Fatal("jasondb.load.corrupt not found")
	}
	if sum := found.Data.(metricdata.Sum[int64]); sum.DataPoints[0].Value != 1 {
		t.Fatalf("corrupt = %d, want 1", sum.DataPoints[0].Value)
	}
}
