package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Decisions records authorization decision metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must honor cancellation/deadlines and return quickly.
// - Errors: implementations must not panic.
type Decisions interface {
	// RecordDecision records one authorization decision. kind is empty
	// for allowed requests and names the denial category otherwise.
	RecordDecision(ctx context.Context, tool string, devMode bool, duration time.Duration, kind string)
}

// decisionsImpl is the concrete implementation of Decisions.
type decisionsImpl struct {
	meter        metric.Meter
	totalCount   metric.Int64Counter
	denialCount  metric.Int64Counter
	durationHist metric.Float64Histogram
}

// NewDecisions creates a Decisions instance backed by the given meter.
func NewDecisions(meter metric.Meter) (Decisions, error) {
	totalCount, err := meter.Int64Counter(
		"authz.decisions.total",
		metric.WithDescription("Total number of authorization decisions"),
		metric.WithUnit("{decision}"),
	)
	if err != nil {
		return nil, err
	}

	denialCount, err := meter.Int64Counter(
		"authz.denials.total",
		metric.WithDescription("Total number of denied authorization requests"),
		metric.WithUnit("{denial}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"authz.duration_ms",
		metric.WithDescription("Authorization pipeline duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &decisionsImpl{
		meter:        meter,
		totalCount:   totalCount,
		denialCount:  denialCount,
		durationHist: durationHist,
	}, nil
}

// RecordDecision records metrics for one authorization decision.
func (d *decisionsImpl) RecordDecision(ctx context.Context, tool string, devMode bool, duration time.Duration, kind string) {
	decision := "allow"
	if kind != "" {
		decision = "deny"
	}

	attrs := []attribute.KeyValue{
		attribute.String("tool", tool),
		attribute.String("decision", decision),
		attribute.Bool("dev_mode", devMode),
	}
	opt := metric.WithAttributes(attrs...)

	d.totalCount.Add(ctx, 1, opt)

	if kind != "" {
		d.denialCount.Add(ctx, 1, metric.WithAttributes(
			append(attrs, attribute.String("kind", kind))...,
		))
	}

	d.durationHist.Record(ctx, float64(duration.Microseconds())/1000.0, opt)
}

// NopDecisions is a Decisions implementation that records nothing.
type NopDecisions struct{}

func (NopDecisions) RecordDecision(ctx context.Context, tool string, devMode bool, duration time.Duration, kind string) {
}
