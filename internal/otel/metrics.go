package otel

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "dockpane"

// Metrics holds all OTEL metric instruments for dockpane.
// All counters are cumulative (monotonic) and safe for concurrent use.
type Metrics struct {
	// Controller operation counters (partitioned by edge + panel via attributes)
	PanelOpens    metric.Int64Counter
	PanelCloses   metric.Int64Counter
	PanelToggles  metric.Int64Counter
	PanelSwitches metric.Int64Counter

	// Close-wait instrumentation
	CloseWaitPolls    metric.Int64Counter
	CloseWaitDuration metric.Float64Histogram

	// Externally-triggered panel reconciliations (setup-window path)
	Reconciliations metric.Int64Counter
}

// NewMetrics creates all metric instruments. Returns no-op instruments
// when no MeterProvider is registered (safe to call unconditionally).
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.PanelOpens, err = meter.Int64Counter("panel.opens",
		metric.WithDescription("Panel open operations, partitioned by edge and panel"))
	if err != nil {
		return nil, err
	}

	m.PanelCloses, err = meter.Int64Counter("panel.closes",
		metric.WithDescription("Panel close operations, partitioned by edge and panel"))
	if err != nil {
		return nil, err
	}

	m.PanelToggles, err = meter.Int64Counter("panel.toggles",
		metric.WithDescription("Panel toggle operations, partitioned by edge and panel"))
	if err != nil {
		return nil, err
	}

	m.PanelSwitches, err = meter.Int64Counter("panel.switches",
		metric.WithDescription("Panel switch operations that displaced a sibling panel"))
	if err != nil {
		return nil, err
	}

	m.CloseWaitPolls, err = meter.Int64Counter("close_wait.polls",
		metric.WithDescription("Number of polls spent waiting for panel windows to disappear"))
	if err != nil {
		return nil, err
	}

	m.CloseWaitDuration, err = meter.Float64Histogram("close_wait.duration",
		metric.WithDescription("Time spent waiting for panel windows to disappear"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	m.Reconciliations, err = meter.Int64Counter("panel.reconciliations",
		metric.WithDescription("Layout reconciliations of panels opened outside the controller"))
	if err != nil {
		return nil, err
	}

	return m, nil
}

func panelAttrs(edge, panel string) metric.AddOption {
	return metric.WithAttributes(
		attribute.String("panel.edge", edge),
		attribute.String("panel.name", panel),
	)
}

// RecordOpen records a panel open operation.
func (m *Metrics) RecordOpen(ctx context.Context, edge, panel string) {
	if m == nil {
		return
	}
	m.PanelOpens.Add(ctx, 1, panelAttrs(edge, panel))
}

// RecordClose records a panel close operation.
func (m *Metrics) RecordClose(ctx context.Context, edge, panel string) {
	if m == nil {
		return
	}
	m.PanelCloses.Add(ctx, 1, panelAttrs(edge, panel))
}

// RecordToggle records a panel toggle operation.
func (m *Metrics) RecordToggle(ctx context.Context, edge, panel string) {
	if m == nil {
		return
	}
	m.PanelToggles.Add(ctx, 1, panelAttrs(edge, panel))
}

// RecordSwitch records an open that displaced at least one sibling panel.
func (m *Metrics) RecordSwitch(ctx context.Context, edge, panel string) {
	if m == nil {
		return
	}
	m.PanelSwitches.Add(ctx, 1, panelAttrs(edge, panel))
}

// RecordCloseWait records one completed close-wait with its poll count.
func (m *Metrics) RecordCloseWait(ctx context.Context, edge string, polls int, elapsed time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("panel.edge", edge))
	m.CloseWaitPolls.Add(ctx, int64(polls), attrs)
	m.CloseWaitDuration.Record(ctx, elapsed.Seconds(),
		metric.WithAttributes(attribute.String("panel.edge", edge)))
}

// RecordReconciliation records a setup-window reconciliation.
func (m *Metrics) RecordReconciliation(ctx context.Context, edge, panel string) {
	if m == nil {
		return
	}
	m.Reconciliations.Add(ctx, 1, panelAttrs(edge, panel))
}
