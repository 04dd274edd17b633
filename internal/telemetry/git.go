package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/argus-ci/argus-cli/internal/git"
)

const gitScopeName = "github.com/argus-ci/argus-cli/git"

// InstrumentedGit wraps git.Queries with OTel tracing and metrics.
// Every query gets a span and is counted in argus.git.* metrics.
// Use WrapGit to create one; it returns the original queries unchanged when
// telemetry is disabled.
type InstrumentedGit struct {
	inner  git.Queries
	tracer trace.Tracer
	ops    metric.Int64Counter
	dur    metric.Float64Histogram
	errs   metric.Int64Counter
}

// WrapGit returns q decorated with OTel instrumentation.
// When telemetry is disabled, q is returned as-is with zero overhead.
func WrapGit(q git.Queries) git.Queries {
	if !Enabled() {
		return q
	}
	m := Meter(gitScopeName)
	ops, _ := m.Int64Counter("argus.git.operations",
		metric.WithDescription("Total git queries executed"),
	)
	dur, _ := m.Float64Histogram("argus.git.operation.duration",
		metric.WithDescription("Git query duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	errs, _ := m.Int64Counter("argus.git.errors",
		metric.WithDescription("Total git query errors"),
	)
	return &InstrumentedGit{
		inner:  q,
		tracer: Tracer(gitScopeName),
		ops:    ops,
		dur:    dur,
		errs:   errs,
	}
}

// op starts a span and records a metric for the named git query.
func (g *InstrumentedGit) op(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span, time.Time) {
	all := append([]attribute.KeyValue{attribute.String("git.operation", name)}, attrs...)
	ctx, span := g.tracer.Start(ctx, "git."+name,
		trace.WithAttributes(all...),
		trace.WithSpanKind(trace.SpanKindClient),
	)
	g.ops.Add(ctx, 1, metric.WithAttributes(all...))
	return ctx, span, time.Now()
}

// done ends the span, records duration and optional error.
func (g *InstrumentedGit) done(ctx context.Context, span trace.Span, start time.Time, err error, attrs ...attribute.KeyValue) {
	ms := float64(time.Since(start).Milliseconds())
	g.dur.Record(ctx, ms, metric.WithAttributes(attrs...))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		g.errs.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
	span.End()
}

func (g *InstrumentedGit) Commit(ctx context.Context, ref string) (git.CommitInfo, error) {
	attrs := []attribute.KeyValue{attribute.String("argus.git.ref", ref)}
	ctx, span, t := g.op(ctx, "Commit", attrs...)
	v, err := g.inner.Commit(ctx, ref)
	g.done(ctx, span, t, err, attrs...)
	return v, err
}

func (g *InstrumentedGit) Branch(ctx context.Context) (string, error) {
	ctx, span, t := g.op(ctx, "Branch")
	v, err := g.inner.Branch(ctx)
	g.done(ctx, span, t, err)
	return v, err
}

func (g *InstrumentedGit) HasCommits(ctx context.Context) (bool, error) {
	ctx, span, t := g.op(ctx, "HasCommits")
	v, err := g.inner.HasCommits(ctx)
	g.done(ctx, span, t, err)
	return v, err
}
