package otel

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/NetPo4ki/go-intersection/intersection"
)

const scopeName = "github.com/NetPo4ki/go-intersection/observe/otel"

// Observer implements intersection.Observer with OpenTelemetry instruments.
type Observer struct {
	ctx       context.Context
	arrivals  metric.Int64Counter
	blocked   metric.Int64Counter
	admitted  metric.Int64Counter
	departed  metric.Int64Counter
	residents metric.Int64UpDownCounter
	wait      metric.Float64Histogram
}

// New builds an Observer from mp, or from the global provider when mp is nil.
func New(mp metric.MeterProvider) (*Observer, error) {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(scopeName)

	var errs [6]error
	o := &Observer{ctx: context.Background()}
	o.arrivals, errs[0] = meter.Int64Counter("intersection.arrivals",
		metric.WithDescription("Vehicles that called Enter."), metric.WithUnit("{vehicle}"))
	o.blocked, errs[1] = meter.Int64Counter("intersection.blocked",
		metric.WithDescription("Admission attempts that had to wait."), metric.WithUnit("{attempt}"))
	o.admitted, errs[2] = meter.Int64Counter("intersection.admitted",
		metric.WithDescription("Vehicles admitted into the intersection."), metric.WithUnit("{vehicle}"))
	o.departed, errs[3] = meter.Int64Counter("intersection.departed",
		metric.WithDescription("Vehicles that left the intersection."), metric.WithUnit("{vehicle}"))
	o.residents, errs[4] = meter.Int64UpDownCounter("intersection.residents",
		metric.WithDescription("Vehicles currently inside the intersection."), metric.WithUnit("{vehicle}"))
	o.wait, errs[5] = meter.Float64Histogram("intersection.admission.wait",
		metric.WithDescription("Time from Enter to admission."), metric.WithUnit("s"))
	if err := errors.Join(errs[:]...); err != nil {
		return nil, err
	}
	return o, nil
}

func routeAttrs(r intersection.Route) metric.MeasurementOption {
	return metric.WithAttributes(
		attribute.String("origin", r.Origin.String()),
		attribute.String("destination", r.Destination.String()),
	)
}

func (o *Observer) VehicleArrived(r intersection.Route) {
	o.arrivals.Add(o.ctx, 1, routeAttrs(r))
}

func (o *Observer) VehicleBlocked(r intersection.Route, _ intersection.Route) {
	o.blocked.Add(o.ctx, 1, routeAttrs(r))
}

func (o *Observer) VehicleAdmitted(r intersection.Route, wait time.Duration, _ int) {
	attrs := routeAttrs(r)
	o.admitted.Add(o.ctx, 1, attrs)
	o.residents.Add(o.ctx, 1)
	o.wait.Record(o.ctx, wait.Seconds(), attrs)
}

func (o *Observer) VehicleLeft(r intersection.Route, _ int) {
	o.departed.Add(o.ctx, 1, routeAttrs(r))
	o.residents.Add(o.ctx, -1)
}
