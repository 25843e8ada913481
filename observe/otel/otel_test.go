package otel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/NetPo4ki/go-intersection/intersection"
)

func sumOf(t *testing.T, rm metricdata.ResourceMetrics, name string) int64 {
	t.Helper()
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "metric %s is %T", name, m.Data)
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			return total
		}
	}
	t.Fatalf("metric %s not found", name)
	return 0
}

func TestObserverRecords(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	obs, err := New(mp)
	require.NoError(t, err)

	c := intersection.New(intersection.WithObserver(obs))
	c.Enter(intersection.East, intersection.West)
	c.Enter(intersection.West, intersection.East)
	c.Leave(intersection.East, intersection.West)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.Equal(t, int64(2), sumOf(t, rm, "intersection.admitted"))
	require.Equal(t, int64(1), sumOf(t, rm, "intersection.departed"))
	require.Equal(t, int64(1), sumOf(t, rm, "intersection.residents"))

	c.Leave(intersection.West, intersection.East)
	c.Close()
}

func TestObserverNoopProvider(t *testing.T) {
	obs, err := New(noop.NewMeterProvider())
	require.NoError(t, err)
	c := intersection.New(intersection.WithObserver(obs))
	c.Enter(intersection.South, intersection.East)
	c.Leave(intersection.South, intersection.East)
	c.Close()
}
