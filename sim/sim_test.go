package sim

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/NetPo4ki/go-intersection/intersection"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestRunCompletes(t *testing.T) {
	t.Parallel()
	c := intersection.New()
	res, err := Run(context.Background(), c,
		WithVehicles(200), WithConcurrency(32), WithCrossingTime(100*time.Microsecond), WithSeed(7))
	require.NoError(t, err)
	require.Equal(t, 200, res.Vehicles)
	require.GreaterOrEqual(t, res.PeakResidents, 1)
	require.Empty(t, c.Residents())
	c.Close()
}

// laneObserver tracks residents per origin. Hooks are serialized by the
// controller lock.
type laneObserver struct {
	mu      sync.Mutex
	inside  map[intersection.Direction]int
	maxLane int
}

func (o *laneObserver) VehicleArrived(intersection.Route)                     {}
func (o *laneObserver) VehicleBlocked(intersection.Route, intersection.Route) {}
func (o *laneObserver) VehicleAdmitted(r intersection.Route, _ time.Duration, _ int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.inside[r.Origin]++
	o.maxLane = max(o.maxLane, o.inside[r.Origin])
}
func (o *laneObserver) VehicleLeft(r intersection.Route, _ int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.inside[r.Origin]--
}

func TestRunLaneCapacity(t *testing.T) {
	t.Parallel()
	obs := &laneObserver{inside: map[intersection.Direction]int{}}
	c := intersection.New(intersection.WithObserver(obs))
	// same-origin routes never conflict, so only the lane bound limits them
	_, err := Run(context.Background(), c,
		WithVehicles(60), WithLaneCapacity(2), WithCrossingTime(200*time.Microsecond),
		WithRoutes(
			intersection.Route{Origin: intersection.North, Destination: intersection.West},
			intersection.Route{Origin: intersection.North, Destination: intersection.South},
			intersection.Route{Origin: intersection.North, Destination: intersection.East},
		))
	require.NoError(t, err)
	c.Close()

	obs.mu.Lock()
	defer obs.mu.Unlock()
	require.LessOrEqual(t, obs.maxLane, 2)
	require.GreaterOrEqual(t, obs.maxLane, 1)
}

func TestRunCancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := intersection.New()
	res, err := Run(ctx, c, WithVehicles(20))
	require.True(t, errors.Is(err, context.Canceled), "got %v", err)
	require.Zero(t, res.Vehicles)
	c.Close()
}

func TestRunCancelMidway(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	c := intersection.New()
	res, err := Run(ctx, c, WithVehicles(5000), WithConcurrency(8), WithCrossingTime(time.Millisecond))
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Less(t, res.Vehicles, 5000)
	require.Empty(t, c.Residents())
	c.Close()
}

func TestPlan(t *testing.T) {
	t.Parallel()
	a := Plan(50, 42, nil)
	b := Plan(50, 42, nil)
	require.Len(t, a, 50)
	for i := range a {
		require.True(t, a[i].Route.Valid(), "route %s", a[i].Route)
		require.Equal(t, a[i].Route, b[i].Route)
		require.NotEqual(t, a[i].ID, b[i].ID)
	}

	fixed := []intersection.Route{
		{Origin: intersection.South, Destination: intersection.East},
		{Origin: intersection.East, Destination: intersection.West},
	}
	p := Plan(5, 1, fixed)
	require.Equal(t, fixed[0], p[4].Route)
	require.Equal(t, fixed[1], p[3].Route)
}

func TestRunNegativeVehicles(t *testing.T) {
	t.Parallel()
	require.Empty(t, Plan(-3, 1, nil))

	c := intersection.New()
	res, err := Run(context.Background(), c, WithVehicles(-5))
	require.NoError(t, err)
	require.Zero(t, res.Vehicles)
	c.Close()
}
