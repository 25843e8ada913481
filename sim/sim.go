package sim

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"k8s.io/klog/v2"

	"github.com/NetPo4ki/go-intersection/intersection"
)

// ErrConflict is returned when a run observes two incompatible residents.
var ErrConflict = errors.New("sim: incompatible vehicles inside the intersection")

type Option func(*Options)

type Options struct {
	Vehicles     int
	Concurrency  int
	LaneCapacity int
	CrossingTime time.Duration
	Seed         uint64
	Routes       []intersection.Route
}

func defaultOptions() Options {
	return Options{Vehicles: 100, CrossingTime: time.Millisecond, Seed: 1}
}

func WithVehicles(n int) Option { return func(o *Options) { o.Vehicles = n } }

// WithConcurrency bounds how many vehicle goroutines exist at once. n <= 0
// starts every vehicle immediately.
func WithConcurrency(n int) Option { return func(o *Options) { o.Concurrency = n } }

// WithLaneCapacity bounds how many vehicles from one origin may be queued at
// or inside the intersection at once.
func WithLaneCapacity(n int) Option { return func(o *Options) { o.LaneCapacity = n } }

func WithCrossingTime(d time.Duration) Option { return func(o *Options) { o.CrossingTime = d } }

func WithSeed(seed uint64) Option { return func(o *Options) { o.Seed = seed } }

// WithRoutes makes vehicles cycle through routes instead of picking at random.
func WithRoutes(routes ...intersection.Route) Option {
	return func(o *Options) { o.Routes = routes }
}

// Vehicle is one simulated trip.
type Vehicle struct {
	ID    uuid.UUID
	Route intersection.Route
}

// Result summarizes a run.
type Result struct {
	Vehicles      int
	PeakResidents int
	MaxWait       time.Duration
	Elapsed       time.Duration
}

// Plan returns n vehicles. With routes empty each vehicle gets a random valid
// route drawn from seed; otherwise vehicles take routes in turn. A negative n
// yields no vehicles.
func Plan(n int, seed uint64, routes []intersection.Route) []Vehicle {
	n = max(n, 0)
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	all := intersection.Routes()
	out := make([]Vehicle, n)
	for i := range out {
		var r intersection.Route
		if len(routes) > 0 {
			r = routes[i%len(routes)]
		} else {
			r = all[rng.IntN(len(all))]
		}
		out[i] = Vehicle{ID: uuid.New(), Route: r}
	}
	return out
}

type stats struct {
	mu      sync.Mutex
	done    int
	peak    int
	maxWait time.Duration
}

func (s *stats) record(residents int, wait time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.done++
	s.peak = max(s.peak, residents)
	s.maxWait = max(s.maxWait, wait)
}

// Run sends every planned vehicle through c and waits for all of them. A
// vehicle that has not yet entered gives up when ctx is done; a vehicle
// already inside always finishes crossing and leaves. Run does not close c.
func Run(ctx context.Context, c *intersection.Controller, optFns ...Option) (Result, error) {
	o := defaultOptions()
	for _, fn := range optFns {
		fn(&o)
	}
	logger := klog.FromContext(ctx).WithName("sim")
	plan := Plan(o.Vehicles, o.Seed, o.Routes)

	var lanes map[intersection.Direction]*semaphore.Weighted
	if o.LaneCapacity > 0 {
		lanes = make(map[intersection.Direction]*semaphore.Weighted, len(intersection.Directions))
		for _, d := range intersection.Directions {
			lanes[d] = semaphore.NewWeighted(int64(o.LaneCapacity))
		}
	}

	logger.Info("Simulation started", "vehicles", len(plan), "concurrency", o.Concurrency,
		"laneCapacity", o.LaneCapacity, "crossingTime", o.CrossingTime)
	start := time.Now()
	st := &stats{}
	g, gctx := errgroup.WithContext(ctx)
	if o.Concurrency > 0 {
		g.SetLimit(o.Concurrency)
	}
	for _, v := range plan {
		g.Go(func() error {
			return drive(gctx, c, v, lanes[v.Route.Origin], o.CrossingTime, st)
		})
	}
	err := g.Wait()

	st.mu.Lock()
	res := Result{Vehicles: st.done, PeakResidents: st.peak, MaxWait: st.maxWait, Elapsed: time.Since(start)}
	st.mu.Unlock()
	if err != nil {
		logger.Error(err, "Simulation aborted", "completed", res.Vehicles)
		return res, err
	}
	logger.Info("Simulation finished", "vehicles", res.Vehicles, "peakResidents", res.PeakResidents,
		"maxWait", res.MaxWait, "elapsed", res.Elapsed)
	return res, nil
}

func drive(ctx context.Context, c *intersection.Controller, v Vehicle, lane *semaphore.Weighted, crossing time.Duration, st *stats) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if lane != nil {
		if err := lane.Acquire(ctx, 1); err != nil {
			return fmt.Errorf("vehicle %s queued on %s approach: %w", v.ID, v.Route.Origin, err)
		}
		defer lane.Release(1)
	}

	start := time.Now()
	c.Enter(v.Route.Origin, v.Route.Destination)
	wait := time.Since(start)
	defer c.Leave(v.Route.Origin, v.Route.Destination)

	residents := c.Residents()
	if a, b, found := intersection.FindConflict(residents); found {
		return fmt.Errorf("%w: %s and %s (vehicle %s)", ErrConflict, a, b, v.ID)
	}
	st.record(len(residents), wait)
	if crossing > 0 {
		time.Sleep(crossing)
	}
	return nil
}
