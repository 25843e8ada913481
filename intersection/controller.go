package intersection

import (
	"slices"
	"sync"
	"time"

	"github.com/samber/lo"
)

type Option func(*Options)

type Options struct {
	Observer     Observer
	MaxResidents int
}

func defaultOptions() Options { return Options{} }

func WithObserver(obs Observer) Option { return func(o *Options) { o.Observer = obs } }

// WithMaxResidents caps how many vehicles may be inside at once. n <= 0 means
// no cap beyond route compatibility.
func WithMaxResidents(n int) Option { return func(o *Options) { o.MaxResidents = n } }

// Controller admits vehicles into one intersection. Every pair of residents
// is Compatible at all times. A Controller must be created with New and
// retired with Close.
type Controller struct {
	mu        sync.Mutex
	cond      *sync.Cond
	residents []Route
	waiting   int
	closed    bool

	opts Options
	obs  Observer
}

func New(optFns ...Option) *Controller {
	c := &Controller{opts: defaultOptions()}
	for _, fn := range optFns {
		fn(&c.opts)
	}
	c.obs = c.opts.Observer
	c.cond = sync.NewCond(&c.mu)
	c.residents = make([]Route, 0, len(Directions))
	return c
}

// Enter blocks until a vehicle travelling from origin to destination can
// safely be inside the intersection, then records it as a resident.
// There is no timeout: a blocked caller waits until some Leave makes room.
func (c *Controller) Enter(origin, destination Direction) {
	r := Route{Origin: origin, Destination: destination}
	c.lock("enter", r)
	defer c.mu.Unlock()

	var start time.Time
	if c.obs != nil {
		start = time.Now()
		c.obs.VehicleArrived(r)
	}
	attempts := 1
	for {
		blocker, ok := c.admit(r)
		if ok {
			break
		}
		if c.obs != nil {
			c.obs.VehicleBlocked(r, blocker)
		}
		c.waiting++
		c.cond.Wait()
		c.waiting--
		attempts++
	}
	if c.obs != nil {
		c.obs.VehicleAdmitted(r, time.Since(start), attempts)
	}
}

// admit inserts r if it fits alongside every resident. c.mu must be held.
func (c *Controller) admit(r Route) (blocker Route, ok bool) {
	if c.opts.MaxResidents > 0 && len(c.residents) >= c.opts.MaxResidents {
		return Route{}, false
	}
	blocker, found := lo.Find(c.residents, func(existing Route) bool {
		return !Compatible(existing, r)
	})
	if found {
		return blocker, false
	}
	c.residents = append(c.residents, r)
	return Route{}, true
}

// Leave removes one resident on the given route and wakes every waiting
// Enter call so each can re-check admission.
func (c *Controller) Leave(origin, destination Direction) {
	r := Route{Origin: origin, Destination: destination}
	c.lock("leave", r)
	defer c.mu.Unlock()

	i := lo.IndexOf(c.residents, r)
	if i < 0 {
		violation(ErrCodeNotResident, r, "leave %s without a matching enter", r)
	}
	c.residents = slices.Delete(c.residents, i, i+1)
	c.cond.Broadcast()
	if c.obs != nil {
		c.obs.VehicleLeft(r, len(c.residents))
	}
}

// Close retires the controller. It panics if any vehicle is still inside or
// still waiting, since either means Enter and Leave were not paired.
func (c *Controller) Close() {
	c.lock("close", Route{})
	defer c.mu.Unlock()

	if n := len(c.residents); n > 0 {
		violation(ErrCodeResidentsRemain, c.residents[0], "%d vehicle(s) still inside: %v", n, c.residents)
	}
	if c.waiting > 0 {
		violation(ErrCodeWaitersRemain, Route{}, "%d vehicle(s) blocked in enter", c.waiting)
	}
	c.closed = true
	c.residents = nil
}

// Residents returns a copy of the routes currently inside, in admission order.
func (c *Controller) Residents() []Route {
	if c == nil || c.cond == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.residents)
}

// Waiting returns the number of Enter calls currently blocked.
func (c *Controller) Waiting() int {
	if c == nil || c.cond == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.waiting
}

// lock acquires c.mu for op, panicking if the controller is not usable.
func (c *Controller) lock(op string, r Route) {
	if c == nil || c.cond == nil {
		violation(ErrCodeNotInitialized, r, "%s on a controller not created by New", op)
	}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		violation(ErrCodeClosed, r, "%s after close", op)
	}
}
