package intersection

import "time"

// Observer receives controller events. Hooks run while the controller lock
// is held, so implementations must be quick and must not call back into the
// Controller.
type Observer interface {
	VehicleArrived(r Route)
	// VehicleBlocked reports a failed admission attempt. blocker is the first
	// incompatible resident, or the zero Route when the occupancy cap was hit.
	VehicleBlocked(r Route, blocker Route)
	VehicleAdmitted(r Route, wait time.Duration, attempts int)
	VehicleLeft(r Route, residents int)
}

type multiObserver []Observer

// Multi fans every event out to each non-nil observer, in order.
func Multi(obs ...Observer) Observer {
	m := make(multiObserver, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			m = append(m, o)
		}
	}
	return m
}

func (m multiObserver) VehicleArrived(r Route) {
	for _, o := range m {
		o.VehicleArrived(r)
	}
}

func (m multiObserver) VehicleBlocked(r Route, blocker Route) {
	for _, o := range m {
		o.VehicleBlocked(r, blocker)
	}
}

func (m multiObserver) VehicleAdmitted(r Route, wait time.Duration, attempts int) {
	for _, o := range m {
		o.VehicleAdmitted(r, wait, attempts)
	}
}

func (m multiObserver) VehicleLeft(r Route, residents int) {
	for _, o := range m {
		o.VehicleLeft(r, residents)
	}
}
