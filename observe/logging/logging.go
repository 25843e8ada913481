// Package logging writes intersection controller events to klog as
// structured records.
package logging

import (
	"time"

	"k8s.io/klog/v2"

	"github.com/NetPo4ki/go-intersection/intersection"
)

// Verbosity levels used by Observer.
const (
	LevelTraffic klog.Level = 2
	LevelBlocked klog.Level = 4
)

// Observer logs through a klog.Logger.
type Observer struct {
	logger klog.Logger
}

// New returns an Observer writing to logger. A zero logger falls back to the
// global klog logger.
func New(logger klog.Logger) *Observer {
	if logger.GetSink() == nil {
		logger = klog.Background()
	}
	return &Observer{logger: logger.WithName("intersection")}
}

func (o *Observer) VehicleArrived(r intersection.Route) {
	o.logger.V(int(LevelBlocked)).Info("Vehicle arrived", "route", r)
}

func (o *Observer) VehicleBlocked(r intersection.Route, blocker intersection.Route) {
	if !blocker.Valid() {
		o.logger.V(int(LevelBlocked)).Info("Vehicle waiting for capacity", "route", r)
		return
	}
	o.logger.V(int(LevelBlocked)).Info("Vehicle waiting", "route", r, "blocker", blocker)
}

func (o *Observer) VehicleAdmitted(r intersection.Route, wait time.Duration, attempts int) {
	o.logger.V(int(LevelTraffic)).Info("Vehicle admitted", "route", r, "wait", wait, "attempts", attempts)
}

func (o *Observer) VehicleLeft(r intersection.Route, residents int) {
	o.logger.V(int(LevelTraffic)).Info("Vehicle left", "route", r, "residents", residents)
}
