//go:build !linux

package platform

import "github.com/apportable/openal-soft/internal/applog"

// GenericRealTimeThread is the non-Linux fallback: the source's
// SCHED_RR/prctl calls are Linux-specific, so elsewhere the producer
// simply runs at the Go scheduler's default priority.
type GenericRealTimeThread struct{}

func (GenericRealTimeThread) Apply(threadName string) {
	applog.L().Debug("real-time scheduling not available on this platform", "thread", threadName)
}
