// Package stats periodically logs the enqueue, bytes-moved and retry
// counters of every tracked device; ring occupancy and underruns are not
// reported. It follows the periodic-reporting shape of the
// teacher's audio statistics reporting (logged every statistics_interval
// seconds) and its use of strftime-formatted timestamps (src/tq.go).
package stats

import (
	"context"
	"time"

	"github.com/lestrrat-go/strftime"

	"github.com/apportable/openal-soft/internal/applog"
	"github.com/apportable/openal-soft/internal/pump"
)

// TimestampFormat is the strftime pattern used for each report line.
const TimestampFormat = "%Y-%m-%d %H:%M:%S"

// Source is anything stats can poll for a snapshot; internal/device.Device
// satisfies this without internal/stats importing internal/device
// directly, keeping the dependency direction reporting -> pump only.
type Source interface {
	Stats() pump.StatsSnapshot
}

// Reporter periodically logs each tracked device's pump counters.
type Reporter struct {
	interval time.Duration
	devices  map[string]Source
}

// NewReporter builds a Reporter that logs every interval.
func NewReporter(interval time.Duration) *Reporter {
	return &Reporter{interval: interval, devices: make(map[string]Source)}
}

// Track registers a device name to include in periodic reports.
func (r *Reporter) Track(name string, src Source) {
	r.devices[name] = src
}

// Untrack removes a device from periodic reports (e.g. on Close).
func (r *Reporter) Untrack(name string) {
	delete(r.devices, name)
}

// Run logs a report every interval until ctx is cancelled.
func (r *Reporter) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.reportOnce()
		}
	}
}

func (r *Reporter) reportOnce() {
	ts, err := strftime.Format(TimestampFormat, time.Now())
	if err != nil {
		applog.L().Warn("stats: failed to format timestamp", "err", err)
		ts = time.Now().String()
	}
	for name, src := range r.devices {
		snap := src.Stats()
		applog.L().Info("pump stats",
			"time", ts,
			"device", name,
			"enqueued", snap.Enqueued,
			"bytesMoved", snap.BytesMoved,
			"retries", snap.Retries,
		)
	}
}
