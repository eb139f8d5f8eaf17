// Package applog wraps charmbracelet/log with a backend-wide logger and
// per-device loggers that carry the device name, in place of Direwolf's
// dw_printf/text_color_set pair.
package applog

import (
	"os"

	"github.com/charmbracelet/log"
)

var base = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	Prefix:          "opensl",
})

// SetLevel adjusts verbosity; the demo command uses it to enable
// debug-level output.
func SetLevel(l log.Level) { base.SetLevel(l) }

// Device returns a logger scoped to one device, carrying its name on every
// subsequent call the way Direwolf tags messages with the channel number.
func Device(name string) *log.Logger {
	return base.With("device", name)
}

// L returns the unscoped backend-wide logger, used by the engine and probe
// which are process-global rather than per-device.
func L() *log.Logger { return base }
