//go:build linux

package platform

import (
	"runtime"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/apportable/openal-soft/internal/applog"
)

// LinuxRealTimeThread raises the calling goroutine's OS thread to
// SCHED_RR at the platform's maximum round-robin priority and names it,
// mirroring the source's pthread_attr_setschedpolicy(SCHED_RR) plus
// prctl(PR_SET_NAME, "OpenAL/sl/m").
type LinuxRealTimeThread struct{}

func (LinuxRealTimeThread) Apply(threadName string) {
	runtime.LockOSThread()

	prio, err := unix.SchedGetPriorityMax(unix.SCHED_RR)
	if err != nil {
		applog.L().Warn("sched_get_priority_max failed, running at default priority", "err", err)
		prio = 0
	}

	if err := unix.SchedSetscheduler(0, unix.SCHED_RR, &unix.SchedParam{Priority: int32(prio)}); err != nil {
		applog.L().Warn("sched_setscheduler(SCHED_RR) failed, running at default priority", "err", err)
	}

	name := threadName
	b := append([]byte(name), 0)
	if len(b) > 16 {
		b = append(b[:15], 0)
	}
	if err := unix.Prctl(unix.PR_SET_NAME, uintptr(unsafe.Pointer(&b[0])), 0, 0, 0); err != nil {
		applog.L().Debug("prctl(PR_SET_NAME) failed", "err", err)
	}
}
