//go:build linux

package platform

// NewRealTimeThread returns the platform's real-time thread scheduler.
func NewRealTimeThread() RealTimeThread { return LinuxRealTimeThread{} }
