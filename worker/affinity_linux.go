//go:build linux

package worker

import "golang.org/x/sys/unix"

// pinToCPU binds the calling thread to a single CPU. Callers must hold
// the thread via runtime.LockOSThread first.
func pinToCPU(cpu int) error {
	var set unix.CPUSet
	set.Zero()
	set.Set(cpu)
	return unix.SchedSetaffinity(0, &set)
}
