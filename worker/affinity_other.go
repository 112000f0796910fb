//go:build !linux

package worker

import "errors"

// pinToCPU is unsupported off Linux; workers log the error and carry on
// unpinned.
func pinToCPU(int) error {
	return errors.New("worker: cpu pinning is only supported on linux")
}
