// Package health reports whether the process can keep running.
package health

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// DiskThreshold is the minimum usable space for the service to report UP.
const DiskThreshold uint64 = 10 * 1024 * 1024

const (
	StatusUp   = "UP"
	StatusDown = "DOWN"
)

type Report struct {
	Status  string         `json:"status"`
	Details map[string]any `json:"details"`
}

// UsableDisk checks the usable bytes of the filesystem holding path.
func UsableDisk(path string) (Report, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return Report{Status: StatusDown}, fmt.Errorf("statfs %s: %w", path, err)
	}
	usable := st.Bavail * uint64(st.Bsize)
	return Evaluate(usable), nil
}

func Evaluate(usable uint64) Report {
	status := StatusUp
	if usable < DiskThreshold {
		status = StatusDown
	}
	return Report{
		Status: status,
		Details: map[string]any{
			"usable memory": usable,
			"threshold":     DiskThreshold,
		},
	}
}
