//go:build unix

package debug

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// maxRSS returns the peak resident set size in bytes.
func maxRSS() uint64 {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil || ru.Maxrss < 0 {
		return 0
	}
	// Linux reports kilobytes, Darwin bytes.
	if runtime.GOOS == "darwin" {
		return uint64(ru.Maxrss)
	}
	return uint64(ru.Maxrss) * 1024
}
