//go:build unix

package utils

import "golang.org/x/sys/unix"

// processClock returns the CPU time consumed by the process in microseconds.
func processClock() uint64 {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return 0
	}
	return uint64(ru.Utime.Nano()/1000 + ru.Stime.Nano()/1000)
}

func pageSize() int {
	return unix.Getpagesize()
}
