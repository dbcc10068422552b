//go:build !unix

package utils

import (
	"os"
	"time"
)

var processStart = time.Now()

func processClock() uint64 {
	return uint64(time.Since(processStart).Microseconds())
}

func pageSize() int {
	return os.Getpagesize()
}
