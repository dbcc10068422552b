package utils

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	pkgerrors "kvvec/pkg/errors"
	"kvvec/pkg/logger"
)

const statmPath = "/proc/self/statm"

// MemUsage returns the resident set size of the process in KiB.
func MemUsage() (uint64, error) {
	return memUsageFrom(statmPath)
}

// MustMemUsage is MemUsage that terminates the process when the stats
// cannot be read.
func MustMemUsage() uint64 {
	rss, err := MemUsage()
	if err != nil {
		logger.Fatal("cannot read memory usage", "error", err)
	}
	return rss
}

func memUsageFrom(path string) (uint64, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", pkgerrors.ErrMemStatUnavailable, err)
	}
	fields := strings.Fields(string(raw))
	if len(fields) < 2 {
		return 0, fmt.Errorf("%w: malformed %s", pkgerrors.ErrMemStatUnavailable, path)
	}
	pages, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", pkgerrors.ErrMemStatUnavailable, err)
	}
	return pages * uint64(pageSize()) / KiB, nil
}
