package utils

import (
	"os"
	"time"
)

// StrongSeed derives a seed from process CPU time, wall clock and pid.
// It is not suitable for anything security sensitive.
func StrongSeed() uint64 {
	a := processClock()
	b := uint64(time.Now().UnixMicro())
	c := uint64(os.Getpid())
	return mix96(a, b, c)
}

// mix96 is Robert Jenkins' 96 bit mix function, returning c.
func mix96(a, b, c uint64) uint64 {
	a -= b
	a -= c
	a ^= c >> 13
	b -= c
	b -= a
	b ^= a << 8
	c -= a
	c -= b
	c ^= b >> 13
	a -= b
	a -= c
	a ^= c >> 12
	b -= c
	b -= a
	b ^= a << 16
	c -= a
	c -= b
	c ^= b >> 5
	a -= b
	a -= c
	a ^= c >> 3
	b -= c
	b -= a
	b ^= a << 10
	c -= a
	c -= b
	c ^= b >> 15
	return c
}
