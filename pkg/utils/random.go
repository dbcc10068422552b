package utils

import (
	"math/rand/v2"
	"sync"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

var (
	rngOnce sync.Once
	rngMu   sync.Mutex
	rng     *rand.Rand
)

func sharedRand() *rand.Rand {
	rngOnce.Do(func() {
		seed := StrongSeed()
		rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	})
	return rng
}

// RandomString fills buf with characters from [a-z0-9].
// The generator is not cryptographically secure.
func RandomString(buf []byte) {
	r := sharedRand()
	rngMu.Lock()
	defer rngMu.Unlock()
	for i := range buf {
		buf[i] = alphabet[r.IntN(len(alphabet))]
	}
}

// NewRandomString returns a random [a-z0-9] string of length n.
func NewRandomString(n int) string {
	buf := make([]byte, n)
	RandomString(buf)
	return string(buf)
}
