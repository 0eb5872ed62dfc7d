package game

import (
	"crypto/rand"
	"fmt"
	"hash/fnv"
	"math/big"
	mrand "math/rand/v2"
)

// Picker chooses a target index in [0, n). *math/rand/v2.Rand satisfies it.
type Picker interface {
	IntN(n int) int
}

// CryptoPicker draws uniformly from crypto/rand. It is the default.
type CryptoPicker struct{}

func (CryptoPicker) IntN(n int) int {
	if n <= 1 {
		return 0
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}

// SeededPicker returns a deterministic picker for tests and replays.
// The same seed always yields the same sequence of targets.
func SeededPicker(seed int64) Picker {
	// #nosec G404 -- reproducibility is the point here.
	return mrand.New(mrand.NewPCG(seedWord(seed, "a"), seedWord(seed, "b")))
}

func seedWord(seed int64, salt string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(fmt.Sprintf("%d:%s", seed, salt)))
	return h.Sum64()
}

// pick maps the picker's answer into range even if the picker misbehaves.
func pick(p Picker, n int) int {
	i := p.IntN(n) % n
	if i < 0 {
		i += n
	}
	return i
}
