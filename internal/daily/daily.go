// Package daily derives the "creature of the day": every player who starts a
// daily session on the same UTC date gets the same target.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Index returns a deterministic index for a date using HMAC(salt, YYYY-MM-DD) % n.
func Index(date time.Time, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for the modulus
	v := binary.BigEndian.Uint64(sum[:8])
	return int(v % uint64(n))
}

// Picker always picks the day's index. It satisfies game.Picker.
// Resetting a daily session therefore yields the same creature again.
type Picker struct {
	Date time.Time
	Salt string
}

// Today returns the picker for the current UTC date.
func Today(salt string) Picker {
	return Picker{Date: time.Now().UTC(), Salt: salt}
}

func (p Picker) IntN(n int) int { return Index(p.Date, p.Salt, n) }
