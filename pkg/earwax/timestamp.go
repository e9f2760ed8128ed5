// ABOUTME: Exact presentation timestamps
// ABOUTME: A tick count against a rational time base, with seconds conversion
package earwax

import (
	"fmt"
	"math"
	"math/big"
	"time"
)

// Timestamp is a point in time: pts ticks of time base duration each
type Timestamp struct {
	timeBase Rational
	pts      int64
}

// NewTimestamp returns a zero-tick timestamp in the given time base
func NewTimestamp(timeBase Rational) Timestamp {
	return Timestamp{timeBase: timeBase}
}

// TimestampFromPTS wraps a raw tick count reported by the decoder
func TimestampFromPTS(timeBase Rational, pts int64) Timestamp {
	return Timestamp{timeBase: timeBase, pts: pts}
}

// TimestampFromSeconds returns the timestamp of a whole number of seconds.
// The tick count is seconds*den/num, truncated, the inverse of Seconds.
func TimestampFromSeconds(timeBase Rational, seconds int64) Timestamp {
	ts := Timestamp{timeBase: timeBase}
	ts.SetSeconds(seconds)
	return ts
}

func (t Timestamp) TimeBase() Rational { return t.timeBase }
func (t Timestamp) PTS() int64         { return t.pts }

func (t *Timestamp) SetPTS(pts int64) { t.pts = pts }

// Seconds returns pts*num/den, truncated toward zero
func (t Timestamp) Seconds() int64 {
	return t.pts * t.timeBase.Num() / t.timeBase.Den()
}

// SetSeconds moves the timestamp to a whole number of seconds
func (t *Timestamp) SetSeconds(seconds int64) {
	if t.timeBase.Num() == 0 {
		t.pts = 0
		return
	}
	t.pts = seconds * t.timeBase.Den() / t.timeBase.Num()
}

// Duration converts the timestamp to a time.Duration, truncated to the
// nanosecond and saturated at the bounds of time.Duration
func (t Timestamp) Duration() time.Duration {
	ns := t.scaled(big.NewInt(int64(time.Second)))
	ns.Quo(ns, big.NewInt(t.timeBase.Den()))
	if !ns.IsInt64() {
		if ns.Sign() < 0 {
			return time.Duration(math.MinInt64)
		}
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(ns.Int64())
}

// Compare returns -1, 0 or +1 as t is before, at, or after other.
// Timestamps in different time bases are compared exactly.
func (t Timestamp) Compare(other Timestamp) int {
	// t.pts*t.num/t.den vs other.pts*other.num/other.den
	lhs := t.scaled(big.NewInt(other.timeBase.Den()))
	rhs := other.scaled(big.NewInt(t.timeBase.Den()))
	return lhs.Cmp(rhs)
}

// Rescale expresses the same instant in another time base, truncating
// toward zero when it falls between two ticks
func (t Timestamp) Rescale(timeBase Rational) Timestamp {
	if t.timeBase.Equal(timeBase) {
		return Timestamp{timeBase: timeBase, pts: t.pts}
	}
	if timeBase.Num() == 0 {
		return Timestamp{timeBase: timeBase}
	}

	pts := t.scaled(big.NewInt(timeBase.Den()))
	pts.Quo(pts, new(big.Int).Mul(big.NewInt(t.timeBase.Den()), big.NewInt(timeBase.Num())))
	if !pts.IsInt64() {
		if pts.Sign() < 0 {
			return Timestamp{timeBase: timeBase, pts: math.MinInt64}
		}
		return Timestamp{timeBase: timeBase, pts: math.MaxInt64}
	}
	return Timestamp{timeBase: timeBase, pts: pts.Int64()}
}

func (t Timestamp) String() string {
	return fmt.Sprintf("%d@%s", t.pts, t.timeBase)
}

// scaled returns pts*num*factor without overflow
func (t Timestamp) scaled(factor *big.Int) *big.Int {
	v := big.NewInt(t.pts)
	v.Mul(v, big.NewInt(t.timeBase.Num()))
	return v.Mul(v, factor)
}
