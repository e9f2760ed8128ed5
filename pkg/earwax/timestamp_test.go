// ABOUTME: Tests for rational time bases and timestamps
// ABOUTME: Covers reduction, pts round trips, seconds truncation and cross-base math
package earwax

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRational(t *testing.T) {
	tests := []struct {
		num, den         int64
		expNum, expDen   int64
		expectedAsString string
	}{
		{1, 44100, 1, 44100, "1/44100"},
		{2, 88200, 1, 44100, "1/44100"},
		{1001, 30000, 1001, 30000, "1001/30000"},
		{3, -6, -1, 2, "-1/2"},
		{0, 5, 0, 1, "0/1"},
	}

	for _, tt := range tests {
		r, err := NewRational(tt.num, tt.den)
		require.NoError(t, err)
		assert.Equal(t, tt.expNum, r.Num())
		assert.Equal(t, tt.expDen, r.Den())
		assert.Equal(t, tt.expectedAsString, r.String())
	}
}

func TestNewRational_ZeroDenominator(t *testing.T) {
	_, err := NewRational(1, 0)
	assert.ErrorIs(t, err, ErrZeroDenominator)

	assert.Panics(t, func() { MustRational(1, 0) })
}

func TestRational_ZeroValue(t *testing.T) {
	var r Rational
	assert.Equal(t, int64(0), r.Num())
	assert.Equal(t, int64(1), r.Den())
	assert.True(t, r.Equal(MustRational(0, 7)))
	assert.False(t, r.Equal(MustRational(1, 7)))
}

func TestTimestamp_PTSRoundTrip(t *testing.T) {
	bases := []Rational{
		MustRational(1, 44100),
		MustRational(1001, 30000),
		MustRational(1, 1),
		MustRational(90, 1),
	}
	values := []int64{0, 1, -1, 88200, math.MaxInt64, math.MinInt64}

	for _, tb := range bases {
		for _, pts := range values {
			assert.Equal(t, pts, TimestampFromPTS(tb, pts).PTS(), "pts %d at %s", pts, tb)
		}
	}
}

func TestTimestamp_Seconds(t *testing.T) {
	tb := MustRational(1, 44100)

	ts := TimestampFromSeconds(tb, 2)
	assert.Equal(t, int64(88200), ts.PTS())
	assert.Equal(t, int64(2), ts.Seconds())

	// Seconds truncates partial seconds
	assert.Equal(t, int64(2), TimestampFromPTS(tb, 88200+44099).Seconds())
	assert.Equal(t, int64(0), TimestampFromPTS(tb, 44099).Seconds())
}

func TestTimestamp_SecondsAsymmetry(t *testing.T) {
	// NTSC frame ticks do not land on whole seconds
	tb := MustRational(1001, 30000)

	ts := TimestampFromSeconds(tb, 3)
	assert.Equal(t, int64(89), ts.PTS(), "90000/1001 truncates")
	assert.Equal(t, int64(2), ts.Seconds(), "89*1001/30000 truncates")

	// Whole seconds survive only when den divides evenly
	ts = TimestampFromSeconds(tb, 1001)
	assert.Equal(t, int64(30000), ts.PTS())
	assert.Equal(t, int64(1001), ts.Seconds())
}

func TestTimestamp_Setters(t *testing.T) {
	ts := NewTimestamp(MustRational(1, 1000))
	assert.Equal(t, int64(0), ts.PTS())

	ts.SetSeconds(7)
	assert.Equal(t, int64(7000), ts.PTS())

	ts.SetPTS(1234)
	assert.Equal(t, int64(1), ts.Seconds())
	assert.True(t, ts.TimeBase().Equal(MustRational(1, 1000)))

	// A zero time base has no ticks per second
	var zero Timestamp
	zero.SetSeconds(10)
	assert.Equal(t, int64(0), zero.PTS())
}

func TestTimestamp_Duration(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, TimestampFromPTS(MustRational(1, 1000), 1500).Duration())
	assert.Equal(t, time.Duration(22675), TimestampFromPTS(MustRational(1, 44100), 1).Duration())
	assert.Equal(t, -2*time.Second, TimestampFromPTS(MustRational(1, 1), -2).Duration())

	assert.Equal(t, time.Duration(math.MaxInt64), TimestampFromPTS(MustRational(1, 1), math.MaxInt64).Duration())
	assert.Equal(t, time.Duration(math.MinInt64), TimestampFromPTS(MustRational(1, 1), math.MinInt64).Duration())
}

func TestTimestamp_Compare(t *testing.T) {
	ms := MustRational(1, 1000)
	cd := MustRational(1, 44100)

	assert.Equal(t, 0, TimestampFromPTS(ms, 1000).Compare(TimestampFromPTS(cd, 44100)))
	assert.Equal(t, -1, TimestampFromPTS(ms, 999).Compare(TimestampFromPTS(cd, 44100)))
	assert.Equal(t, 1, TimestampFromPTS(cd, 44101).Compare(TimestampFromPTS(ms, 1000)))

	// Products beyond int64 still compare exactly
	big := TimestampFromPTS(MustRational(1001, 30000), math.MaxInt64)
	assert.Equal(t, 1, big.Compare(TimestampFromPTS(MustRational(1, 30000), math.MaxInt64)))
}

func TestTimestamp_Rescale(t *testing.T) {
	ts := TimestampFromPTS(MustRational(1, 1000), 1500)

	r := ts.Rescale(MustRational(1, 44100))
	assert.Equal(t, int64(66150), r.PTS())
	assert.Equal(t, 0, r.Compare(ts))

	// Truncates between ticks
	assert.Equal(t, int64(1), ts.Rescale(MustRational(1, 1)).PTS())

	// Same base is the identity
	assert.Equal(t, int64(1500), ts.Rescale(MustRational(2, 2000)).PTS())

	// Saturates instead of wrapping
	huge := TimestampFromPTS(MustRational(1, 1), math.MaxInt64)
	assert.Equal(t, int64(math.MaxInt64), huge.Rescale(MustRational(1, 1000)).PTS())
}

func TestTimestamp_String(t *testing.T) {
	assert.Equal(t, "88200@1/44100", TimestampFromPTS(MustRational(1, 44100), 88200).String())
}
