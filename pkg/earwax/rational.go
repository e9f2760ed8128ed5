// ABOUTME: Rational time base arithmetic
// ABOUTME: Reduced integer fractions describing the duration of one tick
package earwax

import (
	"errors"
	"fmt"
)

// ErrZeroDenominator is returned by NewRational when den is 0
var ErrZeroDenominator = errors.New("earwax: rational with zero denominator")

// Rational is a reduced fraction num/den with den > 0. The zero value is 0/1.
type Rational struct {
	num int64
	den int64
}

// NewRational returns num/den in lowest terms with a positive denominator
func NewRational(num, den int64) (Rational, error) {
	if den == 0 {
		return Rational{}, ErrZeroDenominator
	}
	if den < 0 {
		num, den = -num, -den
	}
	if g := gcd(num, den); g > 1 {
		num /= g
		den /= g
	}
	return Rational{num: num, den: den}, nil
}

// MustRational is like NewRational but panics on a zero denominator
func MustRational(num, den int64) Rational {
	r, err := NewRational(num, den)
	if err != nil {
		panic(err)
	}
	return r
}

func (r Rational) Num() int64 { return r.num }

func (r Rational) Den() int64 {
	if r.den == 0 {
		return 1
	}
	return r.den
}

// Equal reports whether both fractions have the same value
func (r Rational) Equal(other Rational) bool {
	return r.num == other.num && r.Den() == other.Den()
}

func (r Rational) String() string {
	return fmt.Sprintf("%d/%d", r.num, r.Den())
}

func gcd(a, b int64) int64 {
	if a < 0 {
		a = -a
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
