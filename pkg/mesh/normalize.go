package mesh

import "fmt"

// Normalization holds the divisor applied to every component of an
// attribute instance. A zero Normal or an empty list means divisor 1, so the
// zero value leaves every value unchanged.
type Normalization struct {
	Normal int
	UV     []int
	RGB    []int
	Alpha  []int
}

// NoNormalization returns a table that leaves every value unchanged.
func NoNormalization() Normalization {
	return Normalization{Normal: 1}
}

// Validate checks divisors against the number of configured instances.
func (n Normalization) Validate(uvCount, rgbCount, alphaCount int) error {
	if n.Normal < 0 {
		return fmt.Errorf("%w: normal divisor must be >= 1, got %d", ErrConfiguration, n.Normal)
	}
	if err := validateDivisors("uv", n.UV, uvCount); err != nil {
		return err
	}
	if err := validateDivisors("rgb", n.RGB, rgbCount); err != nil {
		return err
	}
	return validateDivisors("alpha", n.Alpha, alphaCount)
}

func validateDivisors(kind string, divisors []int, count int) error {
	if len(divisors) == 0 {
		return nil
	}
	if len(divisors) != count {
		return fmt.Errorf("%w: %d %s divisors for %d instances", ErrConfiguration, len(divisors), kind, count)
	}
	for i, d := range divisors {
		if d < 1 {
			return fmt.Errorf("%w: %s%d divisor must be >= 1, got %d", ErrConfiguration, kind, i, d)
		}
	}
	return nil
}

func (n Normalization) normalDivisor() float32 {
	if n.Normal == 0 {
		return 1
	}
	return float32(n.Normal)
}

// divisor returns the divisor for instance i, defaulting to 1.
func divisor(divisors []int, i int) float32 {
	if i < len(divisors) {
		return float32(divisors[i])
	}
	return 1
}
