package analytics

import (
	"math"
	"time"
)

// Calculator derives dashboard structures from a lead snapshot. It holds no
// state besides the clock and the location used for calendar boundaries, so
// one instance can serve concurrent requests.
type Calculator struct {
	loc *time.Location
	now func() time.Time
}

func NewCalculator(loc *time.Location) *Calculator {
	if loc == nil {
		loc = time.Local
	}
	return &Calculator{
		loc: loc,
		now: time.Now,
	}
}

// WithClock returns a copy of the calculator that reads "now" from clock.
func (c *Calculator) WithClock(clock func() time.Time) *Calculator {
	return &Calculator{
		loc: c.loc,
		now: clock,
	}
}

// Now is the current instant in the calculator's location.
func (c *Calculator) Now() time.Time {
	return c.now().In(c.loc)
}

func (c *Calculator) Location() *time.Location {
	return c.loc
}

func safeDivide(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	result := numerator / denominator
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return 0
	}
	return result
}

// change is the relative delta between periods; nil when there is nothing to
// compare against.
func change(current, previous float64) *float64 {
	if previous <= 0 {
		return nil
	}
	v := (current - previous) / previous
	return &v
}
