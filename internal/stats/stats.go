// Package stats provides the numeric reductions used to build KPI reports.
//
// Every reduction that needs at least one value returns ErrEmpty on an empty
// slice instead of a zero, so a missing distribution can never masquerade as
// a measured one.
package stats

import (
	"errors"
	"math"
)

// ErrEmpty is returned by reductions that are undefined for an empty slice.
var ErrEmpty = errors.New("empty input")

// Sum returns the sum of values; the sum of an empty slice is 0.
func Sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}

// Mean returns the arithmetic mean of values.
func Mean(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrEmpty
	}
	return Sum(values) / float64(len(values)), nil
}

// StdDev returns the population standard deviation of values.
func StdDev(values []float64) (float64, error) {
	mean, err := Mean(values)
	if err != nil {
		return 0, err
	}

	sumSquaredDiff := 0.0
	for _, v := range values {
		diff := v - mean
		sumSquaredDiff += diff * diff
	}
	return math.Sqrt(sumSquaredDiff / float64(len(values))), nil
}

// Max returns the largest of values.
func Max(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrEmpty
	}
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m, nil
}
