package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// LeastSquares fits y ≈ slope·x + intercept by ordinary least squares.
//
// The closed form is used: slope = Cov(x, y) / Var(x) and
// intercept = mean(y) − slope·mean(x). Both Cov and Var carry Bessel's
// correction, which cancels in the ratio.
//
// Returns ErrInsufficientData for fewer than two points or constant x, and
// ErrDomain when any input is NaN or infinite.
func LeastSquares(xs, ys []float64) (slope, intercept float64, err error) {
	if len(xs) != len(ys) {
		return 0, 0, fmt.Errorf("least squares: %d x values but %d y values", len(xs), len(ys))
	}
	if len(xs) < 2 {
		return 0, 0, fmt.Errorf("%w: least squares needs at least 2 points, got %d", ErrInsufficientData, len(xs))
	}
	if err := checkFinite("x", xs); err != nil {
		return 0, 0, err
	}
	if err := checkFinite("y", ys); err != nil {
		return 0, 0, err
	}
	if allEqual(xs) {
		return 0, 0, fmt.Errorf("%w: all %d x values equal %g", ErrInsufficientData, len(xs), xs[0])
	}

	slope = stat.Covariance(xs, ys, nil) / stat.Variance(xs, nil)
	intercept = stat.Mean(ys, nil) - slope*stat.Mean(xs, nil)
	return slope, intercept, nil
}

// RSquared returns the coefficient of determination of the line
// (slope, intercept) over the pairs it was fitted on:
//
//	R² = 1 − SS_res / ((n−1)·Var(y))
//
// where Var is the sample variance. A single point, or a y that is constant,
// is explained perfectly by convention and yields exactly 1.
func RSquared(slope, intercept float64, xs, ys []float64) float64 {
	if len(ys) <= 1 || allEqual(ys) {
		return 1.0
	}
	variance := stat.Variance(ys, nil)
	if variance == 0 {
		return 1.0
	}

	ssRes := 0.0
	for i, y := range ys {
		r := y - (slope*xs[i] + intercept)
		ssRes += r * r
	}
	ssTot := float64(len(ys)-1) * variance
	return 1 - ssRes/ssTot
}

// FitLine runs LeastSquares and RSquared over the same pairs.
func FitLine(xs, ys []float64) (FitResult, error) {
	slope, intercept, err := LeastSquares(xs, ys)
	if err != nil {
		return FitResult{}, err
	}
	return FitResult{
		Slope:     slope,
		Intercept: intercept,
		RSquared:  RSquared(slope, intercept, xs, ys),
	}, nil
}

// ComplexityTerm is the theoretical cost unit n·log2(n), taken as 0 at n = 0.
func ComplexityTerm(n int) float64 {
	if n <= 0 {
		return 0
	}
	f := float64(n)
	return f * math.Log2(f)
}

func checkFinite(name string, values []float64) error {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s[%d] is %v", ErrDomain, name, i, v)
		}
	}
	return nil
}

func allEqual(values []float64) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}
