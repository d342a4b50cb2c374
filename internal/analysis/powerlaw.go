package analysis

import (
	"fmt"
	"math"

	"github.com/user/complexity_analyzer_go/internal/parser"
)

// FitPowerLaw fits value ≈ c·N^k over the whole series by ordinary least
// squares on (log10 N, log10 value). The slope of that line is the exponent
// k, and c = 10^intercept. R² is computed on the log-log pairs, not on the
// back-transformed scale.
//
// Every N and value must be positive and finite (ErrDomain otherwise), and
// at least two points are required (ErrInsufficientData).
func FitPowerLaw(points []parser.Point) (PowerLawFit, error) {
	if len(points) < 2 {
		return PowerLawFit{}, fmt.Errorf("%w: power-law fit needs at least 2 points, got %d", ErrInsufficientData, len(points))
	}

	logX := make([]float64, len(points))
	logY := make([]float64, len(points))
	for i, p := range points {
		if p.N <= 0 {
			return PowerLawFit{}, fmt.Errorf("%w: N must be positive for log transform, got %d at row %d", ErrDomain, p.N, i+1)
		}
		if !(p.Value > 0) || math.IsInf(p.Value, 0) {
			return PowerLawFit{}, fmt.Errorf("%w: value must be positive and finite for log transform, got %v at N=%d", ErrDomain, p.Value, p.N)
		}
		logX[i] = math.Log10(float64(p.N))
		logY[i] = math.Log10(p.Value)
	}

	fit, err := FitLine(logX, logY)
	if err != nil {
		return PowerLawFit{}, err
	}
	return PowerLawFit{
		Exponent:    fit.Slope,
		Coefficient: math.Pow(10, fit.Intercept),
		RSquared:    fit.RSquared,
	}, nil
}
