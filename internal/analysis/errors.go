package analysis

import "errors"

// Errors returned by the analysis functions. Callers match them with
// errors.Is; the wrapped message carries the offending values. None of them
// is transient: a run that fails should not be retried with the same input.
var (
	// ErrConfiguration reports thresholds outside the data's N range or
	// limit1 >= limit2.
	ErrConfiguration = errors.New("configuration error")
	// ErrEmptySegment reports a threshold pair that leaves a segment with
	// fewer than two measurements.
	ErrEmptySegment = errors.New("empty segment")
	// ErrDomain reports values a transform cannot accept, such as a
	// non-positive N or metric under a logarithm, or a non-finite metric.
	ErrDomain = errors.New("domain error")
	// ErrInsufficientData reports fewer than two measurements, or x values
	// that do not vary and so cannot determine a slope.
	ErrInsufficientData = errors.New("insufficient data")
)
