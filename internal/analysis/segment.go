package analysis

import (
	"fmt"

	"github.com/user/complexity_analyzer_go/internal/parser"
)

// minSegmentSize is the fewest members a segment may have and still be fitted.
const minSegmentSize = 2

// Partition splits measurements, sorted ascending by unique N, into three
// segments:
//
//	Stage 1: N <= Limit1
//	Stage 2: Limit1 <= N <= Limit2
//	Stage 3: N >= Limit2
//
// A measurement whose N equals a threshold is placed in both neighbouring
// segments, so adjoining fitted lines share that point.
//
// Both thresholds must lie strictly inside the N range of the data and
// Limit1 must be less than Limit2, otherwise ErrConfiguration is returned.
// A segment left with fewer than two members yields ErrEmptySegment.
func Partition(measurements []parser.Measurement, th Thresholds) ([]Segment, error) {
	if len(measurements) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 measurements, got %d", ErrInsufficientData, len(measurements))
	}
	if th.Limit1 >= th.Limit2 {
		return nil, fmt.Errorf("%w: limit1 (%d) must be less than limit2 (%d)", ErrConfiguration, th.Limit1, th.Limit2)
	}
	minN := measurements[0].N
	maxN := measurements[len(measurements)-1].N
	if th.Limit1 <= minN || th.Limit2 >= maxN {
		return nil, fmt.Errorf("%w: thresholds [%d, %d] must lie strictly inside the N range (%d, %d)",
			ErrConfiguration, th.Limit1, th.Limit2, minN, maxN)
	}

	segments := []Segment{
		{Label: LabelStage1, LowerBound: minN, UpperBound: th.Limit1},
		{Label: LabelStage2, LowerBound: th.Limit1, UpperBound: th.Limit2},
		{Label: LabelStage3, LowerBound: th.Limit2, UpperBound: maxN},
	}
	for i := range segments {
		for _, m := range measurements {
			if segments[i].Contains(m.N) {
				segments[i].Members = append(segments[i].Members, m)
			}
		}
		if len(segments[i].Members) < minSegmentSize {
			return nil, fmt.Errorf("%w: %s [%d, %d] has %d measurement(s), need at least %d",
				ErrEmptySegment, segments[i].Label, segments[i].LowerBound, segments[i].UpperBound,
				len(segments[i].Members), minSegmentSize)
		}
	}
	return segments, nil
}
