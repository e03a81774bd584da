package pipeline

import (
	"fmt"

	"github.com/rail-fusion/internal/domain"
)

// DefaultTolerance is the largest distance, in source coordinate units, at which two
// geometries are considered the same segment.
const DefaultTolerance = 1e-9

// Options configures one pipeline run. There is a single pipeline; behaviour differences
// between runs are expressed here and nowhere else.
type Options struct {
	NullPolicy domain.NullPolicy
	Years      domain.YearRange
	Tolerance  float64
	// Concurrent runs the segment and station sub-pipelines in parallel.
	Concurrent bool
	Columns    Columns
}

func DefaultOptions() Options {
	return Options{
		NullPolicy: domain.NullPolicyDrop,
		Years:      domain.DefaultYears,
		Tolerance:  DefaultTolerance,
		Columns:    DefaultColumns(),
	}
}

func (o Options) Validate() error {
	if !o.NullPolicy.Valid() {
		return fmt.Errorf("invalid null policy %q", o.NullPolicy)
	}
	if len(o.Years.Years()) == 0 {
		return fmt.Errorf("invalid year range %d-%d", o.Years.From, o.Years.To)
	}
	if o.Tolerance <= 0 {
		return fmt.Errorf("tolerance must be positive, got %g", o.Tolerance)
	}
	return nil
}
