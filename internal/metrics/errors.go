package metrics

import (
	"errors"
	"fmt"
)

// ErrDegenerateInput matches any *DegenerateInputError via errors.Is.
var ErrDegenerateInput = errors.New("degenerate input")

// DegenerateInputError reports a metric that is undefined for the stored
// sample, such as Nash-Sutcliffe efficiency when the observations have zero
// variance or the mean ratio when an observation is zero.
type DegenerateInputError struct {
	Metric string
	Reason string
}

func (e *DegenerateInputError) Error() string {
	return fmt.Sprintf("%s undefined: %s", e.Metric, e.Reason)
}

// Is lets errors.Is(err, ErrDegenerateInput) match.
func (e *DegenerateInputError) Is(target error) bool { return target == ErrDegenerateInput }
