package scheduling

import (
	"errors"
	"fmt"
)

// ErrInvalidParams is returned when spacing parameters fall outside their
// valid domain. Callers should treat it as a configuration problem, not a
// transient failure.
var ErrInvalidParams = errors.New("invalid spacing parameters")

// Params is one difficulty bucket's spacing configuration:
// K is the base day offset, C the growth ratio, Iterations the number of
// revisions to plan.
type Params struct {
	K          float64 `json:"k"`
	C          float64 `json:"c"`
	Iterations int     `json:"i"`
}

func (p Params) Validate() error {
	if p.K <= 0 {
		return fmt.Errorf("%w: k must be positive, got %v", ErrInvalidParams, p.K)
	}
	if p.C <= 0 {
		return fmt.Errorf("%w: c must be positive, got %v", ErrInvalidParams, p.C)
	}
	if p.Iterations < 1 {
		return fmt.Errorf("%w: i must be a positive integer, got %d", ErrInvalidParams, p.Iterations)
	}
	return nil
}
