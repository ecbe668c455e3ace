package scheduling

import "math"

// Offsets expands p into Iterations day offsets from a base date:
// offset[n] = round(K * C^n) for n = 0..Iterations-1.
//
// Rounding is half-up: round(x) = floor(x + 0.5), so 1.5 rounds to 2 and
// 2.5 rounds to 3. Offsets are not guaranteed strictly increasing; with C
// close to 1 consecutive offsets can repeat, and duplicates are preserved
// because each one is a distinct planned revision.
func Offsets(p Params) ([]int, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	offsets := make([]int, p.Iterations)
	for n := 0; n < p.Iterations; n++ {
		offsets[n] = int(math.Floor(p.K*math.Pow(p.C, float64(n)) + 0.5))
	}
	return offsets, nil
}
