package scheduling

import (
	"errors"
	"reflect"
	"testing"
)

func TestOffsets(t *testing.T) {
	tests := []struct {
		name     string
		params   Params
		expected []int
	}{
		{"doubling", Params{K: 1, C: 2, Iterations: 4}, []int{1, 2, 4, 8}},
		{"single iteration", Params{K: 3, C: 5, Iterations: 1}, []int{3}},
		{"default easy", Params{K: 2, C: 2, Iterations: 5}, []int{2, 4, 8, 16, 32}},
		// 1 * 1.3^n = 1, 1.3, 1.69, 2.197 → rounds to 1, 1, 2, 2
		{"slow growth keeps duplicates", Params{K: 1, C: 1.3, Iterations: 4}, []int{1, 1, 2, 2}},
		// 0.5 rounds up to 1 under half-up
		{"half rounds up", Params{K: 0.5, C: 3, Iterations: 3}, []int{1, 2, 5}},
		// 1.5, 1.5, 1.5 → every offset lands on .5 and rounds up to 2
		{"repeated half values", Params{K: 1.5, C: 1, Iterations: 3}, []int{2, 2, 2}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			offsets, err := Offsets(tc.params)
			if err != nil {
				t.Fatalf("Offsets returned error: %v", err)
			}
			if len(offsets) != tc.params.Iterations {
				t.Fatalf("Expected %d offsets, got %d", tc.params.Iterations, len(offsets))
			}
			if !reflect.DeepEqual(offsets, tc.expected) {
				t.Errorf("Expected %v, got %v", tc.expected, offsets)
			}
		})
	}
}

func TestOffsetsDeterministic(t *testing.T) {
	p := Params{K: 1, C: 1.7, Iterations: 13}

	first, err := Offsets(p)
	if err != nil {
		t.Fatalf("Offsets returned error: %v", err)
	}

	for i := 0; i < 10; i++ {
		again, err := Offsets(p)
		if err != nil {
			t.Fatalf("Offsets returned error: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("Expected identical output on call %d: %v vs %v", i, first, again)
		}
	}
}

func TestOffsetsInvalidParams(t *testing.T) {
	tests := []struct {
		name   string
		params Params
	}{
		{"zero k", Params{K: 0, C: 2, Iterations: 5}},
		{"negative k", Params{K: -1, C: 2, Iterations: 5}},
		{"zero c", Params{K: 1, C: 0, Iterations: 5}},
		{"negative c", Params{K: 1, C: -0.5, Iterations: 5}},
		{"zero iterations", Params{K: 1, C: 2, Iterations: 0}},
		{"negative iterations", Params{K: 1, C: 2, Iterations: -3}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Offsets(tc.params)
			if err == nil {
				t.Fatalf("Expected error for %+v, got none", tc.params)
			}
			if !errors.Is(err, ErrInvalidParams) {
				t.Errorf("Expected ErrInvalidParams, got %v", err)
			}
		})
	}
}
