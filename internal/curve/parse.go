package curve

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseFloats parses a comma-separated list of numbers.
func ParseFloats(s string) ([]float64, error) {
	var out []float64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", part)
		}
		out = append(out, v)
	}
	return out, nil
}

// ParseParams parses "b0,b1,b2,b3,tau1,tau2" and validates the result.
func ParseParams(s string) (Params, error) {
	x, err := ParseFloats(s)
	if err != nil {
		return Params{}, fmt.Errorf("curve params: %w", err)
	}
	p, err := ParamsFromVector(x)
	if err != nil {
		return Params{}, err
	}
	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}
