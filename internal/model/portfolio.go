package model

import (
	"errors"
	"time"
)

// BuildBonds converts every input row into a Bond. Rows are numbered from 1
// in slice order. All problems across all rows are reported together.
func BuildBonds(inputs []BondInput, valuation time.Time, liquidityDays int) ([]Bond, error) {
	if len(inputs) == 0 {
		return nil, &InputError{Problems: []FieldError{{Field: "bonds", Reason: "at least one bond is required"}}}
	}
	if liquidityDays < 0 {
		return nil, errors.New("liquidity days must be >= 0")
	}

	bonds := make([]Bond, 0, len(inputs))
	agg := &InputError{}
	for i, in := range inputs {
		b, err := NewBond(in, i+1, valuation, liquidityDays)
		if err != nil {
			var ie *InputError
			if errors.As(err, &ie) {
				agg.Add(ie.Problems...)
				continue
			}
			return nil, err
		}
		bonds = append(bonds, b)
	}
	if err := agg.OrNil(); err != nil {
		return nil, err
	}
	return bonds, nil
}

// LiquidBonds filters bonds to the liquid subset, preserving order.
func LiquidBonds(bonds []Bond) []Bond {
	out := make([]Bond, 0, len(bonds))
	for _, b := range bonds {
		if b.Liquid {
			out = append(out, b)
		}
	}
	return out
}
