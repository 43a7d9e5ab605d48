package analysis

import (
	"math"
	"sort"

	"bond-pricer/internal/pricer"
)

// Mispricing is one bond ranked by how far the market is from the model.
type Mispricing struct {
	pricer.Row
	// Cheap is true when the market price is below the model price.
	Cheap bool
}

// RankByMispricing orders rows by |pricing error| descending. Ties keep
// input order. limit <= 0 returns every row.
func RankByMispricing(rows []pricer.Row, limit int) []Mispricing {
	out := make([]Mispricing, 0, len(rows))
	for _, r := range rows {
		out = append(out, Mispricing{Row: r, Cheap: r.PricingError > 0})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return math.Abs(out[i].PricingError) > math.Abs(out[j].PricingError)
	})
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}
