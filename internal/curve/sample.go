package curve

// DefaultReportMaturities is the reporting grid in years.
var DefaultReportMaturities = []float64{1, 2, 3, 5, 10}

// Point is one (maturity, rate) sample of a curve.
type Point struct {
	Maturity float64 `json:"maturity_years"`
	Rate     float64 `json:"spot_rate"`
}

// Sample evaluates the curve at each maturity, preserving grid order.
func Sample(maturities []float64, p Params) []Point {
	out := make([]Point, 0, len(maturities))
	for _, m := range maturities {
		out = append(out, Point{Maturity: m, Rate: SpotRate(m, p)})
	}
	return out
}
