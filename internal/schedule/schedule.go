package schedule

import "time"

// AddMonths behaves like Excel's EDATE: the day-of-month is kept when the
// target month has it and clamped to the month end otherwise.
func AddMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// Generate returns the coupon dates of a bond in ascending order.
//
// Dates are stepped backward from maturity in frequencyMonths increments and
// collected while they are on or after valuation. Every date is offset from
// maturity directly so month-end clamping does not accumulate.
// A bond that matured before valuation has an empty schedule.
func Generate(maturity time.Time, frequencyMonths int, valuation time.Time) []time.Time {
	if frequencyMonths <= 0 || maturity.Before(valuation) {
		return nil
	}

	var back []time.Time
	for k := 0; ; k++ {
		d := AddMonths(maturity, -k*frequencyMonths)
		if d.Before(valuation) {
			break
		}
		back = append(back, d)
	}

	out := make([]time.Time, len(back))
	for i, d := range back {
		out[len(back)-1-i] = d
	}
	return out
}

// Forward generates n dates starting at first, frequencyMonths apart.
func Forward(first time.Time, frequencyMonths, n int) []time.Time {
	if n <= 0 {
		return nil
	}
	out := make([]time.Time, 0, n)
	for k := 0; k < n; k++ {
		out = append(out, AddMonths(first, k*frequencyMonths))
	}
	return out
}

const secondsPerDay = 24 * 60 * 60

// DaysBetween returns the number of calendar days from start to end (ACT).
// Only the calendar dates count; time.Duration is not used because it
// overflows past about 292 years.
func DaysBetween(start, end time.Time) int {
	return int((civilSeconds(end) - civilSeconds(start)) / secondsPerDay)
}

// civilSeconds is the Unix time of midnight UTC on t's calendar date.
func civilSeconds(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix()
}
