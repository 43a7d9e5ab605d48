package schedule_test

import (
	"testing"
	"time"

	"bond-pricer/internal/schedule"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func fmtDates(ds []time.Time) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.Format("2006-01-02")
	}
	return out
}

func TestAddMonths(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in     time.Time
		months int
		want   time.Time
	}{
		{date(2025, 1, 15), 1, date(2025, 2, 15)},
		{date(2025, 1, 31), 1, date(2025, 2, 28)},
		{date(2024, 1, 31), 1, date(2024, 2, 29)},
		{date(2025, 8, 31), -6, date(2025, 2, 28)},
		{date(2025, 3, 31), -1, date(2025, 2, 28)},
		{date(2025, 12, 10), 2, date(2026, 2, 10)},
		{date(2026, 1, 10), -13, date(2024, 12, 10)},
		{date(2025, 5, 31), 0, date(2025, 5, 31)},
	}
	for _, tc := range cases {
		if got := schedule.AddMonths(tc.in, tc.months); !got.Equal(tc.want) {
			t.Fatalf("AddMonths(%s, %d): got %s want %s",
				tc.in.Format("2006-01-02"), tc.months, got.Format("2006-01-02"), tc.want.Format("2006-01-02"))
		}
	}
}

func TestGenerate_SemiAnnual(t *testing.T) {
	t.Parallel()

	valuation := date(2025, 3, 1)
	maturity := date(2027, 1, 15)
	got := schedule.Generate(maturity, 6, valuation)
	want := []string{"2025-07-15", "2026-01-15", "2026-07-15", "2027-01-15"}

	if len(got) != len(want) {
		t.Fatalf("got %v want %v", fmtDates(got), want)
	}
	for i, d := range fmtDates(got) {
		if d != want[i] {
			t.Fatalf("date %d: got %s want %s", i, d, want[i])
		}
	}
}

func TestGenerate_Invariants(t *testing.T) {
	t.Parallel()

	valuation := date(2025, 6, 10)
	for _, freq := range []int{1, 3, 6, 12} {
		maturity := date(2031, 11, 20)
		got := schedule.Generate(maturity, freq, valuation)
		if len(got) == 0 {
			t.Fatalf("freq %d: empty schedule", freq)
		}
		if !got[len(got)-1].Equal(maturity) {
			t.Fatalf("freq %d: last date %s is not maturity", freq, got[len(got)-1].Format("2006-01-02"))
		}
		for i, d := range got {
			if d.Before(valuation) {
				t.Fatalf("freq %d: date %s before valuation", freq, d.Format("2006-01-02"))
			}
			if i > 0 {
				if !d.After(got[i-1]) {
					t.Fatalf("freq %d: dates not increasing at %d", freq, i)
				}
				if !schedule.AddMonths(got[i-1], freq).Equal(d) {
					t.Fatalf("freq %d: dates %s and %s are not %d months apart", freq,
						got[i-1].Format("2006-01-02"), d.Format("2006-01-02"), freq)
				}
			}
		}
		if prev := schedule.AddMonths(got[0], -freq); !prev.Before(valuation) {
			t.Fatalf("freq %d: schedule stops early at %s", freq, got[0].Format("2006-01-02"))
		}
	}
}

func TestGenerate_IncludesValuationDate(t *testing.T) {
	t.Parallel()

	valuation := date(2025, 1, 1)
	got := schedule.Generate(date(2026, 1, 1), 12, valuation)
	if len(got) != 2 || !got[0].Equal(valuation) {
		t.Fatalf("got %v", fmtDates(got))
	}
}

func TestGenerate_ForwardRoundTrip(t *testing.T) {
	t.Parallel()

	valuation := date(2025, 4, 2)
	for _, freq := range []int{1, 2, 3, 4, 6, 12} {
		orig := schedule.Generate(date(2034, 9, 28), freq, valuation)
		again := schedule.Forward(orig[0], freq, len(orig))
		if len(again) != len(orig) {
			t.Fatalf("freq %d: length %d vs %d", freq, len(again), len(orig))
		}
		for i := range orig {
			if !orig[i].Equal(again[i]) {
				t.Fatalf("freq %d: date %d got %s want %s", freq, i,
					again[i].Format("2006-01-02"), orig[i].Format("2006-01-02"))
			}
		}
	}
}

func TestGenerate_MonthEndMaturityClamps(t *testing.T) {
	t.Parallel()

	got := schedule.Generate(date(2026, 8, 31), 6, date(2025, 9, 1))
	want := []string{"2026-02-28", "2026-08-31"}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", fmtDates(got), want)
	}
	for i, d := range fmtDates(got) {
		if d != want[i] {
			t.Fatalf("date %d: got %s want %s", i, d, want[i])
		}
	}
}

func TestGenerate_MaturedBondIsEmpty(t *testing.T) {
	t.Parallel()

	if got := schedule.Generate(date(2024, 12, 31), 6, date(2025, 1, 1)); len(got) != 0 {
		t.Fatalf("expected empty schedule, got %v", fmtDates(got))
	}
	if got := schedule.Generate(date(2030, 1, 1), 0, date(2025, 1, 1)); got != nil {
		t.Fatalf("expected nil for zero frequency")
	}
}

func TestDaysBetween(t *testing.T) {
	t.Parallel()

	if got := schedule.DaysBetween(date(2025, 1, 1), date(2026, 1, 1)); got != 365 {
		t.Fatalf("got %d want 365", got)
	}
	if got := schedule.DaysBetween(date(2024, 1, 1), date(2025, 1, 1)); got != 366 {
		t.Fatalf("got %d want 366", got)
	}
	if got := schedule.DaysBetween(date(2025, 1, 11), date(2025, 1, 1)); got != -10 {
		t.Fatalf("got %d want -10", got)
	}
}

func TestDaysBetween_LongHorizon(t *testing.T) {
	t.Parallel()

	// 400 Gregorian years are exactly 146097 days.
	if got := schedule.DaysBetween(date(2025, 1, 1), date(2425, 1, 1)); got != 146097 {
		t.Fatalf("got %d want 146097", got)
	}
	if got := schedule.DaysBetween(date(2425, 1, 1), date(2025, 1, 1)); got != -146097 {
		t.Fatalf("got %d want -146097", got)
	}
}

func TestDaysBetween_IgnoresTimeOfDay(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 1, 1, 23, 59, 0, 0, time.UTC)
	end := time.Date(2025, 1, 2, 0, 1, 0, 0, time.UTC)
	if got := schedule.DaysBetween(start, end); got != 1 {
		t.Fatalf("got %d want 1", got)
	}
}
