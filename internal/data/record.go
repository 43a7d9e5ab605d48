package data

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"bond-pricer/internal/model"
)

// DateLayouts are the accepted input date formats, tried in order.
var DateLayouts = []string{"2006-01-02", "02.01.2006", "2006/01/02", time.RFC3339}

// maxWholeNumber bounds whole-number cells before conversion to int.
// Coupon frequencies are months, so a century is plenty.
const maxWholeNumber = 1200

// Number is the undecoded text of a numeric cell. In JSON it accepts a bare
// number, any string or null, so malformed values reach ToInput and are
// reported as field problems instead of decode errors.
type Number string

func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*n = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = Number(s)
	default:
		*n = Number(b)
	}
	return nil
}

// MarshalJSON writes valid JSON numbers bare and anything else as a string.
func (n Number) MarshalJSON() ([]byte, error) {
	s := strings.TrimSpace(string(n))
	if s != "" && json.Valid([]byte(s)) {
		if _, err := strconv.ParseFloat(s, 64); err == nil {
			return []byte(s), nil
		}
	}
	return json.Marshal(string(n))
}

// BondRecord is one undecoded input row, as read from JSON, CSV or a
// workbook. Every check happens in ToInput.
type BondRecord struct {
	Name            string `json:"name"`
	PurchasePrice   Number `json:"purchase_price"`
	PurchaseDate    string `json:"purchase_date"`
	MaturityDate    string `json:"maturity_date"`
	CouponFrequency Number `json:"coupon_frequency"`
	CouponRate      Number `json:"coupon_rate"`
}

// ToInput decodes the record. row is the 1-based row number used in errors.
func (r BondRecord) ToInput(row int) (model.BondInput, []model.FieldError) {
	var problems []model.FieldError
	fail := func(field, value, reason string) {
		problems = append(problems, model.FieldError{Row: row, Field: field, Value: value, Reason: reason})
	}

	in := model.BondInput{Name: strings.TrimSpace(r.Name)}

	if v, err := parseFloat(string(r.PurchasePrice)); err != nil {
		fail(model.FieldPurchasePrice, string(r.PurchasePrice), err.Error())
	} else {
		in.PurchasePrice = v
	}
	if v, err := ParseDate(r.PurchaseDate); err != nil {
		fail(model.FieldPurchaseDate, r.PurchaseDate, err.Error())
	} else {
		in.PurchaseDate = v
	}
	if v, err := ParseDate(r.MaturityDate); err != nil {
		fail(model.FieldMaturityDate, r.MaturityDate, err.Error())
	} else {
		in.MaturityDate = v
	}
	if v, err := parseInt(string(r.CouponFrequency)); err != nil {
		fail(model.FieldCouponFrequency, string(r.CouponFrequency), err.Error())
	} else {
		in.CouponFrequencyMonths = v
	}
	if v, err := parseFloat(string(r.CouponRate)); err != nil {
		fail(model.FieldCouponRate, string(r.CouponRate), err.Error())
	} else {
		in.CouponRatePercent = v
	}

	// Range checks only for fields that decoded.
	failed := make(map[string]bool, len(problems))
	for _, p := range problems {
		failed[p.Field] = true
	}
	for _, p := range in.Validate(row) {
		if !failed[p.Field] {
			problems = append(problems, p)
		}
	}
	return in, problems
}

// ToInputs decodes every record and aggregates all problems.
func ToInputs(records []BondRecord) ([]model.BondInput, error) {
	inputs := make([]model.BondInput, 0, len(records))
	agg := &model.InputError{}
	for i, rec := range records {
		in, problems := rec.ToInput(i + 1)
		agg.Add(problems...)
		inputs = append(inputs, in)
	}
	if err := agg.OrNil(); err != nil {
		return nil, err
	}
	return inputs, nil
}

// ParseDate parses a calendar date in any of DateLayouts.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("is required")
	}
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return model.DateOnly(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("is not a date (want YYYY-MM-DD)")
}

func parseFloat(s string) (float64, error) {
	s = normalizeNumber(s)
	if s == "" {
		return 0, fmt.Errorf("is required")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("is not a number")
	}
	return v, nil
}

func parseInt(s string) (int, error) {
	s = normalizeNumber(s)
	if s == "" {
		return 0, fmt.Errorf("is required")
	}
	if v, err := strconv.Atoi(s); err == nil {
		if v > maxWholeNumber || v < -maxWholeNumber {
			return 0, fmt.Errorf("is not a whole number up to %d", maxWholeNumber)
		}
		return v, nil
	}
	// Spreadsheets export whole numbers as "6.0".
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.Abs(f) > maxWholeNumber || f != math.Trunc(f) {
		return 0, fmt.Errorf("is not a whole number up to %d", maxWholeNumber)
	}
	return int(f), nil
}

// normalizeNumber trims and accepts a decimal comma when no dot is present.
func normalizeNumber(s string) string {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", ".")
	}
	return s
}
