package data

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"bond-pricer/internal/model"
)

// headerAliases maps header spellings to input fields.
var headerAliases = map[string]string{
	"name":                    model.FieldName,
	"bond":                    model.FieldName,
	"bond_name":               model.FieldName,
	"purchase_price":          model.FieldPurchasePrice,
	"price":                   model.FieldPurchasePrice,
	"market_price":            model.FieldPurchasePrice,
	"purchase_date":           model.FieldPurchaseDate,
	"maturity_date":           model.FieldMaturityDate,
	"maturity":                model.FieldMaturityDate,
	"coupon_frequency":        model.FieldCouponFrequency,
	"coupon_frequency_months": model.FieldCouponFrequency,
	"frequency":               model.FieldCouponFrequency,
	"coupon_rate":             model.FieldCouponRate,
	"coupon_rate_percent":     model.FieldCouponRate,
	"coupon":                  model.FieldCouponRate,
}

// headerIndex is headerAliases keyed by normalizeHeader.
var headerIndex = func() map[string]string {
	m := make(map[string]string, len(headerAliases))
	for alias, field := range headerAliases {
		m[normalizeHeader(alias)] = field
	}
	return m
}()

// requiredColumns are the columns a bond file must carry. Name is optional.
var requiredColumns = []string{
	model.FieldPurchasePrice,
	model.FieldPurchaseDate,
	model.FieldMaturityDate,
	model.FieldCouponFrequency,
	model.FieldCouponRate,
}

func LoadBondsCSV(path string) ([]model.BondInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ParseBondsCSV(f)
}

// ParseBondsCSV reads a bond table with a header row. Columns are matched by
// name, ignoring case, spaces and underscores; the delimiter may be ',' or ';'.
// Every problem in the file is reported in a single *model.InputError.
func ParseBondsCSV(r io.Reader) ([]model.BondInput, error) {
	records, err := ParseBondRecordsCSV(r)
	if err != nil {
		return nil, err
	}
	return ToInputs(records)
}

// ParseBondRecordsCSV reads the file into undecoded records.
func ParseBondRecordsCSV(r io.Reader) ([]BondRecord, error) {
	br := bufio.NewReader(r)
	cr := csv.NewReader(br)
	cr.Comma = sniffDelimiter(br)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, emptyFileError()
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	cols, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var out []BondRecord
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if blank(rec) {
			continue
		}
		out = append(out, recordFromRow(cols, rec))
	}
	return out, nil
}

// columnIndex maps each input field to its column in header. The first
// matching column wins. Missing required columns are reported together.
func columnIndex(header []string) (map[string]int, error) {
	cols := map[string]int{}
	for i, h := range header {
		if field, ok := headerIndex[normalizeHeader(h)]; ok {
			if _, dup := cols[field]; !dup {
				cols[field] = i
			}
		}
	}
	agg := &model.InputError{}
	for _, field := range requiredColumns {
		if _, ok := cols[field]; !ok {
			agg.Add(model.FieldError{Field: field, Reason: "column is missing"})
		}
	}
	if err := agg.OrNil(); err != nil {
		return nil, err
	}
	return cols, nil
}

// recordFromRow picks the mapped cells out of row. Short rows read as blanks.
func recordFromRow(cols map[string]int, row []string) BondRecord {
	cell := func(field string) string {
		i, ok := cols[field]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	return BondRecord{
		Name:            cell(model.FieldName),
		PurchasePrice:   Number(cell(model.FieldPurchasePrice)),
		PurchaseDate:    cell(model.FieldPurchaseDate),
		MaturityDate:    cell(model.FieldMaturityDate),
		CouponFrequency: Number(cell(model.FieldCouponFrequency)),
		CouponRate:      Number(cell(model.FieldCouponRate)),
	}
}

func emptyFileError() error {
	return &model.InputError{Problems: []model.FieldError{{Field: "header", Reason: "file is empty"}}}
}

// sniffDelimiter picks ';' when the header line has more semicolons than commas.
func sniffDelimiter(br *bufio.Reader) rune {
	peek, _ := br.Peek(4096)
	if i := bytes.IndexByte(peek, '\n'); i >= 0 {
		peek = peek[:i]
	}
	if bytes.Count(peek, []byte{';'}) > bytes.Count(peek, []byte{','}) {
		return ';'
	}
	return ','
}

// normalizeHeader lowercases h and drops spaces, underscores, hyphens and a BOM.
func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(h)
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
