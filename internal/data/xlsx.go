package data

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"bond-pricer/internal/model"
)

// XLSXContentType is the media type of an Excel workbook upload.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func LoadBondsXLSX(path string) ([]model.BondInput, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	records, err := bondRecordsFromWorkbook(f)
	if err != nil {
		return nil, err
	}
	return ToInputs(records)
}

// ParseBondsXLSX reads the first sheet of a workbook with the same header
// rules as ParseBondsCSV. Date cells may hold Excel serial numbers.
func ParseBondsXLSX(r io.Reader) ([]model.BondInput, error) {
	records, err := ParseBondRecordsXLSX(r)
	if err != nil {
		return nil, err
	}
	return ToInputs(records)
}

// ParseBondRecordsXLSX reads the first sheet into undecoded records.
func ParseBondRecordsXLSX(r io.Reader) ([]BondRecord, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	return bondRecordsFromWorkbook(f)
}

func bondRecordsFromWorkbook(f *excelize.File) ([]BondRecord, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, emptyFileError()
	}
	// Raw values keep numbers unformatted and dates as serials.
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	// The header is the first non-blank row.
	for len(rows) > 0 && blank(rows[0]) {
		rows = rows[1:]
	}
	if len(rows) == 0 {
		return nil, emptyFileError()
	}
	cols, err := columnIndex(rows[0])
	if err != nil {
		return nil, err
	}

	var out []BondRecord
	for _, row := range rows[1:] {
		if blank(row) {
			continue
		}
		rec := recordFromRow(cols, row)
		rec.PurchaseDate = serialDate(rec.PurchaseDate, date1904)
		rec.MaturityDate = serialDate(rec.MaturityDate, date1904)
		out = append(out, rec)
	}
	return out, nil
}

// serialDate rewrites an Excel date serial as YYYY-MM-DD. Text dates and
// unparseable serials pass through for ParseDate to judge.
func serialDate(s string, date1904 bool) string {
	serial, err := strconv.ParseFloat(s, 64)
	if err != nil || serial <= 0 {
		return s
	}
	t, err := excelize.ExcelDateToTime(serial, date1904)
	if err != nil {
		return s
	}
	return t.Format("2006-01-02")
}
