// Package export writes a dashboard frame as CSV or as an Excel workbook.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/xuri/excelize/v2"

	"StockDash/internal/dashboard"
)

// Supported formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// SheetName is the worksheet holding the data in workbook exports.
const SheetName = "StockData"

// ErrUnknownFormat is returned for an export format other than csv or xlsx.
var ErrUnknownFormat = errors.New("unknown export format")

// FileName is the download name of an export.
func FileName(ticker, format string) string {
	if format == FormatXLSX {
		return ticker + "_stock_data.xlsx"
	}
	return "data.csv"
}

// ContentType is the MIME type of an export.
func ContentType(format string) string {
	if format == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}

// Write encodes f in the given format.
func Write(w io.Writer, format string, f *dashboard.Frame) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, f)
	case FormatXLSX:
		return WriteXLSX(w, f)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// WriteCSV writes the header and one line per bar; NaN cells are empty.
func WriteCSV(w io.Writer, f *dashboard.Frame) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(f.Header()); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i := 0; i < f.Len(); i++ {
		row := f.Row(i)
		rec := make([]string, 0, len(row)+1)
		rec = append(rec, f.Dates[i].Format(dashboard.DateLayout))
		for _, v := range row {
			rec = append(rec, cell(v))
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes a single-sheet workbook; NaN cells are left blank.
func WriteXLSX(w io.Writer, f *dashboard.Frame) error {
	book := excelize.NewFile()
	defer book.Close()

	if err := book.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]interface{}, 0, len(f.Header()))
	for _, h := range f.Header() {
		header = append(header, h)
	}
	if err := book.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i := 0; i < f.Len(); i++ {
		values := f.Row(i)
		row := make([]interface{}, 0, len(values)+1)
		row = append(row, f.Dates[i].Format(dashboard.DateLayout))
		for _, v := range values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				row = append(row, nil)
				continue
			}
			row = append(row, v)
		}
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := book.SetSheetRow(SheetName, axis, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	if err := book.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func cell(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
