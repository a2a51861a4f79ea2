// Package report renders a processed survey table as an xlsx workbook.
//
// The workbook has two sheets: "Índice" lists the run's diagnostics one per
// row, and "Base de datos" holds the header row followed by the data. Date
// and duration columns exported by the survey platform get number formats so
// spreadsheet users can filter and sum them.
package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/surveybase/internal/table"
)

const (
	IndexSheet = "Índice"
	DataSheet  = "Base de datos"
)

const (
	dateTimeFormat = "dd/mm/yyyy HH:MM"
	durationFormat = "[HH]:MM:SS"
)

// dateTimeColumns are the platform's timestamp variables.
var dateTimeColumns = map[string]bool{
	"Date":    true,
	"Upload":  true,
	"RvwTime": true,
	"VStart":  true,
	"VEnd":    true,
}

// durationColumns are the platform's elapsed-time variables.
var durationColumns = map[string]bool{
	"Duration": true,
}

// timestamp layouts the platform is known to emit.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
}

// Writer renders workbooks. The zero value is ready to use.
type Writer struct{}

// NewWriter returns a Writer.
func NewWriter() *Writer { return &Writer{} }

// Write renders t and diagnostics as an xlsx document.
func (w *Writer) Write(t *table.Table, diagnostics []string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", IndexSheet); err != nil {
		return nil, fmt.Errorf("rename index sheet: %w", err)
	}
	for i, d := range diagnostics {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellStr(IndexSheet, cell, d); err != nil {
			return nil, fmt.Errorf("write diagnostic %d: %w", i, err)
		}
	}

	if _, err := f.NewSheet(DataSheet); err != nil {
		return nil, fmt.Errorf("create data sheet: %w", err)
	}
	if err := writeData(f, t); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeData(f *excelize.File, t *table.Table) error {
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: ptr(dateTimeFormat)})
	if err != nil {
		return fmt.Errorf("date style: %w", err)
	}
	durationStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: ptr(durationFormat)})
	if err != nil {
		return fmt.Errorf("duration style: %w", err)
	}

	sw, err := f.NewStreamWriter(DataSheet)
	if err != nil {
		return fmt.Errorf("open data sheet: %w", err)
	}

	names := t.Names()
	header := make([]any, len(names))
	styles := make([]int, len(names))
	for i, name := range names {
		header[i] = name
		switch {
		case dateTimeColumns[name]:
			styles[i] = dateStyle
		case durationColumns[name]:
			styles[i] = durationStyle
		}
	}
	if len(names) > 0 {
		if err := sw.SetRow("A1", header); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	for row := 0; row < t.Rows(); row++ {
		values := t.Row(row)
		cells := make([]any, len(values))
		for col, v := range values {
			cells[col] = cellValue(names[col], v, styles[col])
		}
		cell, err := excelize.CoordinatesToCellName(1, row+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, cells); err != nil {
			return fmt.Errorf("write row %d: %w", row+1, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush data sheet: %w", err)
	}
	return nil
}

// cellValue converts a table value to what excelize should store. Values in
// formatted columns that parse as a time or duration become numbers so the
// format applies; anything else is written as-is.
func cellValue(name string, v table.Value, style int) any {
	if v == nil {
		return ""
	}
	if style == 0 {
		return v
	}

	s, ok := v.(string)
	if !ok || s == "" {
		return excelize.Cell{StyleID: style, Value: v}
	}

	if dateTimeColumns[name] {
		if ts, ok := parseTime(s); ok {
			return excelize.Cell{StyleID: style, Value: ts}
		}
	} else if d, ok := parseDuration(s); ok {
		// spreadsheet durations are fractions of a day
		return excelize.Cell{StyleID: style, Value: d.Hours() / 24}
	}
	return excelize.Cell{StyleID: style, Value: s}
}

func parseTime(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// parseDuration reads "H:MM:SS" with any number of hours.
func parseDuration(s string) (time.Duration, bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, false
	}
	var n [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 {
			return 0, false
		}
		n[i] = v
	}
	if n[1] > 59 || n[2] > 59 {
		return 0, false
	}
	return time.Duration(n[0])*time.Hour + time.Duration(n[1])*time.Minute + time.Duration(n[2])*time.Second, true
}

func ptr[T any](v T) *T { return &v }
