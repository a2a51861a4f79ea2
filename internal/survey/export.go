package survey

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/JonMunkholm/surveybase/internal/table"
)

// SubjectColumn is the key every export row is sorted by.
const SubjectColumn = "SbjNum"

// MissingValue replaces null answers once the export is assembled.
const MissingValue = "-1"

type exportPage struct {
	Subjects []exportSubject `json:"Subjects"`
}

type exportSubject struct {
	Columns []exportColumn `json:"Columns"`
}

type exportColumn struct {
	Var   string `json:"Var"`
	Value any    `json:"Value"`
}

// Export is the assembled SimpleExport result across all pages.
type Export struct {
	// Columns is the variable order reported for the first subject.
	Columns []string
	Records []map[string]table.Value
}

func (e *Export) add(s exportSubject) {
	if e.Columns == nil {
		e.Columns = make([]string, 0, len(s.Columns))
		for _, c := range s.Columns {
			e.Columns = append(e.Columns, c.Var)
		}
	}

	rec := make(map[string]table.Value, len(s.Columns))
	for _, c := range s.Columns {
		rec[c.Var] = normalize(c.Value)
	}
	e.Records = append(e.Records, rec)
}

// Len returns the number of subjects.
func (e *Export) Len() int { return len(e.Records) }

// Table builds the raw table: column order from the first subject, variables
// other subjects lack left empty, rows sorted by SbjNum, and every empty cell
// then set to MissingValue.
func (e *Export) Table() (*table.Table, error) {
	records := make([]map[string]table.Value, len(e.Records))
	copy(records, e.Records)

	sort.SliceStable(records, func(i, j int) bool {
		return lessValue(records[i][SubjectColumn], records[j][SubjectColumn])
	})

	t, err := table.FromRecords(e.Columns, records)
	if err != nil {
		return nil, fmt.Errorf("build export table: %w", err)
	}

	for pos := 0; pos < t.Width(); pos++ {
		values := t.Column(pos).Values
		for i, v := range values {
			if v == nil {
				values[i] = MissingValue
			}
		}
	}
	return t, nil
}

// normalize converts decoded JSON into table cell types.
func normalize(v any) table.Value {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case nil, string, bool, int64, float64:
		return x
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}
}

// lessValue orders numbers numerically, everything else by its text, and
// empty cells last.
func lessValue(a, b table.Value) bool {
	if a == nil || b == nil {
		return a != nil && b == nil
	}
	fa, aNum := asFloat(a)
	fb, bNum := asFloat(b)
	if aNum && bNum {
		return fa < fb
	}
	if aNum != bNum {
		return aNum
	}
	return fmt.Sprint(a) < fmt.Sprint(b)
}

func asFloat(v table.Value) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}
