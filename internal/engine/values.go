package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/JonMunkholm/surveybase/internal/table"
)

// cleaners run in order: escaped control sequences, raw control characters,
// then the carriage-return marker left behind by spreadsheet exports. Each
// pass sees the output of the previous one.
var cleaners = []*strings.Replacer{
	strings.NewReplacer(`\t`, "", `\n`, "", `\r`, ""),
	strings.NewReplacer("\t", "", "\n", "", "\r", ""),
	strings.NewReplacer("_x000D_", ""),
}

func clean(s string) string {
	for _, r := range cleaners {
		s = r.Replace(s)
	}
	return s
}

// sanitize runs the pre-pass over every string cell.
func sanitize(t *table.Table) {
	t.MapStrings(clean)
}

// isTextSentinel matches the string forms of "no answer".
func isTextSentinel(v table.Value) bool {
	s, ok := v.(string)
	return ok && (s == "0" || s == "-1")
}

// isSentinel matches both the string and numeric forms of "no answer".
// Floats count when they are numerically 0 or -1.
func isSentinel(v table.Value) bool {
	switch n := v.(type) {
	case string:
		return n == "0" || n == "-1"
	case int:
		return n == 0 || n == -1
	case int32:
		return n == 0 || n == -1
	case int64:
		return n == 0 || n == -1
	case float32:
		return n == 0 || n == -1
	case float64:
		return n == 0 || n == -1
	}
	return false
}

// formatValue renders a cell for joining. Empty cells render as "".
func formatValue(v table.Value) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
