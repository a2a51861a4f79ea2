// Package rules defines the column-transformation directives configured per
// project and the ordered set a run executes.
package rules

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrInvalidRule is wrapped by Validate failures.
var ErrInvalidRule = errors.New("invalid rule")

// Kind selects which processor handles a rule.
type Kind string

const (
	KindMultiple    Kind = "MULTIPLE"
	KindConcatenate Kind = "CONCATENATE"
	KindRename      Kind = "RENAME"
)

// kindAliases maps accepted labels (case-insensitive) to a Kind. The Spanish
// labels are what existing project configurations were captured with.
var kindAliases = map[string]Kind{
	"multiple":    KindMultiple,
	"múltiple":    KindMultiple,
	"concatenate": KindConcatenate,
	"concatenar":  KindConcatenate,
	"rename":      KindRename,
	"renombrar":   KindRename,
}

// ParseKind converts a stored or user-supplied label to a Kind.
func ParseKind(s string) (Kind, error) {
	k, ok := kindAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("unknown rule kind %q", s)
	}
	return k, nil
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindMultiple, KindConcatenate, KindRename:
		return true
	}
	return false
}

// Range is the destination sequence-number window of a MULTIPLE rule.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Width is the number of sequence numbers in the window.
func (r Range) Width() int {
	return r.End - r.Start + 1
}

// Rule is one transformation directive.
type Rule struct {
	OrderKey         int    `json:"order_key"`
	Kind             Kind   `json:"kind"`
	SourcePrefix     string `json:"source_prefix"`
	SourceStartLabel string `json:"source_start_label"`
	SourceEndLabel   string `json:"source_end_label"`
	DestPrefix       string `json:"dest_prefix"`
	DestRange        *Range `json:"dest_range,omitempty"`
}

// SourceStart is the literal name of the first column of the source span.
func (r Rule) SourceStart() string { return r.SourcePrefix + r.SourceStartLabel }

// SourceEnd is the literal name of the last column of the source span.
func (r Rule) SourceEnd() string { return r.SourcePrefix + r.SourceEndLabel }

// DestName is the destination column name for sequence number n.
func (r Rule) DestName(n int) string {
	return fmt.Sprintf("%s%d", r.DestPrefix, n)
}

// Validate checks that r carries the fields its kind needs. It does not look
// at any table; missing columns are only detectable at run time.
func (r Rule) Validate() error {
	if !r.Kind.Valid() {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidRule, r.Kind)
	}
	if r.DestPrefix == "" {
		return fmt.Errorf("%w: destination is required", ErrInvalidRule)
	}
	if !fitsInt32(r.OrderKey) {
		return fmt.Errorf("%w: order key %d is out of range", ErrInvalidRule, r.OrderKey)
	}

	switch r.Kind {
	case KindRename:
		if r.SourcePrefix == "" {
			return fmt.Errorf("%w: source column is required", ErrInvalidRule)
		}
	case KindMultiple, KindConcatenate:
		if r.SourceStart() == "" || r.SourceEnd() == "" {
			return fmt.Errorf("%w: source span is required", ErrInvalidRule)
		}
		if r.Kind == KindMultiple {
			if r.DestRange == nil {
				return fmt.Errorf("%w: destination range is required", ErrInvalidRule)
			}
			if r.DestRange.Start > r.DestRange.End {
				return fmt.Errorf("%w: destination range %d..%d is reversed",
					ErrInvalidRule, r.DestRange.Start, r.DestRange.End)
			}
			if !fitsInt32(r.DestRange.Start) || !fitsInt32(r.DestRange.End) {
				return fmt.Errorf("%w: destination range %d..%d is out of range",
					ErrInvalidRule, r.DestRange.Start, r.DestRange.End)
			}
			// a sheet holds at most MaxColumns columns
			if r.DestRange.Width() > excelize.MaxColumns {
				return fmt.Errorf("%w: destination range %d..%d is wider than %d columns",
					ErrInvalidRule, r.DestRange.Start, r.DestRange.End, excelize.MaxColumns)
			}
		}
	}
	return nil
}

func fitsInt32(n int) bool {
	return n >= math.MinInt32 && n <= math.MaxInt32
}

func (r Rule) String() string {
	switch r.Kind {
	case KindRename:
		return fmt.Sprintf("#%d %s %s -> %s", r.OrderKey, r.Kind, r.SourcePrefix, r.DestPrefix)
	case KindMultiple:
		if r.DestRange != nil {
			return fmt.Sprintf("#%d %s %s..%s -> %s[%d..%d]", r.OrderKey, r.Kind,
				r.SourceStart(), r.SourceEnd(), r.DestPrefix, r.DestRange.Start, r.DestRange.End)
		}
	}
	return fmt.Sprintf("#%d %s %s..%s -> %s", r.OrderKey, r.Kind, r.SourceStart(), r.SourceEnd(), r.DestPrefix)
}

// Set is the ordered rule collection of one project.
type Set struct {
	rules []Rule
}

// NewSet copies rules and orders them by OrderKey. Rules sharing a key keep
// their input order.
func NewSet(rules []Rule) Set {
	sorted := make([]Rule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].OrderKey < sorted[j].OrderKey
	})
	return Set{rules: sorted}
}

// Rules returns the rules in execution order. The slice is a copy.
func (s Set) Rules() []Rule {
	out := make([]Rule, len(s.rules))
	copy(out, s.rules)
	return out
}

// Len returns the number of rules.
func (s Set) Len() int { return len(s.rules) }
