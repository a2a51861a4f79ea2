package engine

import (
	"fmt"

	"github.com/JonMunkholm/surveybase/internal/rules"
)

// ColumnNotFoundError reports a rule whose source column is absent from the
// table as it stands when the rule runs.
type ColumnNotFoundError struct {
	Column string
	Rule   rules.Rule
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column not found: %q (rule %s)", e.Column, e.Rule)
}

// InvalidRuleError reports a rule that cannot be executed as configured.
type InvalidRuleError struct {
	Rule   rules.Rule
	Reason string
}

func (e *InvalidRuleError) Error() string {
	return fmt.Sprintf("invalid rule %s: %s", e.Rule, e.Reason)
}
