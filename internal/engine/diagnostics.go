package engine

import "fmt"

// Diagnostics is the ordered, append-only list of notices produced during a
// run. Entries are never reordered or removed.
type Diagnostics struct {
	entries []string
}

// Add appends a notice.
func (d *Diagnostics) Add(msg string) {
	d.entries = append(d.entries, msg)
}

// Addf appends a formatted notice.
func (d *Diagnostics) Addf(format string, args ...any) {
	d.Add(fmt.Sprintf(format, args...))
}

// Len returns the number of notices.
func (d *Diagnostics) Len() int { return len(d.entries) }

// Entries returns a copy of the notices in insertion order.
func (d *Diagnostics) Entries() []string {
	out := make([]string, len(d.entries))
	copy(out, d.entries)
	return out
}
