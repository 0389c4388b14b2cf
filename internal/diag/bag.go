package diag

import (
	"fmt"
	"sort"
)

// Bag accumulates diagnostics up to a cap.
type Bag struct {
	items []Diagnostic
	max   uint16
}

func NewBag(max int) *Bag {
	return &Bag{
		items: make([]Diagnostic, 0, max),
		max:   uint16(max),
	}
}

// Add appends a diagnostic, honoring the cap. Returns false when the cap is
// reached and the diagnostic was dropped.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= int(b.max) {
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Cap() uint16 {
	return b.max
}

// HasErrors reports whether any diagnostic has Severity >= Error.
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// HasWarnings reports whether any diagnostic has Severity >= Warning.
func (b *Bag) HasWarnings() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevWarning {
			return true
		}
	}
	return false
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items returns a read-only view of the diagnostics. Do not modify the
// returned slice; it aliases the Bag's internal storage.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Merge appends diagnostics from another Bag, growing the cap if needed.
func (b *Bag) Merge(other *Bag) {
	newTotal := len(b.items) + len(other.items)
	if uint16(newTotal) > b.max {
		b.max = uint16(newTotal)
	}
	b.items = append(b.items, other.items...)
}

// Sort orders diagnostics by file, start, end, severity (desc), code for a
// stable, deterministic output order.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code < dj.Code
	})
}

// Dedup removes diagnostics sharing Code+Primary.
func (b *Bag) Dedup() {
	seen := make(map[string]bool)
	newItems := make([]Diagnostic, 0, len(b.items))
	for _, d := range b.items {
		key := fmt.Sprintf("%s:%s", d.Code.String(), d.Primary.String())
		if seen[key] {
			continue
		}
		seen[key] = true
		newItems = append(newItems, d)
	}
	b.items = newItems
}
