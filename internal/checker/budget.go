// Package checker implements the per-scan type-checker budget policy: a
// cost gate deciding whether a given resolution attempt is worth spending
// an expensive type query on.
package checker

// Context tags the kind of resolution site asking for a checker query.
type Context string

const (
	ContextCall      Context = "call"
	ContextHeritage  Context = "heritage"
	ContextDecorator Context = "decorator"
	ContextReference Context = "reference"
	ContextExport    Context = "export"
)

// Hints carry the contextual signals ShouldUseTypeChecker's policy consults.
type Hints struct {
	Imported   bool
	Ambiguous  bool
	NameLength int
}

// DefaultBudget is the total checker-call allowance for one scan, used when
// no configuration overrides it.
const DefaultBudget = 5000

// Budget tracks a per-scan allotment of expensive type-checker queries: one
// Budget is shared by every file a scan touches, so exhaustion holds for the
// rest of the scan. A fresh Budget is constructed (or Reset) at the start of
// each scan; cached files never consume budget.
type Budget struct {
	total     int
	remaining int
	spent     int
}

// NewBudget creates a Budget with the given total allowance.
func NewBudget(total int) *Budget {
	if total < 0 {
		total = 0
	}
	return &Budget{total: total, remaining: total}
}

// ShouldUseTypeChecker returns true iff there is remaining budget and the
// context is judged valuable per the fixed policy: heritage and decorator
// contexts always try; calls try when imported or ambiguous; references try
// only when both imported and ambiguous and nameLength >= 3.
func (b *Budget) ShouldUseTypeChecker(ctx Context, hints Hints) bool {
	if b.remaining <= 0 {
		return false
	}
	switch ctx {
	case ContextHeritage, ContextDecorator:
		return true
	case ContextCall:
		return hints.Imported || hints.Ambiguous
	case ContextReference:
		return hints.Imported && hints.Ambiguous && hints.NameLength >= 3
	case ContextExport:
		return hints.Ambiguous
	default:
		return false
	}
}

// TakeBudget unconditionally decrements the remaining budget if available
// and reports whether a unit was consumed.
func (b *Budget) TakeBudget() bool {
	if b.remaining <= 0 {
		return false
	}
	b.remaining--
	b.spent++
	return true
}

// Reset restores the budget to its original total, for the start of a new
// scan.
func (b *Budget) Reset() {
	b.remaining = b.total
	b.spent = 0
}

// Stats is a snapshot of budget consumption.
type Stats struct {
	Remaining   int
	Spent       int
	Total       int
	PercentUsed float64
}

// Stats returns the current consumption snapshot.
func (b *Budget) Stats() Stats {
	percent := 0.0
	if b.total > 0 {
		percent = float64(b.spent) / float64(b.total) * 100
	}
	return Stats{
		Remaining:   b.remaining,
		Spent:       b.spent,
		Total:       b.total,
		PercentUsed: percent,
	}
}
