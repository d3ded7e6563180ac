package gate

// maxDetailLen caps the evidence detail carried on a blocked verdict so the
// audit log cannot grow unboundedly from a single huge command.
const maxDetailLen = 200

// Verdict is the outcome of classifying a tool invocation.
type Verdict struct {
	// Allowed indicates whether the tool invocation may proceed.
	Allowed bool

	// RuleName identifies the catalog rule that blocked, empty when allowed.
	RuleName string

	// Reason explains why the invocation was blocked.
	Reason string

	// Detail carries the offending command text or path, truncated to
	// maxDetailLen characters.
	Detail string
}

// NewAllowedVerdict creates a verdict that allows the tool invocation.
func NewAllowedVerdict() *Verdict {
	return &Verdict{
		Allowed: true,
	}
}

// NewBlockedVerdict creates a verdict that blocks the tool invocation.
func NewBlockedVerdict(ruleName, reason, detail string) *Verdict {
	return &Verdict{
		Allowed:  false,
		RuleName: ruleName,
		Reason:   reason,
		Detail:   truncateDetail(detail),
	}
}

// truncateDetail caps s at maxDetailLen characters. Truncation counts runes,
// not bytes, so the audit line never carries a torn multibyte sequence.
func truncateDetail(s string) string {
	if len(s) <= maxDetailLen {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxDetailLen {
		return s
	}
	return string(runes[:maxDetailLen])
}
