package gate

// ClassifyCommand evaluates a raw shell command string against the command
// rule catalog. The first matching rule blocks; if no rule matches the
// command is allowed. Classification is pure: same input, same verdict, no
// environment dependence beyond the literal text.
func ClassifyCommand(command string) *Verdict {
	for _, rule := range commandRules {
		if rule.Matches(command) {
			return NewBlockedVerdict(rule.Name, rule.Reason, command)
		}
	}
	return NewAllowedVerdict()
}
