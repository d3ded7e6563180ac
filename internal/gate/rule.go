package gate

import (
	"regexp"
	"strings"

	shellwords "github.com/mattn/go-shellwords"
)

// CommandRule pairs a match predicate over raw command text with the reason
// reported when it fires. Rules are static data, evaluated in catalog order,
// first match wins.
type CommandRule struct {
	// Name is a short, unique identifier for this rule (e.g. "credential-export").
	Name string

	// Description is a human-readable summary of what this rule blocks.
	Description string

	// Reason is the label reported on a blocked verdict.
	Reason string

	predicate commandPredicate
}

// Matches reports whether the rule's predicate fires on the command text.
func (r CommandRule) Matches(command string) bool {
	return r.predicate.match(command)
}

type commandPredicate interface {
	match(command string) bool
}

// containsPattern matches when a case-insensitive regular expression is found
// anywhere in the raw command string. Matching is deliberately textual: no
// shell AST, so obfuscated commands can evade it and benign mentions can trip
// it. That trade-off is accepted.
type containsPattern struct {
	re *regexp.Regexp
}

func (p containsPattern) match(command string) bool {
	return p.re.MatchString(command)
}

// envFileArg matches when a given utility appears in the command and its
// argument list references a path ending in ".env". Tokenization respects
// shell quoting so quoted string literals do not trip the rule; commands that
// fail to tokenize fall back to a raw pattern match.
type envFileArg struct {
	utility  string
	fallback *regexp.Regexp
}

func (p envFileArg) match(command string) bool {
	tokens, err := shellwords.Parse(command)
	if err != nil {
		return p.fallback.MatchString(command)
	}

	utilityAt := -1
	for i, token := range tokens {
		if strings.EqualFold(token, p.utility) {
			utilityAt = i
			break
		}
	}
	if utilityAt < 0 {
		return false
	}

	for _, token := range tokens[utilityAt+1:] {
		if strings.HasSuffix(token, ".env") {
			return true
		}
	}
	return false
}

// PathRule pairs a basename predicate with an identifier. The reason on a
// blocked verdict names the offending basename.
type PathRule struct {
	// Name is a short, unique identifier for this rule.
	Name string

	// Description is a human-readable summary of what this rule blocks.
	Description string

	predicate pathPredicate
}

// Matches reports whether the rule's predicate fires on the path basename.
func (r PathRule) Matches(basename string) bool {
	return r.predicate.match(basename)
}

type pathPredicate interface {
	match(basename string) bool
}

// basenameEquals matches an exact basename.
type basenameEquals struct {
	name string
}

func (p basenameEquals) match(basename string) bool {
	return basename == p.name
}

// basenamePrefixExcludingSuffixes matches a basename prefix while exempting a
// set of suffixes that mark non-secret template files.
type basenamePrefixExcludingSuffixes struct {
	prefix string
	exempt []string
}

func (p basenamePrefixExcludingSuffixes) match(basename string) bool {
	if !strings.HasPrefix(basename, p.prefix) {
		return false
	}
	for _, suffix := range p.exempt {
		if strings.HasSuffix(basename, suffix) {
			return false
		}
	}
	return true
}
