package gate

import (
	"fmt"
	"path/filepath"
)

// ClassifyPath evaluates a target file or search path against the env-file
// naming rules. Only the final path segment is consulted: a directory layout
// cannot make `.env` safe, and template files (.env.example and friends) are
// allowed wherever they live.
func ClassifyPath(path string) *Verdict {
	if path == "" {
		return NewAllowedVerdict()
	}

	basename := filepath.Base(path)
	for _, rule := range pathRules {
		if rule.Matches(basename) {
			reason := fmt.Sprintf("sensitive env file: %s", basename)
			return NewBlockedVerdict(rule.Name, reason, path)
		}
	}
	return NewAllowedVerdict()
}
