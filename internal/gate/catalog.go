package gate

import (
	"fmt"
	"regexp"
)

// envViewers are the text-viewing/filtering utilities guarded against reading
// env files. Each entry becomes one catalog rule so the reported reason names
// the exact utility; adding a utility is a one-line change.
var envViewers = []string{"cat", "grep", "head", "tail", "less", "more", "awk", "sed"}

// templateSuffixes mark env files that hold no secrets and are explicitly
// allowed to be read.
var templateSuffixes = []string{".example", ".template", ".sample"}

// commandRules is the ordered detection catalog for shell commands. It is
// built once and never mutated; the first matching rule's reason is the one
// reported.
var commandRules = buildCommandCatalog()

// pathRules is the ordered detection catalog for file and search paths.
var pathRules = []PathRule{
	{
		Name:        "env-file",
		Description: "Blocks access to a file named exactly .env",
		predicate:   basenameEquals{name: ".env"},
	},
	{
		Name:        "env-file-variant",
		Description: "Blocks access to .env.* files except .example/.template/.sample templates",
		predicate: basenamePrefixExcludingSuffixes{
			prefix: ".env.",
			exempt: templateSuffixes,
		},
	},
}

func buildCommandCatalog() []CommandRule {
	rules := []CommandRule{
		{
			Name:        "env-source",
			Description: "Blocks sourcing or dot-invoking a .env file",
			Reason:      "env file sourced",
			predicate: containsPattern{
				re: regexp.MustCompile(`(?i)(^|[\s;&|(])(source|\.)\s+\S*\.env['"]?(\s|$|[;|&])`),
			},
		},
	}

	for _, utility := range envViewers {
		rules = append(rules, CommandRule{
			Name:        "env-read-" + utility,
			Description: fmt.Sprintf("Blocks %s invocations that reference a .env file", utility),
			Reason:      "env file read via " + utility,
			predicate: envFileArg{
				utility:  utility,
				fallback: regexp.MustCompile(`(?i)(^|[\s;&|(])` + regexp.QuoteMeta(utility) + `\s[^|;&]*\.env['"]?(\s|$|[;|&])`),
			},
		})
	}

	rules = append(rules,
		CommandRule{
			Name:        "curl-credential-param",
			Description: "Blocks curl requests carrying a secret-named variable or credential field",
			Reason:      "credential in curl request",
			predicate: containsPattern{
				re: regexp.MustCompile(`(?i)curl[^|;&]*(\w*(_secret|_token|_key)\w*\s*=|client_secret|refresh_token|api_key)`),
			},
		},
		CommandRule{
			Name:        "curl-auth-header",
			Description: "Blocks curl Authorization headers built from shell variable expansion",
			Reason:      "credential in authorization header",
			predicate: containsPattern{
				re: regexp.MustCompile(`(?i)curl[^|;&]*(-h|--header)\s*['"]?authorization[^|;&]*\$`),
			},
		},
		CommandRule{
			Name:        "secret-echo",
			Description: "Blocks echoing shell variables with secret-bearing names",
			Reason:      "credential echo",
			predicate: containsPattern{
				re: regexp.MustCompile(`(?i)(^|[\s;&|(])echo\s[^|;&]*\$\{?\w*(secret|token|api_key)`),
			},
		},
		CommandRule{
			Name:        "credential-export",
			Description: "Blocks exporting shell variables with secret-bearing names",
			Reason:      "credential export",
			predicate: containsPattern{
				re: regexp.MustCompile(`(?i)(^|[\s;&|(])export\s+\w*(secret|token|api_key)\w*=`),
			},
		},
		CommandRule{
			Name:        "env-pipe",
			Description: "Blocks piping a .env file into another command",
			Reason:      "env file piped",
			predicate: containsPattern{
				re: regexp.MustCompile(`(?i)\.env['"]?\s*\|([^|]|$)`),
			},
		},
	)

	return rules
}

// RuleInfo describes one catalog entry for documentation and tooling.
type RuleInfo struct {
	Name        string
	Description string
}

// CatalogInfo returns the full rule catalog, command rules first, in
// evaluation order.
func CatalogInfo() []RuleInfo {
	infos := make([]RuleInfo, 0, len(commandRules)+len(pathRules))
	for _, rule := range commandRules {
		infos = append(infos, RuleInfo{Name: rule.Name, Description: rule.Description})
	}
	for _, rule := range pathRules {
		infos = append(infos, RuleInfo{Name: rule.Name, Description: rule.Description})
	}
	return infos
}
