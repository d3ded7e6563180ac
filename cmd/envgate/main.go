package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/envgate/envgate/internal/audit"
	"github.com/envgate/envgate/internal/config"
	"github.com/envgate/envgate/internal/gate"
)

// exitBlocked is the exit status signalling the caller to abort the tool call.
const exitBlocked = 2

// Fixed instructions printed after the block reason. The agent reads these
// instead of the tool output it would otherwise have seen.
const (
	blockedWrapperLine = "Use the credential-isolated wrapper scripts for operations that need secrets."
	blockedEnvEditLine = "Changes to .env files must be made by the human operator."
)

var flagVerbose bool

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "envgate",
		Short: "Credential-exposure gate for agent tool calls",
		Long: `A PreToolUse hook that inspects agent tool calls before they execute and
blocks the ones that would expose credential material (.env files, API keys,
tokens) to the agent's context. Allowed calls pass through untouched.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flagVerbose {
				log.SetLevel(log.DebugLevel)
				log.SetReportTimestamp(false)
			} else {
				log.SetOutput(io.Discard)
			}
		},
	}
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "enable debug logging on stderr")

	rootCmd.AddCommand(newPreToolUseCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newRulesCmd())

	return rootCmd
}

func newPreToolUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pre-tool-use",
		Short: "Evaluate one tool invocation read from stdin",
		Long: `Reads a tool invocation event from stdin as JSON and classifies it.

Exit status 0 with no output allows the call. Exit status 2 blocks it and
prints the block message on stdout. Unparseable input is fail-open: it exits 0
silently rather than stalling the agent on an integration bug.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if code := runPreToolUse(cmd.InOrStdin(), cmd.OutOrStdout()); code != 0 {
				os.Exit(code)
			}
			return nil
		},
	}
}

// runPreToolUse evaluates one event and returns the process exit status.
func runPreToolUse(in io.Reader, out io.Writer) int {
	event := gate.ParseToolEvent(in)
	if event == nil {
		log.Debug("unparseable event, allowing")
		return 0
	}

	cfg := config.Load()
	var sink audit.Sink = audit.NopSink{}
	if cfg.Audit.Enabled {
		sink = audit.NewFileSink(cfg.Audit.LogDir, cfg.Audit.LogFile)
	}

	engine := gate.NewEngine(sink, cfg.Session.EnvVar)
	verdict := engine.Evaluate(event)
	log.Debug("evaluated event", "tool", event.ToolName, "allowed", verdict.Allowed, "rule", verdict.RuleName)

	if verdict.Allowed {
		return 0
	}

	fmt.Fprintf(out, "SECURITY BLOCKED: %s\n", verdict.Reason)
	fmt.Fprintln(out, blockedWrapperLine)
	fmt.Fprintln(out, blockedEnvEditLine)
	return exitBlocked
}

func newCheckCmd() *cobra.Command {
	var flagCommand string
	var flagPath string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Simulate the verdict for a command or path",
		Long: `Classifies a shell command or a file path without reading stdin and
without touching the audit log. Useful for verifying what the gate would do.

Examples:
  envgate check --command "cat .env"
  envgate check --path /repo/.env.local`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (flagCommand == "") == (flagPath == "") {
				return fmt.Errorf("exactly one of --command or --path is required")
			}

			var verdict *gate.Verdict
			if flagCommand != "" {
				verdict = gate.ClassifyCommand(flagCommand)
			} else {
				verdict = gate.ClassifyPath(flagPath)
			}

			if verdict.Allowed {
				fmt.Fprintln(cmd.OutOrStdout(), "allow")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "block: %s (rule %s)\n", verdict.Reason, verdict.RuleName)
			return nil
		},
	}

	cmd.Flags().StringVar(&flagCommand, "command", "", "shell command to classify")
	cmd.Flags().StringVar(&flagPath, "path", "", "file or search path to classify")

	return cmd
}

func newRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the detection rule catalog",
		Long:  `Prints every rule in the catalog, in evaluation order, with a short description.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, info := range gate.CatalogInfo() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-22s %s\n", info.Name, info.Description)
			}
			return nil
		},
	}
}
