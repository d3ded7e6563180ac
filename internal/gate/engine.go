package gate

import (
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/envgate/envgate/internal/audit"
)

// defaultSessionID is recorded when the session environment variable is unset.
const defaultSessionID = "unknown"

// TimeProvider provides the current time (allows mocking in tests)
type TimeProvider func() time.Time

// Engine dispatches tool invocation events to the appropriate classifier and
// hands blocked verdicts to the audit sink. It is stateless across calls: the
// rule catalog is immutable and the sink is write-only, so one Engine may be
// shared by concurrent evaluations without locking.
type Engine struct {
	sink         audit.Sink
	sessionVar   string
	timeProvider TimeProvider
	logger       *log.Logger
}

// NewEngine creates an engine that records blocked verdicts through sink.
// sessionVar names the environment variable holding the agent session id.
func NewEngine(sink audit.Sink, sessionVar string) *Engine {
	return &Engine{
		sink:         sink,
		sessionVar:   sessionVar,
		timeProvider: time.Now,
		logger:       log.Default().WithPrefix("gate"),
	}
}

// SetTimeProvider sets a custom time provider for testing
func (e *Engine) SetTimeProvider(tp TimeProvider) {
	e.timeProvider = tp
}

// Evaluate classifies a single tool invocation event and returns the verdict.
//
// Only three call shapes are guarded: Bash commands, Read file paths, and
// Grep search paths. Every other tool passes through unexamined, and a nil
// event or a missing argument resolves to Allow (nothing to inspect).
func (e *Engine) Evaluate(event *ToolEvent) *Verdict {
	if event == nil {
		return NewAllowedVerdict()
	}

	var verdict *Verdict
	switch event.ToolName {
	case "Bash":
		command, ok := event.GetStringArg("command")
		if !ok || command == "" {
			return NewAllowedVerdict()
		}
		verdict = ClassifyCommand(command)
	case "Read":
		path, _ := event.GetStringArg("file_path")
		verdict = ClassifyPath(path)
	case "Grep":
		path, _ := event.GetStringArg("path")
		verdict = ClassifyPath(path)
	default:
		return NewAllowedVerdict()
	}

	if !verdict.Allowed {
		e.recordBlock(event.ToolName, verdict)
	}

	return verdict
}

// recordBlock appends an audit record for a blocked verdict. Auditing is
// best-effort and diagnostic only: a sink failure is logged at debug level
// and otherwise discarded, never retried, and never alters the verdict.
func (e *Engine) recordBlock(toolName string, verdict *Verdict) {
	if e.sink == nil {
		return
	}

	record := audit.Record{
		Time:      e.timeProvider(),
		SessionID: e.sessionID(),
		Tool:      toolName,
		Reason:    verdict.Reason,
		Detail:    verdict.Detail,
	}
	if err := e.sink.Append(record); err != nil {
		e.logger.Debug("audit append failed", "err", err)
	}
}

func (e *Engine) sessionID() string {
	if e.sessionVar == "" {
		return defaultSessionID
	}
	if session := os.Getenv(e.sessionVar); session != "" {
		return session
	}
	return defaultSessionID
}
