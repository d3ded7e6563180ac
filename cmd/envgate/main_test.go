package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCmd(t *testing.T) {
	cmd := newRootCmd()

	assert.Equal(t, "envgate", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	commandNames := make([]string, 0, len(cmd.Commands()))
	for _, c := range cmd.Commands() {
		commandNames = append(commandNames, c.Name())
	}
	assert.ElementsMatch(t, []string{"pre-tool-use", "check", "rules"}, commandNames)
}

func TestNewPreToolUseCmd(t *testing.T) {
	cmd := newPreToolUseCmd()

	assert.Equal(t, "pre-tool-use", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
	assert.NotNil(t, cmd.RunE)

	err := cmd.Args(cmd, []string{})
	assert.NoError(t, err)

	err = cmd.Args(cmd, []string{"extra"})
	assert.Error(t, err)
}

func TestRunPreToolUse_Allow(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "benign command",
			input: `{"tool_name": "Bash", "tool_input": {"command": "ls -la"}}`,
		},
		{
			name:  "template env file read",
			input: `{"tool_name": "Read", "tool_input": {"file_path": "/repo/.env.example"}}`,
		},
		{
			name:  "unguarded tool",
			input: `{"tool_name": "Write", "tool_input": {"file_path": "/repo/.env"}}`,
		},
		{
			name:  "empty event",
			input: `{}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := new(bytes.Buffer)

			code := runPreToolUse(strings.NewReader(tt.input), out)

			assert.Equal(t, 0, code)
			assert.Empty(t, out.String(), "allow must be silent")
		})
	}
}

func TestRunPreToolUse_FailOpenOnMalformedInput(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "empty stream",
			input: ``,
		},
		{
			name:  "invalid JSON",
			input: `{invalid json}`,
		},
		{
			name:  "non-object payload",
			input: `[1, 2, 3]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := new(bytes.Buffer)

			code := runPreToolUse(strings.NewReader(tt.input), out)

			assert.Equal(t, 0, code)
			assert.Empty(t, out.String())
		})
	}
}

func TestRunPreToolUse_Block(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	logDir := t.TempDir()
	t.Setenv("ENVGATE_AUDIT_LOG_DIR", logDir)
	t.Setenv("CLAUDE_SESSION_ID", "session-7")

	out := new(bytes.Buffer)
	input := `{"tool_name": "Bash", "tool_input": {"command": "cat .env"}}`

	code := runPreToolUse(strings.NewReader(input), out)

	assert.Equal(t, exitBlocked, code)

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "SECURITY BLOCKED: env file read via cat", lines[0])
	assert.Equal(t, blockedWrapperLine, lines[1])
	assert.Equal(t, blockedEnvEditLine, lines[2])

	data, err := os.ReadFile(filepath.Join(logDir, "audit.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "BLOCKED | session=session-7 | tool=Bash | reason=env file read via cat | detail=cat .env")
}

func TestRunPreToolUse_AuditDisabled(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	logDir := t.TempDir()
	t.Setenv("ENVGATE_AUDIT_LOG_DIR", logDir)
	t.Setenv("ENVGATE_AUDIT_ENABLED", "false")

	out := new(bytes.Buffer)
	input := `{"tool_name": "Read", "tool_input": {"file_path": "/repo/.env"}}`

	code := runPreToolUse(strings.NewReader(input), out)

	assert.Equal(t, exitBlocked, code, "disabling audit must not disable blocking")

	_, err := os.Stat(filepath.Join(logDir, "audit.log"))
	assert.True(t, os.IsNotExist(err), "no audit log should be written when disabled")
}

func TestCheckCmd(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantErr    bool
		wantOutput string
	}{
		{
			name:       "benign command",
			args:       []string{"check", "--command", "ls -la"},
			wantOutput: "allow\n",
		},
		{
			name:       "blocked command",
			args:       []string{"check", "--command", "cat .env"},
			wantOutput: "block: env file read via cat (rule env-read-cat)\n",
		},
		{
			name:       "blocked path",
			args:       []string{"check", "--path", "/repo/.env.local"},
			wantOutput: "block: sensitive env file: .env.local (rule env-file-variant)\n",
		},
		{
			name:       "template path",
			args:       []string{"check", "--path", "/repo/.env.sample"},
			wantOutput: "allow\n",
		},
		{
			name:    "no flags is an error",
			args:    []string{"check"},
			wantErr: true,
		},
		{
			name:    "both flags is an error",
			args:    []string{"check", "--command", "ls", "--path", "/repo"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newRootCmd()
			out := new(bytes.Buffer)
			cmd.SetOut(out)
			cmd.SetErr(new(bytes.Buffer))
			cmd.SetArgs(tt.args)

			err := cmd.Execute()

			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOutput, out.String())
		})
	}
}

func TestRulesCmd(t *testing.T) {
	cmd := newRootCmd()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetArgs([]string{"rules"})

	err := cmd.Execute()
	require.NoError(t, err)

	got := out.String()
	for _, name := range []string{"env-source", "env-read-cat", "curl-auth-header", "credential-export", "env-file", "env-file-variant"} {
		assert.Contains(t, got, name)
	}
}
