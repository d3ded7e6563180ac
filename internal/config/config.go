// Package config loads gate configuration from defaults, an optional config
// file, and ENVGATE_* environment variables, in that order of precedence.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
)

// Config holds all gate settings.
type Config struct {
	Audit   AuditConfig
	Session SessionConfig
}

// AuditConfig controls the audit log destination.
type AuditConfig struct {
	// Enabled toggles audit logging entirely.
	Enabled bool

	// LogDir is the directory holding the audit log, created on demand.
	LogDir string

	// LogFile is the log file name inside LogDir.
	LogFile string
}

// SessionConfig controls how the agent session is identified.
type SessionConfig struct {
	// EnvVar names the environment variable holding the session id.
	EnvVar string
}

// Load resolves the configuration. It never fails: an unreadable or invalid
// config file is logged at debug level and the defaults apply, because a
// configuration problem must never turn into a blocked or stalled agent.
func Load() *Config {
	v := viper.New()

	v.SetDefault("audit.enabled", true)
	v.SetDefault("audit.log_dir", defaultLogDir())
	v.SetDefault("audit.log_file", "audit.log")
	v.SetDefault("session.env_var", "CLAUDE_SESSION_ID")

	v.SetEnvPrefix("ENVGATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".envgate"))
		v.SetConfigName("config")
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
				log.Debug("ignoring unreadable config file", "err", err)
			}
		}
	}

	return &Config{
		Audit: AuditConfig{
			Enabled: v.GetBool("audit.enabled"),
			LogDir:  v.GetString("audit.log_dir"),
			LogFile: v.GetString("audit.log_file"),
		},
		Session: SessionConfig{
			EnvVar: v.GetString("session.env_var"),
		},
	}
}

func defaultLogDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".envgate"
	}
	return filepath.Join(home, ".envgate")
}
