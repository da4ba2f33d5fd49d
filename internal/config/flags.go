// internal/config/flags.go
package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/bethropolis/quill/internal/logger"
)

// Flags holds values parsed from command-line flags.
// Use pointers to distinguish between unset flags and zero-value flags.
type Flags struct {
	fs *flag.FlagSet

	ConfigFilePath  *string
	Version         *bool
	Screen          *bool
	LogLevel        *string
	LogFilePath     *string
	TabWidth        *int
	SessionFile     *string
	RunCommand      *string
	RunTimeout      *time.Duration
	SystemClipboard *bool
	EnableTags      *string
	DisableTags     *string
}

// DefineFlags registers the flags on fs (flag.CommandLine when nil).
func (f *Flags) DefineFlags(fs *flag.FlagSet) {
	if fs == nil {
		fs = flag.CommandLine
	}
	f.fs = fs
	f.ConfigFilePath = fs.String("config", "", fmt.Sprintf("Path to TOML configuration file (default ~/.config/%s/%s)", AppName, DefaultConfigFileName))
	f.Version = fs.Bool("version", false, "Show version information and exit")
	f.Screen = fs.Bool("tui", false, "Full-screen terminal interface instead of reading commands from stdin")
	f.LogLevel = fs.String("loglevel", "", "Log level (debug, info, warn, error) - Overrides config file")
	f.LogFilePath = fs.String("logfile", "", "Path to write log file (use '-' for stderr) - Overrides config file")
	f.TabWidth = fs.Int("tabwidth", 0, "Spaces collapsed into one tab on save - Overrides config file")
	f.SessionFile = fs.String("session", "", "Path of the session record - Overrides config file")
	f.RunCommand = fs.String("run-command", "", "Shell command used to run the active file ($QUILL_FILE) - Overrides config file")
	f.RunTimeout = fs.Duration("run-timeout", 0, "Kill the run after this long (0 waits forever) - Overrides config file")
	f.SystemClipboard = fs.Bool("system-clipboard", SystemClipboard, "Use system clipboard instead of internal clipboard")
	f.EnableTags = fs.String("log-tags", "", "Comma-separated list of tags to enable - Overrides config file")
	f.DisableTags = fs.String("log-disable-tags", "", "Comma-separated list of tags to disable - Overrides config file")
}

// ParseFlags defines and parses the command-line flags.
// It returns the remaining non-flag arguments (files to open).
func (f *Flags) ParseFlags(args []string) ([]string, error) {
	if f.fs == nil {
		f.DefineFlags(nil)
	}
	if err := f.fs.Parse(args); err != nil {
		return nil, err
	}
	return f.fs.Args(), nil
}

// ApplyOverrides updates the Config struct with values from flags *if* they were set.
func (f *Flags) ApplyOverrides(cfg *Config) {
	if f.fs == nil {
		return
	}
	f.fs.Visit(func(fl *flag.Flag) {
		logger.DebugTagf("config", "Applying flag override: %s", fl.Name)
		switch fl.Name {
		case "loglevel":
			if *f.LogLevel != "" {
				cfg.Logger.LogLevel = *f.LogLevel
			}
		case "logfile":
			cfg.Logger.LogFilePath = *f.LogFilePath
		case "tabwidth":
			if *f.TabWidth > 0 {
				cfg.Editor.TabWidth = *f.TabWidth
			}
		case "session":
			if *f.SessionFile != "" {
				cfg.Editor.SessionFile = *f.SessionFile
			}
		case "run-command":
			if *f.RunCommand != "" {
				cfg.Run.Command = *f.RunCommand
			}
		case "run-timeout":
			if *f.RunTimeout >= 0 {
				cfg.Run.Timeout = Duration{*f.RunTimeout}
			}
		case "system-clipboard":
			cfg.Clipboard.System = boolPtr(*f.SystemClipboard)
		case "log-tags":
			if tags := splitCommaList(*f.EnableTags); len(tags) > 0 {
				cfg.Logger.EnabledTags = tags
			}
		case "log-disable-tags":
			if tags := splitCommaList(*f.DisableTags); len(tags) > 0 {
				cfg.Logger.DisabledTags = tags
			}
		}
	})
}

func splitCommaList(list string) []string {
	if list == "" {
		return nil
	}
	items := strings.Split(list, ",")
	result := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
