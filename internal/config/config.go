// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/bethropolis/quill/internal/logger"
)

// Config holds the application's combined configuration.
type Config struct {
	Logger    logger.Config   `toml:"logger"`
	Editor    EditorConfig    `toml:"editor"`
	Run       RunConfig       `toml:"run"`
	Clipboard ClipboardConfig `toml:"clipboard"`
}

// EditorConfig holds editor-specific settings.
type EditorConfig struct {
	TabWidth    int      `toml:"tab_width"`
	SessionFile string   `toml:"session_file"`
	HelpFile    string   `toml:"help_file"`
	Extensions  []string `toml:"extensions"`
}

// RunConfig controls how the active document is executed.
type RunConfig struct {
	Command string   `toml:"command"`
	Timeout Duration `toml:"timeout"`
	SaveAll *bool    `toml:"save_all"`
}

// ClipboardConfig selects the clipboard backend.
type ClipboardConfig struct {
	System *bool `toml:"system"`
}

// Duration decodes TOML strings such as "30s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if s == "" || s == "0" {
		d.Duration = 0
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// SaveAllEnabled reports whether a run flushes every Bound tab.
func (r RunConfig) SaveAllEnabled() bool {
	return r.SaveAll == nil || *r.SaveAll
}

// Enabled reports whether the system clipboard should be used.
func (c ClipboardConfig) Enabled() bool {
	return c.System == nil || *c.System
}

var (
	loadedConfig *Config
	loadOnce     sync.Once
	loadErr      error
)

func boolPtr(b bool) *bool { return &b }

// NewDefaultConfig creates a Config struct with default values.
func NewDefaultConfig() *Config {
	session := DefaultSessionFileName
	if wd, err := os.Getwd(); err == nil {
		session = filepath.Join(wd, DefaultSessionFileName)
	}
	return &Config{
		Logger: logger.Config{
			LogLevel: "info",
		},
		Editor: EditorConfig{
			TabWidth:    DefaultTabWidth,
			SessionFile: session,
			Extensions:  append([]string(nil), DefaultExtensions...),
		},
		Run: RunConfig{
			Command: DefaultRunCommand,
			Timeout: Duration{DefaultRunTimeout},
			SaveAll: boolPtr(DefaultSaveAll),
		},
		Clipboard: ClipboardConfig{
			System: boolPtr(SystemClipboard),
		},
	}
}

// loadFromFile decodes the TOML file at filePath over cfg.
// A missing file is not an error.
func loadFromFile(filePath string, cfg *Config) error {
	_, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error checking config file '%s': %w", filePath, err)
	}

	metadata, err := toml.DecodeFile(filePath, cfg)
	if err != nil {
		return fmt.Errorf("failed to parse config file '%s': %w", filePath, err)
	}
	if undecoded := metadata.Undecoded(); len(undecoded) > 0 {
		// Logged later by main, once the logger exists.
		return fmt.Errorf("config file '%s': unrecognized keys: %v", filePath, undecoded)
	}
	return nil
}

// validate checks config values and resets invalid ones to defaults.
func (c *Config) validate() {
	defaults := NewDefaultConfig()

	if c.Editor.TabWidth <= 0 {
		c.Editor.TabWidth = defaults.Editor.TabWidth
	}
	if c.Editor.SessionFile == "" {
		c.Editor.SessionFile = defaults.Editor.SessionFile
	}
	for i, ext := range c.Editor.Extensions {
		if ext != "" && !strings.HasPrefix(ext, ".") {
			c.Editor.Extensions[i] = "." + ext
		}
	}
	if strings.TrimSpace(c.Run.Command) == "" {
		c.Run.Command = defaults.Run.Command
	}
	if c.Run.Timeout.Duration < 0 {
		c.Run.Timeout = defaults.Run.Timeout
	}
	if c.Logger.LogLevel == "" {
		c.Logger.LogLevel = defaults.Logger.LogLevel
	}
}

// DefaultPath returns ~/.config/quill/config.toml, or "" if unknown.
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(configDir, AppName, DefaultConfigFileName)
}

// load merges defaults, file and flags. It never returns a nil config.
func load(configFilePath string, flags *Flags) (*Config, error) {
	cfg := NewDefaultConfig()

	effectivePath := configFilePath
	if effectivePath == "" {
		effectivePath = DefaultPath()
	}

	var err error
	if effectivePath != "" {
		err = loadFromFile(effectivePath, cfg)
	}
	if flags != nil {
		flags.ApplyOverrides(cfg)
	}
	cfg.validate()
	return cfg, err
}

// LoadConfig orchestrates loading defaults, file, applying flags, and validation.
// It should be called only once, typically from main.
func LoadConfig(configFilePath string, flags *Flags) (*Config, error) {
	loadOnce.Do(func() {
		loadedConfig, loadErr = load(configFilePath, flags)
	})
	return loadedConfig, loadErr
}

// Get returns the loaded application configuration. Panics if LoadConfig wasn't called.
func Get() *Config {
	if loadedConfig == nil {
		panic("config.Get() called before config.LoadConfig()")
	}
	return loadedConfig
}
