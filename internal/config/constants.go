package config

import "time"

// Base application details
const AppName = "quill"
const Version = "0.3.0"
const DefaultConfigFileName = "config.toml"
const DefaultSessionFileName = "quill.cnf"

// Editor
const DefaultTabWidth = 4

var DefaultExtensions = []string{".py"}

// Run
const DefaultRunCommand = `python3 "$QUILL_FILE"`
const DefaultRunTimeout = time.Duration(0) // block until the program exits
const DefaultSaveAll = true

// Clipboard
const SystemClipboard = true
