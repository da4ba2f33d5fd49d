// Package fileio reads and writes whole documents.
package fileio

import (
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/bethropolis/quill/internal/logger"
)

// Op names the failed operation of an IoError.
type Op int

const (
	OpRead Op = iota
	OpWrite
)

func (o Op) String() string {
	if o == OpWrite {
		return "write"
	}
	return "read"
}

// ErrInvalidUTF8 is wrapped when a file does not hold UTF-8 text.
var ErrInvalidUTF8 = errors.New("file is not valid UTF-8")

// IoError reports a failed document read or write.
type IoError struct {
	Op   Op
	Path string
	Err  error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("could not %s file '%s': %v", e.Op, e.Path, e.Err)
}

func (e *IoError) Unwrap() error { return e.Err }

// ReadDocument returns the full contents of path.
func ReadDocument(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &IoError{Op: OpRead, Path: path, Err: err}
	}
	if !utf8.Valid(data) {
		return "", &IoError{Op: OpRead, Path: path, Err: ErrInvalidUTF8}
	}
	logger.Debugf("fileio: read %d bytes from %s", len(data), path)
	return string(data), nil
}

// WriteDocument replaces the contents of path with content.
func WriteDocument(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return &IoError{Op: OpWrite, Path: path, Err: err}
	}
	logger.Debugf("fileio: wrote %d bytes to %s", len(content), path)
	return nil
}

// Exists reports whether something is present at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
