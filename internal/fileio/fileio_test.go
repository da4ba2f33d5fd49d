package fileio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteThenRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.py")
	content := "def f():\n\treturn 'ü'\n"
	if err := WriteDocument(path, content); err != nil {
		t.Fatalf("WriteDocument: %v", err)
	}
	got, err := ReadDocument(path)
	if err != nil {
		t.Fatalf("ReadDocument: %v", err)
	}
	if got != content {
		t.Errorf("got %q, want %q", got, content)
	}
	if !Exists(path) {
		t.Error("Exists should report the written file")
	}
}

func TestReadMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.py")
	_, err := ReadDocument(path)
	var ioErr *IoError
	if !errors.As(err, &ioErr) {
		t.Fatalf("err = %v, want IoError", err)
	}
	if ioErr.Op != OpRead || ioErr.Path != path {
		t.Errorf("IoError = %+v", ioErr)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Error("IoError should unwrap to os.ErrNotExist")
	}
}

func TestReadRejectsBinary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bin.py")
	if err := os.WriteFile(path, []byte{0xff, 0xfe, 0x00}, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadDocument(path); !errors.Is(err, ErrInvalidUTF8) {
		t.Errorf("err = %v, want ErrInvalidUTF8", err)
	}
}

func TestWriteIntoMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "doc.py")
	err := WriteDocument(path, "x")
	var ioErr *IoError
	if !errors.As(err, &ioErr) || ioErr.Op != OpWrite {
		t.Errorf("err = %v, want write IoError", err)
	}
}
