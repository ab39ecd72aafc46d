// Log rotation tests
//
// Copyright (C) 2026  Shaker Host Project
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package log

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRotatingFileWriterBasic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shaker.log")

	w, err := NewRotatingFileWriter(RotationConfig{Filename: path})
	if err != nil {
		t.Fatalf("NewRotatingFileWriter: %v", err)
	}
	defer w.Close()

	msg := []byte("hello\n")
	n, err := w.Write(msg)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if n != len(msg) {
		t.Errorf("wrote %d bytes, want %d", n, len(msg))
	}
	if w.CurrentSize() != int64(len(msg)) {
		t.Errorf("CurrentSize = %d, want %d", w.CurrentSize(), len(msg))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "hello\n" {
		t.Errorf("file content = %q", data)
	}
}

func TestRotatingFileWriterMissingFilename(t *testing.T) {
	if _, err := NewRotatingFileWriter(RotationConfig{}); err == nil {
		t.Fatal("expected error for empty filename")
	}
}

func TestRotatingFileWriterRotates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shaker.log")

	w, err := NewRotatingFileWriter(RotationConfig{Filename: path, MaxSize: 1})
	if err != nil {
		t.Fatalf("NewRotatingFileWriter: %v", err)
	}
	defer w.Close()

	// Force the size over the 1 MB limit, then write again to trigger rotation.
	line := strings.Repeat("x", 1024)
	for i := 0; i < 1025; i++ {
		if _, err := w.Write([]byte(line)); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	var rotated int
	for _, e := range entries {
		if e.Name() != "shaker.log" && strings.HasPrefix(e.Name(), "shaker.") {
			rotated++
		}
	}
	if rotated == 0 {
		t.Error("expected at least one rotated backup file")
	}
}

func TestNewFileLogger(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shaker.log")

	logger, w, err := NewFileLogger("test", RotationConfig{Filename: path})
	if err != nil {
		t.Fatalf("NewFileLogger: %v", err)
	}
	defer w.Close()

	logger.Info("to file")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "to file") {
		t.Errorf("file content missing message: %q", data)
	}
	if strings.Contains(string(data), "\x1b[") {
		t.Errorf("file output should not be colorized: %q", data)
	}
}
