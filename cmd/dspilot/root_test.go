package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadLinesFromArgs(t *testing.T) {
	lines, err := readLines([]string{"rec one", "rec two"}, "", strings.NewReader("unused"))
	if err != nil {
		t.Fatalf("readLines() error = %v", err)
	}
	if len(lines) != 2 || lines[0] != "rec one" {
		t.Errorf("readLines() = %v, expected the two arguments", lines)
	}
}

func TestReadLinesRejectsArgsAndFile(t *testing.T) {
	if _, err := readLines([]string{"rec"}, "keys.txt", nil); err == nil {
		t.Error("readLines() accepted both arguments and --file")
	}
}

func TestReadLinesFromStdin(t *testing.T) {
	input := "; header comment\n\nexample.net. 3600 IN DNSKEY 257 3 13 AAAA ; ksk\n   \n"
	lines, err := readLines(nil, "", strings.NewReader(input))
	if err != nil {
		t.Fatalf("readLines() error = %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("readLines() kept %d lines, expected 1: %v", len(lines), lines)
	}
	if lines[0] != "example.net. 3600 IN DNSKEY 257 3 13 AAAA ; ksk" {
		t.Errorf("readLines() altered the line: %q", lines[0])
	}
}

func TestReadLinesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys.txt")
	if err := os.WriteFile(path, []byte("first record\n; skip me\nsecond record\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	lines, err := readLines(nil, path, nil)
	if err != nil {
		t.Fatalf("readLines() error = %v", err)
	}
	if len(lines) != 2 {
		t.Errorf("readLines() kept %d lines, expected 2: %v", len(lines), lines)
	}
}

func TestReadLinesMissingFile(t *testing.T) {
	if _, err := readLines(nil, filepath.Join(t.TempDir(), "absent.txt"), nil); err == nil {
		t.Error("readLines() did not report the missing file")
	}
}

func TestResolveConfigFlagOverrides(t *testing.T) {
	flagEndpoint = "https://registry.example.test"
	flagConcurrency = 9
	flagVerbose = true
	defer func() {
		flagEndpoint = ""
		flagConcurrency = 0
		flagVerbose = false
	}()

	cfg, err := resolveConfig()
	if err != nil {
		t.Fatalf("resolveConfig() error = %v", err)
	}
	if cfg.Registry.Endpoint != "https://registry.example.test" {
		t.Errorf("Endpoint = %q, flag override lost", cfg.Registry.Endpoint)
	}
	if cfg.Run.Concurrency != 9 {
		t.Errorf("Concurrency = %d, expected 9", cfg.Run.Concurrency)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, expected debug from --verbose", cfg.Log.Level)
	}
}
