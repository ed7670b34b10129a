package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/saworbit/binkit/pkg/config"
)

func writeTempFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.bin")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func runCommand(t *testing.T, args ...string) error {
	t.Helper()
	root := newRootCmd(config.DefaultConfig())
	root.SetArgs(args)
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	return root.Execute()
}

func TestRootCmdHasAllSubcommands(t *testing.T) {
	root := newRootCmd(config.DefaultConfig())

	want := []string{
		"read", "write", "edit", "search", "analyze",
		"diff", "patch", "checksum", "struct", "convert", "watch",
	}
	have := make(map[string]bool)
	for _, c := range root.Commands() {
		have[c.Name()] = true
	}
	for _, name := range want {
		if !have[name] {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestRootCmdRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Format = "base64"
	root := newRootCmd(cfg)
	root.SetArgs([]string{"read", "0..4", "-i", os.DevNull})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	if err := root.Execute(); err == nil {
		t.Error("Execute() = nil, want config validation error")
	}
}

func TestReadCommand(t *testing.T) {
	input := writeTempFile(t, []byte{0xde, 0xad, 0xbe, 0xef})
	output := filepath.Join(t.TempDir(), "out.txt")

	if err := runCommand(t, "read", "1..3", "-i", input, "-o", output); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	got, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if strings.TrimSpace(string(got)) != "ad be" {
		t.Errorf("read output = %q, want \"ad be\"", strings.TrimSpace(string(got)))
	}
}

func TestWriteCommand(t *testing.T) {
	input := writeTempFile(t, []byte{0x00, 0x01, 0x02, 0x03})
	output := filepath.Join(t.TempDir(), "out.bin")

	err := runCommand(t, "write", "1", "CAFE",
		"-i", input, "-o", output, "--silent")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	got, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if want := []byte{0x00, 0xca, 0xfe, 0x03}; !bytes.Equal(got, want) {
		t.Errorf("write output = %x, want %x", got, want)
	}
}

func TestEditCommandInFile(t *testing.T) {
	input := writeTempFile(t, []byte{0x01, 0x02, 0x03})

	err := runCommand(t, "edit", "remove", "1", "-i", input, "--in-file", "--silent")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	got, err := os.ReadFile(input)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if want := []byte{0x01, 0x03}; !bytes.Equal(got, want) {
		t.Errorf("edited file = %x, want %x", got, want)
	}
}

func TestSearchCommand(t *testing.T) {
	input := writeTempFile(t, []byte{0xde, 0xad, 0xbe, 0xef, 0xbe, 0xef})
	output := filepath.Join(t.TempDir(), "out.txt")

	err := runCommand(t, "search", "BEEF", "--all", "--offsets-only",
		"-i", input, "-o", output)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	got, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if want := "0x00000002\n0x00000004"; strings.TrimSpace(string(got)) != want {
		t.Errorf("search output = %q, want %q", strings.TrimSpace(string(got)), want)
	}
}

func TestDiffCommandPatchRoundTrip(t *testing.T) {
	dir := t.TempDir()
	file1 := filepath.Join(dir, "a.bin")
	file2 := filepath.Join(dir, "b.bin")
	patchFile := filepath.Join(dir, "changes.patch")
	result := filepath.Join(dir, "result.bin")

	data1 := []byte{0xde, 0xad, 0xbe, 0xef}
	data2 := []byte{0xde, 0xaf, 0xbe, 0xed}
	if err := os.WriteFile(file1, data1, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(file2, data2, 0o644); err != nil {
		t.Fatal(err)
	}

	err := runCommand(t, "diff", file1, file2,
		"--diff-format", "patch", "--color", "never", "-o", patchFile)
	if err != nil {
		t.Fatalf("diff error = %v", err)
	}

	err = runCommand(t, "patch", "apply", file1, patchFile,
		"--type", "text", "-o", result)
	if err != nil {
		t.Fatalf("patch apply error = %v", err)
	}

	got, err := os.ReadFile(result)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.Equal(got, data2) {
		t.Errorf("patched result = %x, want %x", got, data2)
	}
}

func TestChecksumCommand(t *testing.T) {
	input := writeTempFile(t, bytes.Repeat([]byte{0x55}, 128))
	output := filepath.Join(t.TempDir(), "out.txt")

	err := runCommand(t, "checksum", "--block-size", "64", "-i", input, "-o", output)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	got, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	for _, want := range []string{"Algorithm:   sha256", "Blocks:      2", "Merkle root: "} {
		if !strings.Contains(string(got), want) {
			t.Errorf("checksum output missing %q:\n%s", want, got)
		}
	}
}

func TestAnalyzeCommand(t *testing.T) {
	input := writeTempFile(t, bytes.Repeat([]byte{0xaa}, 64))
	output := filepath.Join(t.TempDir(), "out.txt")

	err := runCommand(t, "analyze", "entropy", "--block-size", "0",
		"-i", input, "-o", output)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	got, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(got), "Entropy: 0.0000 bits/byte") {
		t.Errorf("analyze output missing entropy line:\n%s", got)
	}
}
