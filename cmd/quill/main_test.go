package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// emptyConfig writes an empty config file so tests never read the user's.
func emptyConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCLI(t *testing.T, stdin string, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(context.Background(), args, strings.NewReader(stdin), &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestRunEvalStdin(t *testing.T) {
	code, out, errOut := runCLI(t, "hello",
		"-c", emptyConfig(t), "-e", `buf.move("end") buf.insert(" world")`)

	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %q", code, errOut)
	}
	if out != "hello world" {
		t.Errorf("stdout = %q", out)
	}
}

func TestRunScriptFileAndOutput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.txt")
	script := filepath.Join(dir, "swap.lua")
	output := filepath.Join(dir, "out.txt")

	if err := os.WriteFile(input, []byte("first\r\nsecond\r\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(script, []byte(`buf.move_lines_down()`), 0o644); err != nil {
		t.Fatal(err)
	}

	code, out, errOut := runCLI(t, "",
		"--config", emptyConfig(t), "--script", script, "--eval", `print("ran")`, "-o", output, input)

	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %q", code, errOut)
	}
	if out != "" {
		t.Errorf("stdout = %q, want nothing with -o", out)
	}
	if !strings.Contains(errOut, "ran") {
		t.Errorf("print output missing from stderr: %q", errOut)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "second\r\nfirst\r\n" {
		t.Errorf("output = %q", data)
	}
}

func TestRunStdinLineEndings(t *testing.T) {
	code, out, errOut := runCLI(t, "b\r\na\r\n", "-c", emptyConfig(t), "-e", `buf.move_lines_down()`)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %q", code, errOut)
	}
	if out != "a\r\nb\r\n" {
		t.Errorf("stdout = %q", out)
	}
}

func TestRunPassThrough(t *testing.T) {
	code, out, _ := runCLI(t, "unchanged\n", "-c", emptyConfig(t), "-")
	if code != 0 || out != "unchanged\n" {
		t.Errorf("code = %d, stdout = %q", code, out)
	}
}

func TestRunErrors(t *testing.T) {
	cfg := emptyConfig(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"script error", []string{"-c", cfg, "-e", `error("bad input")`}, "bad input"},
		{"missing file", []string{"-c", cfg, filepath.Join(t.TempDir(), "nope.txt")}, "nope.txt"},
		{"missing config", []string{"-c", filepath.Join(t.TempDir(), "nope.toml")}, "config"},
		{"bad log level", []string{"-c", cfg, "--log-level", "loud"}, "log.level"},
		{"two files", []string{"-c", cfg, "a", "b"}, "at most one file"},
		{"unknown flag", []string{"--frobnicate"}, "frobnicate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, errOut := runCLI(t, "", tt.args...)
			if code != 1 {
				t.Errorf("exit code = %d, want 1", code)
			}
			if !strings.Contains(errOut, tt.want) {
				t.Errorf("stderr %q should contain %q", errOut, tt.want)
			}
		})
	}
}

func TestRunVersion(t *testing.T) {
	code, out, _ := runCLI(t, "", "-v")
	if code != 0 || !strings.HasPrefix(out, "quill dev") {
		t.Errorf("code = %d, stdout = %q", code, out)
	}
}

func TestRunHelp(t *testing.T) {
	code, _, errOut := runCLI(t, "", "-h")
	if code != 0 {
		t.Errorf("exit code = %d", code)
	}
	if !strings.Contains(errOut, "QUILL_EDITOR_TAB_WIDTH") {
		t.Errorf("help should list environment overrides: %q", errOut)
	}
}
