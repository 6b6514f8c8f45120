package main

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorewood/git-vines/internal/output"
)

// isolateConfig points the config lookup at an empty directory.
func isolateConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("GIT_VINES_CONFIG_HOME", dir)
	return dir
}

func TestRootCommand_Version(t *testing.T) {
	isolateConfig(t)
	// Set version for testing
	version = "1.2.3"

	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--version"})

	err := cmd.Execute()
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "1.2.3") {
		t.Errorf("--version output should contain version: %q", output)
	}
	if !strings.Contains(output, "git-vines") {
		t.Errorf("--version output should contain 'git-vines': %q", output)
	}
}

func TestRootCommand_Help(t *testing.T) {
	isolateConfig(t)
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--help"})

	err := cmd.Execute()
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	output := buf.String()

	// Check for expected help content
	expectations := []string{
		"git-vines",
		"Usage:",
		"--svdepth",
		"--status",
		"--style",
		"--graph-margin-left",
		"--graph-symbol-overpass",
		"--color",
		"serve",
	}

	for _, expected := range expectations {
		if !strings.Contains(output, expected) {
			t.Errorf("--help output should contain %q: %q", expected, output)
		}
	}
}

func TestBuildVersion(t *testing.T) {
	oldVersion, oldCommit, oldDate := version, commit, date
	t.Cleanup(func() { version, commit, date = oldVersion, oldCommit, oldDate })

	version, commit, date = "v1.0.0", "none", "unknown"
	if got := buildVersion(); got != "v1.0.0" {
		t.Errorf("buildVersion() = %q, want v1.0.0", got)
	}

	commit, date = "0123456789abcdef", "2024-01-01"
	if got := buildVersion(); got != "v1.0.0 (0123456, 2024-01-01)" {
		t.Errorf("buildVersion() = %q", got)
	}
}

func TestRootCommand_InvalidStyle(t *testing.T) {
	isolateConfig(t)
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--style", "3"})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected an error for --style 3")
	}
	if code := output.GetExitCode(err); code != output.ExitUserError {
		t.Errorf("exit code = %d, want %d", code, output.ExitUserError)
	}
}

func TestRootCommand_InvalidConfig(t *testing.T) {
	dir := isolateConfig(t)
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("bogus: 1\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	if code := output.GetExitCode(err); code != output.ExitUserError {
		t.Errorf("exit code = %d (%v), want %d", code, err, output.ExitUserError)
	}
}

func TestRootCommand_DrawsGraph(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	configDir := isolateConfig(t)
	config := "style: 2\ngraph_margin_left: 0\nsymbols:\n  root: R\n"
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(config), 0o600); err != nil {
		t.Fatal(err)
	}

	repo := t.TempDir()
	for _, args := range [][]string{
		{"init", "--initial-branch=main"},
		{"config", "user.email", "test@example.com"},
		{"config", "user.name", "Test User"},
		{"config", "commit.gpgsign", "false"},
		{"commit", "--allow-empty", "-m", "first"},
		{"commit", "--allow-empty", "-m", "second"},
	} {
		gitCmd := exec.Command("git", args...)
		gitCmd.Dir = repo
		if out, err := gitCmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v failed: %v\n%s", args, err, out)
		}
	}

	cmd := newRootCmd()
	stdout := new(bytes.Buffer)
	cmd.SetOut(stdout)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"-C", repo, "--color", "never", "--graph-symbol-commit", "C"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(stdout.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), stdout.String())
	}
	if !strings.HasPrefix(lines[0], "C  ") || !strings.HasSuffix(lines[0], "second") {
		t.Errorf("first line = %q, want the commit symbol flag and no left margin", lines[0])
	}
	if !strings.HasPrefix(lines[1], "R  ") || !strings.HasSuffix(lines[1], "first") {
		t.Errorf("second line = %q, want the root symbol from the config file", lines[1])
	}
	if strings.Contains(stdout.String(), "\x1b[") {
		t.Error("--color never should not emit ANSI escapes")
	}
}
