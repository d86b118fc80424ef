package cli

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"
)

func execRoot(t *testing.T, args ...string) string {
	t.Helper()
	root := New(io.Discard, LogInfo).RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs(args)
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("%v: %v", args, err)
	}
	return out.String()
}

func TestCacheCommands(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", home)

	if got, want := execRoot(t, "cache", "path"), filepath.Join(home, appName)+"\n"; got != want {
		t.Errorf("cache path = %q, want %q", got, want)
	}

	status := captureStdout(t)
	execRoot(t, "cache", "clear")
	if !strings.Contains(status.String(), "Nothing cached yet") {
		t.Errorf("clear on empty cache printed %q", status.String())
	}

	path := writeFile(t, t.TempDir(), "triangle.mtx", triangleMtx)
	execRoot(t, "ingest", path)
	status.Reset()
	execRoot(t, "cache", "clear")
	if !strings.Contains(status.String(), "Removed") {
		t.Errorf("clear printed %q", status.String())
	}
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			if out := execRoot(t, "completion", shell); !strings.Contains(out, appName) {
				t.Errorf("%s completion does not mention %s", shell, appName)
			}
		})
	}
}
