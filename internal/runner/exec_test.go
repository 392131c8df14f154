package runner

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestExecRunnerCapturesStdout(t *testing.T) {
	// cat echoes stdin back, standing in for an interpreter.
	r := NewExecRunner([]string{"cat"}, 5*time.Second)

	out, err := r.Run(context.Background(), "print('hi')")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out != "print('hi')" {
		t.Errorf("out = %q", out)
	}
}

func TestExecRunnerFailureCarriesStderr(t *testing.T) {
	r := NewExecRunner([]string{"sh", "-c", "echo boom >&2; exit 1"}, 5*time.Second)

	_, err := r.Run(context.Background(), "ignored")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("err = %q, want stderr text", err)
	}
}

func TestExecRunnerTimeout(t *testing.T) {
	r := NewExecRunner([]string{"sleep", "5"}, 50*time.Millisecond)

	_, err := r.Run(context.Background(), "")
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("err = %q, want timeout", err)
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("a", 100)
	got := truncate(long, 10)
	if !strings.HasPrefix(got, strings.Repeat("a", 10)) || !strings.Contains(got, "truncated") {
		t.Errorf("truncate = %q", got)
	}
	if truncate("short", 10) != "short" {
		t.Error("short string was modified")
	}
}
