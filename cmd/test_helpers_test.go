package cmd

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"
	"time"
)

// captureOutput redirects os.Stdout and os.Stderr to pipes while f runs
// and returns what was written to each. The pipes are drained
// concurrently so large outputs cannot block f.
func captureOutput(f func()) (stdout, stderr string) {
	oldStdout, oldStderr := os.Stdout, os.Stderr
	rOut, wOut, _ := os.Pipe()
	rErr, wErr, _ := os.Pipe()
	os.Stdout, os.Stderr = wOut, wErr

	var bufOut, bufErr bytes.Buffer
	done := make(chan struct{}, 2)
	go func() { io.Copy(&bufOut, rOut); done <- struct{}{} }()
	go func() { io.Copy(&bufErr, rErr); done <- struct{}{} }()

	defer func() {
		os.Stdout, os.Stderr = oldStdout, oldStderr
	}()
	f()

	wOut.Close()
	wErr.Close()
	<-done
	<-done
	rOut.Close()
	rErr.Close()
	return bufOut.String(), bufErr.String()
}

// execute runs the CLI with --home set to home.
func execute(t *testing.T, home string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	full := append([]string{"clawsched", "--home", home}, args...)
	stdout, stderr = captureOutput(func() {
		err = Execute(full, BuildArgs{Version: "1.2.3", BuildType: "test", Date: "today", Commit: "abc"})
	})
	return stdout, stderr, err
}

// fixClock pins the time seen by the commands for the rest of the test.
func fixClock(t *testing.T, now time.Time) {
	t.Helper()
	old := timeNow
	timeNow = func() time.Time { return now }
	t.Cleanup(func() { timeNow = old })
}

// assertContains checks if output contains the expected substring.
func assertContains(t *testing.T, output, expected string) {
	t.Helper()
	if !strings.Contains(output, expected) {
		t.Errorf("expected output to contain %q, got:\n%s", expected, output)
	}
}

// assertNotContains checks if output does NOT contain the specified substring.
func assertNotContains(t *testing.T, output, notExpected string) {
	t.Helper()
	if strings.Contains(output, notExpected) {
		t.Errorf("expected output to NOT contain %q, got:\n%s", notExpected, output)
	}
}

// assertErrorFormat checks for "clawsched: cmd[action]:".
func assertErrorFormat(t *testing.T, output, cmd, action string) {
	t.Helper()
	pattern := "clawsched: " + cmd + "[" + action + "]:"
	if !strings.Contains(output, pattern) {
		t.Errorf("expected error format %q, got:\n%s", pattern, output)
	}
}
