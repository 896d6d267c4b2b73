package cli

import (
	"io"
	"os"
	"strings"
	"testing"
)

// captureStdout runs fn and returns everything it printed.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	rp, wp, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = wp
	defer func() { os.Stdout = old }()

	fn()
	wp.Close()
	data, err := io.ReadAll(rp)
	if err != nil {
		t.Fatalf("read captured output: %v", err)
	}
	return string(data)
}

func TestPrintWarningStatusCode(t *testing.T) {
	out := captureStdout(t, func() {
		printWarning("Solver did not converge (status %d)", 0)
	})
	if !strings.Contains(out, "status 0") {
		t.Errorf("warning missing status code: %q", out)
	}
	if strings.Contains(out, "%!") {
		t.Errorf("malformed format verb in warning: %q", out)
	}
}

func TestPrintFile(t *testing.T) {
	out := captureStdout(t, func() {
		printFile("result.json")
	})
	if !strings.Contains(out, "result.json") {
		t.Errorf("file line missing path: %q", out)
	}
}
