package tests

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/funvibe/packsig/internal/config"
)

// positionRegex matches the ":line:col:" part of a diagnostic line, which
// is tied to token positions rather than behavior and would make .want
// files brittle.
var positionRegex = regexp.MustCompile(`:\d+:\d+: \[`)

// TestFunctional runs signature source files through the compiled binary
// and compares output with .want files. This tests the actual binary -
// what users see.
func TestFunctional(t *testing.T) {
	// Get project root (parent of tests/)
	projectRoot, err := filepath.Abs("..")
	if err != nil {
		t.Fatalf("Failed to get project root: %v", err)
	}

	binaryPath := filepath.Join(projectRoot, "packsig-test-binary")
	defer os.Remove(binaryPath)

	// Always build fresh binary
	t.Log("Building fresh binary...")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/packsig")
	cmd.Dir = projectRoot
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build binary: %v\n%s", err, output)
	}

	// Find all source files with .want files
	var testFiles []string
	err = filepath.Walk(".", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		for _, ext := range config.SourceFileExtensions {
			if strings.HasSuffix(path, ext) {
				wantFile := strings.TrimSuffix(path, ext) + ".want"
				if _, err := os.Stat(wantFile); err == nil {
					testFiles = append(testFiles, path)
				}
				break
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to walk directory: %v", err)
	}

	if len(testFiles) == 0 {
		t.Skip("No test files with .want found")
	}

	for _, testFile := range testFiles {
		testFile := testFile
		testName := strings.TrimSuffix(filepath.Base(testFile), filepath.Ext(testFile))

		t.Run(testName, func(t *testing.T) {
			absPath, err := filepath.Abs(testFile)
			if err != nil {
				t.Fatalf("Failed to get absolute path: %v", err)
			}

			ext := filepath.Ext(testFile)
			wantFile := strings.TrimSuffix(testFile, ext) + ".want"
			wantBytes, err := os.ReadFile(wantFile)
			if err != nil {
				t.Fatalf("Failed to read .want file: %v", err)
			}
			want := strings.TrimSpace(string(wantBytes))

			// Run from project root so config discovery behaves as in a
			// checkout, with test mode set so output carries no colors.
			cmd := exec.Command(binaryPath, "check", absPath)
			cmd.Dir = projectRoot
			cmd.Env = append(os.Environ(), "PACKSIG_TEST_MODE=1")
			var stdout, stderr bytes.Buffer
			cmd.Stdout = &stdout
			cmd.Stderr = &stderr

			_ = cmd.Run()

			stdoutStr := strings.TrimSpace(stdout.String())
			stderrStr := strings.TrimSpace(stderr.String())

			if stderrStr != "" {
				// Normalize paths to be relative to project root and drop
				// line:column positions.
				stderrStr = strings.ReplaceAll(stderrStr, projectRoot+string(filepath.Separator), "")
				stderrStr = positionRegex.ReplaceAllString(stderrStr, ": [")
			}

			// Combine: stdout first, then stderr
			var got string
			if stdoutStr != "" && stderrStr != "" {
				got = stdoutStr + "\n" + stderrStr
			} else if stdoutStr != "" {
				got = stdoutStr
			} else {
				got = stderrStr
			}

			got = strings.TrimSpace(strings.ReplaceAll(got, "\r\n", "\n"))
			want = strings.TrimSpace(strings.ReplaceAll(want, "\r\n", "\n"))

			if got != want {
				t.Errorf("Output mismatch:\n--- want ---\n%s\n--- got ---\n%s", want, got)
			}
		})
	}
}
