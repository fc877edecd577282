package framework

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/creack/pty"
)

const modulePath = "module github.com/Hanaasagi/pdftables\n"

// findProjectRoot searches upwards for the go.mod declaring the main module
func findProjectRoot(startDir string) string {
	dir := startDir
	for {
		content, err := os.ReadFile(filepath.Join(dir, "go.mod"))
		if err == nil && strings.HasPrefix(strings.TrimSpace(string(content))+"\n", modulePath) {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached root directory
		}
		dir = parent
	}
	return ""
}

// Framework runs the pdftables binary against token stream inputs
type Framework struct {
	BinaryPath string
	Timeout    time.Duration
	TTY        bool // Attach the process to a pseudo terminal
}

// TestCase represents a single e2e test case
type TestCase struct {
	Name           string
	Input          string // Token stream JSON written to a temporary file
	Args           []string
	ExpectedOutput []string // Substrings the output must contain
	ExpectError    bool
	Timeout        time.Duration
}

// TestResult represents the result of a test case
type TestResult struct {
	Name    string
	Passed  bool
	Error   string
	Output  string
	Elapsed time.Duration
}

// NewFramework creates a new e2e test framework
func NewFramework() *Framework {
	return &Framework{Timeout: 10 * time.Second}
}

// BuildBinary builds the pdftables binary for testing
func (f *Framework) BuildBinary() error {
	if f.BinaryPath != "" {
		return nil // Already set
	}

	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	projectRoot := findProjectRoot(wd)
	if projectRoot == "" {
		return fmt.Errorf("could not find project root directory from %s", wd)
	}

	buildDir := filepath.Join(projectRoot, "build")
	binaryPath := filepath.Join(buildDir, "pdftables")

	if err := os.MkdirAll(buildDir, 0o755); err != nil {
		return fmt.Errorf("failed to create build directory: %w", err)
	}

	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/pdftables")
	cmd.Dir = projectRoot
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("failed to build binary: %w, output: %s", err, string(output))
	}

	f.BinaryPath = binaryPath
	return nil
}

// RunTest executes a single test case
func (f *Framework) RunTest(testCase TestCase) TestResult {
	start := time.Now()
	result := TestResult{Name: testCase.Name}
	fail := func(format string, args ...any) TestResult {
		result.Error = fmt.Sprintf(format, args...)
		result.Elapsed = time.Since(start)
		return result
	}

	if err := f.BuildBinary(); err != nil {
		return fail("failed to build binary: %v", err)
	}

	workDir, err := os.MkdirTemp("", "pdftables-e2e-*")
	if err != nil {
		return fail("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(workDir)

	inputPath := filepath.Join(workDir, "input.json")
	if err := os.WriteFile(inputPath, []byte(testCase.Input), 0o644); err != nil {
		return fail("failed to write input: %v", err)
	}

	args := append([]string{
		"--config", filepath.Join(workDir, "none.toml"),
		"--log-file", filepath.Join(workDir, "pdftables.log"),
	}, testCase.Args...)
	args = append(args, inputPath)

	cmd := exec.Command(f.BinaryPath, args...)

	timeout := testCase.Timeout
	if timeout == 0 {
		timeout = f.Timeout
	}

	output, runErr := f.run(cmd, timeout)
	result.Output = output

	if runErr != nil && !testCase.ExpectError {
		return fail("command failed: %v", runErr)
	}
	if runErr == nil && testCase.ExpectError {
		return fail("expected the command to fail")
	}

	for _, want := range testCase.ExpectedOutput {
		if !strings.Contains(output, want) {
			return fail("output does not contain %q", want)
		}
	}

	result.Passed = true
	result.Elapsed = time.Since(start)
	return result
}

// run executes cmd, through a pseudo terminal when f.TTY is set, and
// returns everything it printed.
func (f *Framework) run(cmd *exec.Cmd, timeout time.Duration) (string, error) {
	var output bytes.Buffer
	done := make(chan error, 1)

	if f.TTY {
		ptmx, err := pty.Start(cmd)
		if err != nil {
			return "", fmt.Errorf("failed to start command: %w", err)
		}
		defer ptmx.Close()

		go func() {
			// Reading the pty fails with EIO once the child exits.
			_, _ = io.Copy(&output, ptmx)
			done <- cmd.Wait()
		}()
	} else {
		cmd.Stdout = &output
		cmd.Stderr = &output
		if err := cmd.Start(); err != nil {
			return "", fmt.Errorf("failed to start command: %w", err)
		}
		go func() { done <- cmd.Wait() }()
	}

	select {
	case err := <-done:
		return output.String(), err
	case <-time.After(timeout):
		_ = cmd.Process.Kill()
		return output.String(), fmt.Errorf("test timed out")
	}
}

// RunTests executes multiple test cases
func (f *Framework) RunTests(testCases []TestCase) []TestResult {
	results := make([]TestResult, len(testCases))
	for i, testCase := range testCases {
		fmt.Printf("Running test: %s\n", testCase.Name)
		results[i] = f.RunTest(testCase)
		if results[i].Passed {
			fmt.Printf("PASS %s (%.2fs)\n", testCase.Name, results[i].Elapsed.Seconds())
		} else {
			fmt.Printf("FAIL %s (%.2fs): %s\n", testCase.Name, results[i].Elapsed.Seconds(), results[i].Error)
		}
	}
	return results
}
