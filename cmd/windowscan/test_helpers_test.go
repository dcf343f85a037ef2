package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vivekJax/JABS-Window-Analysis/internal/infrastructure"
)

// Two windows over the same two animals with internally consistent summary
// statistics; validation reports zero findings.
const cliScanFixture = `Behavior: Grooming
K-fold cross validation window scan

Window 10 frames

0 0.9000 0.9600 0.7000 0.9400 0.8100 0.9500 0.7200 cage4 2021-05-12 OFT.avi [1]
1 0.9000 0.9600 0.7000 0.9400 0.8100 0.9500 0.7200 cage4 2021-05-12 OFT.avi [2]

SUMMARY
0.9000 0.9600 0.7000 0.9400 0.8100 0.9500 0.7200 mean
0.0000 0.0000 0.0000 0.0000 0.0000 0.0000 0.0000 std dev

Top 2 features by importance:
Feature Name                                       Importance
--------------------------------------------------
base_tail_speed w10 mean                           0.0412
angular_velocity w30 stdev                         0.0388

%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%

Window 25 frames

0 0.9300 0.9700 0.7600 0.9500 0.8400 0.9600 0.7800 cage4 2021-05-12 OFT.avi [1]
1 0.9300 0.9700 0.7600 0.9500 0.8400 0.9600 0.7800 cage4 2021-05-12 OFT.avi [2]

SUMMARY
0.9300 0.9700 0.7600 0.9500 0.8400 0.9600 0.7800 mean
0.0000 0.0000 0.0000 0.0000 0.0000 0.0000 0.0000 std dev
`

// inconsistentScanFixture corrupts the reported mean accuracy of the last
// window so exactly one summary-statistics finding appears.
func inconsistentScanFixture() string {
	return strings.Replace(cliScanFixture,
		"0.9300 0.9700 0.7600 0.9500 0.8400 0.9600 0.7800 mean",
		"0.9999 0.9700 0.7600 0.9500 0.8400 0.9600 0.7800 mean", 1)
}

// duplicateRowScanFixture appends a repeated (video, identity) row to the
// first window. The parser drops it with a diagnostic, leaving the parsed
// data identical to the clean fixture.
func duplicateRowScanFixture() string {
	dup := "1 0.9000 0.9600 0.7000 0.9400 0.8100 0.9500 0.7200 cage4 2021-05-12 OFT.avi [2]\n"
	return strings.Replace(cliScanFixture, dup,
		dup+"2 0.9000 0.9600 0.7000 0.9400 0.8100 0.9500 0.7200 cage4 2021-05-12 OFT.avi [1]\n", 1)
}

// cliFixture is one temp workspace: a scan file plus a config file pointing
// every path into the workspace.
type cliFixture struct {
	configPath string
	scanPath   string
	outputDir  string
	chartsDir  string
	logsDir    string
}

func newCLIFixture(t *testing.T, scanText string) cliFixture {
	t.Helper()

	dir := t.TempDir()
	fx := cliFixture{
		configPath: filepath.Join(dir, "windowscan.yaml"),
		scanPath:   filepath.Join(dir, "kfold_results.txt"),
		outputDir:  filepath.Join(dir, "out"),
		logsDir:    filepath.Join(dir, "logs"),
	}
	fx.chartsDir = filepath.Join(fx.outputDir, "charts")
	require.NoError(t, os.WriteFile(fx.scanPath, []byte(scanText), 0o644))

	content := fmt.Sprintf(`input:
  scan_file: %s
paths:
  output_dir: %s
  logs_dir: %s
logging:
  output: file
`, fx.scanPath, fx.outputDir, fx.logsDir)
	require.NoError(t, os.WriteFile(fx.configPath, []byte(content), 0o644))
	return fx
}

// runCLI executes the root command with the given arguments, capturing
// stdout and stderr. The logger singleton resets first so every invocation
// logs into its own workspace.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	infrastructure.ResetLoggerForTesting()

	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}
