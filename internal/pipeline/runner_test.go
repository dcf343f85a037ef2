package pipeline

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vivekJax/JABS-Window-Analysis/internal/config"
	apperrors "github.com/vivekJax/JABS-Window-Analysis/internal/errors"
)

// Two windows over the same two animals with internally consistent summary
// statistics, so the validate stage reports zero findings.
const scanFixture = `Behavior: Grooming
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

// testConfig builds a validated configuration rooted in a fresh temp
// directory, with the fixture scan file already written.
func testConfig(t *testing.T) *config.Config {
	t.Helper()

	dir := t.TempDir()
	scanPath := filepath.Join(dir, "kfold_results.txt")
	require.NoError(t, os.WriteFile(scanPath, []byte(scanFixture), 0o644))

	cfg := config.Default()
	cfg.Input.ScanFile = scanPath
	cfg.Paths.OutputDir = filepath.Join(dir, "out")
	cfg.Paths.ChartsDir = filepath.Join(dir, "out", "charts")
	cfg.Paths.LogsDir = filepath.Join(dir, "logs")
	cfg.Logging.FilePath = filepath.Join(dir, "logs", "windowscan.log")
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestRunner_Run_FullPipeline(t *testing.T) {
	cfg := testConfig(t)
	runner := NewRunner(slog.Default(), nil)

	manifest, err := runner.Run(context.Background(), cfg, DefaultStages(slog.Default()))
	require.NoError(t, err)
	require.NotNil(t, manifest)

	assert.Equal(t, RunStatusCompleted, manifest.Status)
	assert.NotEmpty(t, manifest.RunID)
	assert.NotNil(t, manifest.EndTime)
	assert.Equal(t, cfg.Input.ScanFile, manifest.Input)

	// One manifest entry per stage, in execution order, all completed.
	require.Len(t, manifest.Stages, 5)
	wantOrder := []string{StageParse, StageValidate, StageAggregate, StageExport, StageReport}
	for i, rec := range manifest.Stages {
		assert.Equal(t, wantOrder[i], rec.ID)
		assert.Equal(t, StageStatusCompleted, rec.Status)
		assert.Empty(t, rec.Error)
	}
	assert.Equal(t, 4, manifest.Stages[0].Items, "parse counts video rows")
	assert.Equal(t, 0, manifest.Stages[1].Items, "consistent fixture has no findings")
	assert.Equal(t, 2, manifest.Stages[2].Items, "aggregate counts windows")

	for _, name := range []string{
		config.VideoResultsFile,
		config.SummaryStatsFile,
		config.FeatureImportanceFile,
		config.WindowStatsFile,
		config.MetadataFile,
		config.ValidationReportFile,
		config.HTMLReportFile,
		config.LaTeXReportFile,
		config.ExcelWorkbookFile,
	} {
		assert.FileExists(t, filepath.Join(cfg.Paths.OutputDir, name))
	}
	assert.FileExists(t, filepath.Join(cfg.Paths.ChartsDir, "boxplot_accuracy.svg"))
	assert.FileExists(t, filepath.Join(cfg.Paths.ChartsDir, "boxplot_f1_behavior.svg"))
	assert.NotEmpty(t, manifest.Artifacts)

	// The lock is released after the run.
	lock := flock.New(cfg.LockFilePath())
	locked, err := lock.TryLock()
	require.NoError(t, err)
	assert.True(t, locked)
	require.NoError(t, lock.Unlock())

	// The manifest on disk matches what Run returned.
	loaded, err := LoadManifest(cfg.ManifestPath())
	require.NoError(t, err)
	assert.Equal(t, manifest.RunID, loaded.RunID)
	assert.Equal(t, RunStatusCompleted, loaded.Status)
	assert.Len(t, loaded.Stages, 5)
}

func TestRunner_Run_StopsOnStageFailure(t *testing.T) {
	cfg := testConfig(t)
	cfg.Input.ScanFile = filepath.Join(t.TempDir(), "does_not_exist.txt")
	runner := NewRunner(slog.Default(), nil)

	manifest, err := runner.Run(context.Background(), cfg, DefaultStages(slog.Default()))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeInput))

	require.NotNil(t, manifest)
	assert.Equal(t, RunStatusFailed, manifest.Status)
	assert.NotEmpty(t, manifest.Error)

	// Only the failed first stage is recorded; nothing after it ran.
	require.Len(t, manifest.Stages, 1)
	assert.Equal(t, StageParse, manifest.Stages[0].ID)
	assert.Equal(t, StageStatusFailed, manifest.Stages[0].Status)
	assert.NotEmpty(t, manifest.Stages[0].Error)
	assert.NoFileExists(t, filepath.Join(cfg.Paths.OutputDir, config.ValidationReportFile))

	// The failure is still recorded on disk.
	loaded, err := LoadManifest(cfg.ManifestPath())
	require.NoError(t, err)
	assert.Equal(t, RunStatusFailed, loaded.Status)
}

func TestRunner_Run_RejectsConcurrentRun(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, cfg.EnsureDirectories())

	held := flock.New(cfg.LockFilePath())
	locked, err := held.TryLock()
	require.NoError(t, err)
	require.True(t, locked)
	defer func() { require.NoError(t, held.Unlock()) }()

	runner := NewRunner(slog.Default(), nil)
	manifest, err := runner.Run(context.Background(), cfg, DefaultStages(slog.Default()))
	require.Error(t, err)
	assert.Nil(t, manifest)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeStorage))
	assert.Contains(t, err.Error(), cfg.LockFilePath())
}

func TestRunner_Run_NilConfig(t *testing.T) {
	runner := NewRunner(nil, nil)

	manifest, err := runner.Run(context.Background(), nil, DefaultStages(nil))
	require.Error(t, err)
	assert.Nil(t, manifest)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
}

func TestRunner_Run_NoStages(t *testing.T) {
	cfg := testConfig(t)
	runner := NewRunner(slog.Default(), nil)

	manifest, err := runner.Run(context.Background(), cfg, nil)
	require.Error(t, err)
	assert.Nil(t, manifest)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
}
