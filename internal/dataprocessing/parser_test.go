package dataprocessing

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/vivekJax/JABS-Window-Analysis/internal/errors"
	"github.com/vivekJax/JABS-Window-Analysis/pkg/contracts/domain"
)

const fullScanFixture = `Behavior: Grooming
Classifier: gradient boosting
K-fold cross validation window scan

Window 10 frames

0 0.9312 0.9755 0.7012 0.9482 0.8213 0.9610 0.7564 LL1-B2B 2021-05-12 OFT.avi [1]
1 0.9225 0.9644 0.6682 0.9407 0.8092 0.9511 0.7260 LL1-B2B 2021-05-12 OFT.avi [2]
2 0.9271 0.9702 0.6848 0.9446 0.8155 0.9562 0.7413 LL3-A1A 2021-06-02 OFT.avi [1]

SUMMARY
0.9269 0.9700 0.6847 0.9445 0.8153 0.9561 0.7412 mean
0.0243 0.0112 0.0895 0.0201 0.0767 0.0145 0.0732 std dev

Top 3 features by importance:
Feature Name                                       Importance
--------------------------------------------------
base_tail_speed w10 mean                           0.0412
angular_velocity w30 stdev                         0.0388
nose_to_base_tail_distance w10 min                 0.0351

%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%

Window 25 frames

0 0.9418 0.9801 0.7455 0.9533 0.8461 0.9655 0.7822 LL1-B2B 2021-05-12 OFT.avi [1]
1 0.9377 0.9762 0.7301 0.9502 0.8377 0.9621 0.7698 LL1-B2B 2021-05-12 OFT.avi [2]

SUMMARY
0.9398 0.9782 0.7378 0.9518 0.8419 0.9638 0.7760 mean
0.0029 0.0028 0.0109 0.0022 0.0059 0.0024 0.0088 std dev

Top 2 features by importance:
Feature Name                                       Importance
--------------------------------------------------
base_tail_speed w10 mean                           0.0456
nose_speed w25 median                              0.0401

%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%
`

func TestParser_Parse_FullScan(t *testing.T) {
	ctx := context.Background()
	parser := NewParser(slog.Default())

	result, err := parser.Parse(ctx, strings.NewReader(fullScanFixture))
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Empty(t, result.Diagnostics)
	assert.Equal(t, []int{10, 25}, result.WindowSizes())

	w10 := result.Section(10)
	require.NotNil(t, w10)
	require.Len(t, w10.Videos, 3)

	row := w10.Videos[1]
	assert.Equal(t, 1, row.VideoID)
	assert.Equal(t, "LL1-B2B 2021-05-12 OFT.avi", row.VideoName)
	assert.Equal(t, 2, row.Identity)
	assert.Equal(t, 10, row.WindowSize)
	assert.InDelta(t, 0.9225, row.Accuracy, 1e-9)
	assert.InDelta(t, 0.9511, row.F1NotBehavior, 1e-9)
	assert.InDelta(t, 0.7260, row.F1Behavior, 1e-9)
	assert.True(t, row.InRange())

	require.True(t, w10.HasSummary())
	require.True(t, w10.Summary.Complete())
	assert.InDelta(t, 0.9269, *w10.Summary.MeanAccuracy, 1e-9)
	assert.InDelta(t, 0.0243, *w10.Summary.SDAccuracy, 1e-9)
	assert.InDelta(t, 0.7412, *w10.Summary.MeanF1Behavior, 1e-9)
	assert.InDelta(t, 0.0732, *w10.Summary.SDF1Behavior, 1e-9)
	assert.InDelta(t, 0.9561, *w10.Summary.MeanF1NotBehavior, 1e-9)
	assert.InDelta(t, 0.0145, *w10.Summary.SDF1NotBehavior, 1e-9)

	require.Len(t, w10.Features, 3)
	assert.Equal(t, 1, w10.Features[0].Rank)
	assert.Equal(t, "base_tail_speed w10 mean", w10.Features[0].FeatureName)
	assert.InDelta(t, 0.0412, w10.Features[0].Importance, 1e-9)
	assert.Equal(t, 3, w10.Features[2].Rank)
	assert.Equal(t, "nose_to_base_tail_distance w10 min", w10.Features[2].FeatureName)

	w25 := result.Section(25)
	require.NotNil(t, w25)
	assert.Len(t, w25.Videos, 2)
	require.Len(t, w25.Features, 2)
	assert.Equal(t, 1, w25.Features[0].Rank)

	meta := result.Metadata()
	assert.Equal(t, 2, meta.WindowCount)
	assert.Equal(t, 3, meta.VideoCount)
	assert.Equal(t, map[int]int{10: 3, 25: 2}, meta.VideosPerWindow)
}

func TestParser_Parse_LabelledStats(t *testing.T) {
	fixture := `Window 40

0 0.9102 0.9581 0.6402 0.9311 0.7902 0.9402 0.7102 test video one.avi [1]

Mean Accuracy: 0.9102
Std-Dev Accuracy: 0.0150
Mean F1 Score (Behavior): 0.7102
SD F1 (Behavior): 0.0410
Mean F1 (not behavior): 0.9402
Std Dev F1 Score (Not Behavior): 0.0125
`
	result, err := NewParser(nil).Parse(context.Background(), strings.NewReader(fixture))
	require.NoError(t, err)

	require.Len(t, result.Windows, 1)
	section := result.Section(40)
	require.NotNil(t, section)
	require.True(t, section.HasSummary())
	require.True(t, section.Summary.Complete())

	assert.InDelta(t, 0.9102, *section.Summary.MeanAccuracy, 1e-9)
	assert.InDelta(t, 0.0150, *section.Summary.SDAccuracy, 1e-9)
	assert.InDelta(t, 0.7102, *section.Summary.MeanF1Behavior, 1e-9)
	assert.InDelta(t, 0.0410, *section.Summary.SDF1Behavior, 1e-9)
	assert.InDelta(t, 0.9402, *section.Summary.MeanF1NotBehavior, 1e-9)
	assert.InDelta(t, 0.0125, *section.Summary.SDF1NotBehavior, 1e-9)
}

func TestParser_Parse_Diagnostics(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantKind   domain.DiagnosticKind
		wantVideos int
	}{
		{
			name: "metric is not a number",
			input: "Window 5\n" +
				"0 0.91 0.95 0.66 0.94 0.81 0.95 oops clip.avi [1]\n",
			wantKind:   domain.DiagnosticMalformedRow,
			wantVideos: 0,
		},
		{
			name: "missing identity marker",
			input: "Window 5\n" +
				"0 0.91 0.95 0.66 0.94 0.81 0.95 0.71 clip.avi\n",
			wantKind:   domain.DiagnosticMalformedRow,
			wantVideos: 0,
		},
		{
			name: "duplicate pair keeps the first row",
			input: "Window 5\n" +
				"0 0.91 0.95 0.66 0.94 0.81 0.95 0.71 clip.avi [1]\n" +
				"1 0.88 0.93 0.61 0.92 0.78 0.93 0.68 clip.avi [1]\n",
			wantKind:   domain.DiagnosticDuplicateIdentity,
			wantVideos: 1,
		},
		{
			name: "row before any header",
			input: "0 0.91 0.95 0.66 0.94 0.81 0.95 0.71 clip.avi [1]\n" +
				"Window 5\n" +
				"0 0.91 0.95 0.66 0.94 0.81 0.95 0.71 clip.avi [1]\n",
			wantKind:   domain.DiagnosticOrphanRow,
			wantVideos: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NewParser(slog.Default()).Parse(context.Background(), strings.NewReader(tt.input))
			require.NoError(t, err)

			require.Len(t, result.Diagnostics, 1)
			assert.Equal(t, tt.wantKind, result.Diagnostics[0].Kind)
			assert.Len(t, result.VideoRows(), tt.wantVideos)
		})
	}
}

func TestParser_Parse_DuplicateKeepsFirstValues(t *testing.T) {
	input := "Window 5\n" +
		"0 0.91 0.95 0.66 0.94 0.81 0.95 0.71 clip.avi [1]\n" +
		"1 0.50 0.50 0.50 0.50 0.50 0.50 0.50 clip.avi [1]\n"

	result, err := NewParser(slog.Default()).Parse(context.Background(), strings.NewReader(input))
	require.NoError(t, err)

	rows := result.VideoRows()
	require.Len(t, rows, 1)
	assert.InDelta(t, 0.91, rows[0].Accuracy, 1e-9)
	assert.Equal(t, 0, rows[0].VideoID)
}

func TestParser_Parse_InvalidHeader(t *testing.T) {
	input := "Window 0 frames\nWindow 5\n" +
		"0 0.91 0.95 0.66 0.94 0.81 0.95 0.71 clip.avi [1]\n"

	result, err := NewParser(slog.Default()).Parse(context.Background(), strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, domain.DiagnosticInvalidHeader, result.Diagnostics[0].Kind)
	assert.Equal(t, []int{5}, result.WindowSizes())
}

func TestParser_Parse_HeaderMustAnchorLineStart(t *testing.T) {
	// Neither prose mentioning a window nor a video name containing
	// "window 5" may open a section.
	input := "Processing window 5 results now\n" +
		"Window 10\n" +
		"0 0.91 0.95 0.66 0.94 0.81 0.95 0.71 window 5 test.avi [1]\n"

	result, err := NewParser(slog.Default()).Parse(context.Background(), strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []int{10}, result.WindowSizes())
	rows := result.VideoRows()
	require.Len(t, rows, 1)
	assert.Equal(t, "window 5 test.avi", rows[0].VideoName)
}

func TestParser_Parse_ReopenedSectionMerges(t *testing.T) {
	input := "Window 5\n" +
		"0 0.91 0.95 0.66 0.94 0.81 0.95 0.71 first.avi [1]\n" +
		"Window 10\n" +
		"0 0.93 0.96 0.70 0.95 0.83 0.96 0.74 other.avi [1]\n" +
		"Window 5\n" +
		"1 0.89 0.94 0.62 0.93 0.79 0.94 0.69 second.avi [1]\n" +
		"2 0.50 0.50 0.50 0.50 0.50 0.50 0.50 first.avi [1]\n"

	result, err := NewParser(slog.Default()).Parse(context.Background(), strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []int{5, 10}, result.WindowSizes())
	require.Len(t, result.Windows, 2)

	w5 := result.Section(5)
	require.Len(t, w5.Videos, 2)
	assert.Equal(t, "first.avi", w5.Videos[0].VideoName)
	assert.Equal(t, "second.avi", w5.Videos[1].VideoName)

	// The repeated first.avi [1] in the reopened part is still a duplicate.
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, domain.DiagnosticDuplicateIdentity, result.Diagnostics[0].Kind)
}

func TestParser_Parse_FatalErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantType apperrors.ErrorType
	}{
		{name: "empty input", input: "", wantType: apperrors.ErrTypeInput},
		{name: "whitespace only", input: "\n\n   \n", wantType: apperrors.ErrTypeInput},
		{name: "no window header", input: "some preamble\nno data here\n", wantType: apperrors.ErrTypeParsing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NewParser(slog.Default()).Parse(context.Background(), strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, apperrors.IsType(err, tt.wantType),
				"got error type %s, want %s", apperrors.GetType(err), tt.wantType)
		})
	}
}

func TestParser_ParseFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("reads and labels the source", func(t *testing.T) {
		path := filepath.Join(dir, "kfold_results.txt")
		require.NoError(t, os.WriteFile(path, []byte(fullScanFixture), 0o644))

		result, err := NewParser(slog.Default()).ParseFile(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, path, result.SourceName)
		assert.Len(t, result.Windows, 2)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := NewParser(slog.Default()).ParseFile(context.Background(), filepath.Join(dir, "nope.txt"))
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeInput))
	})

	t.Run("empty file", func(t *testing.T) {
		path := filepath.Join(dir, "empty.txt")
		require.NoError(t, os.WriteFile(path, nil, 0o644))

		_, err := NewParser(slog.Default()).ParseFile(context.Background(), path)
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeInput))
	})
}

func TestParseVideoRow(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantName string
		wantID   int
		wantIdty int
		wantErr  bool
	}{
		{
			name:     "plain name",
			line:     "3 0.9312 0.9755 0.7012 0.9482 0.8213 0.9610 0.7564 clip.avi [2]",
			wantName: "clip.avi",
			wantID:   3,
			wantIdty: 2,
		},
		{
			name:     "name with spaces",
			line:     "0 0.91 0.95 0.66 0.94 0.81 0.95 0.71 open field 2021-06-01 cage 4.avi [11]",
			wantName: "open field 2021-06-01 cage 4.avi",
			wantIdty: 11,
		},
		{
			name:    "identity marker missing",
			line:    "0 0.91 0.95 0.66 0.94 0.81 0.95 0.71 clip.avi",
			wantErr: true,
		},
		{
			name:    "no name before the marker",
			line:    "0 0.91 0.95 0.66 0.94 0.81 0.95 0.71 [3]",
			wantErr: true,
		},
		{
			name:    "metric not numeric",
			line:    "0 0.91 x 0.66 0.94 0.81 0.95 0.71 clip.avi [3]",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, err := parseVideoRow(strings.Fields(tt.line))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, row.VideoName)
			assert.Equal(t, tt.wantID, row.VideoID)
			assert.Equal(t, tt.wantIdty, row.Identity)
		})
	}
}

func TestParseFeatureRow(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantName string
		wantImp  float64
		wantOK   bool
	}{
		{
			name:     "plain row",
			line:     "angular_velocity w30 stdev 0.0388",
			wantName: "angular_velocity w30 stdev",
			wantImp:  0.0388,
			wantOK:   true,
		},
		{
			name:     "explicit leading rank is dropped",
			line:     "1 base_tail_speed w10 mean 0.0412",
			wantName: "base_tail_speed w10 mean",
			wantImp:  0.0412,
			wantOK:   true,
		},
		{
			name:   "final token not a number",
			line:   "base_tail_speed w10 mean high",
			wantOK: false,
		},
		{
			name:   "single token",
			line:   "0.0412",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, imp, ok := parseFeatureRow(tt.line)
			require.Equal(t, tt.wantOK, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.wantName, name)
			assert.InDelta(t, tt.wantImp, imp, 1e-9)
		})
	}
}

func TestParser_Parse_OutOfRangeRowsSurvive(t *testing.T) {
	input := "Window 5\n" +
		"0 1.5 0.95 0.66 0.94 0.81 0.95 0.71 broken.avi [1]\n"

	result, err := NewParser(slog.Default()).Parse(context.Background(), strings.NewReader(input))
	require.NoError(t, err)

	rows := result.VideoRows()
	require.Len(t, rows, 1)
	assert.False(t, rows[0].InRange())
	assert.Equal(t, []string{domain.MetricAccuracy}, rows[0].RangeViolations())
	assert.Empty(t, result.Diagnostics)
}
