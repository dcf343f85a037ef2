package exporter

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCSVWriter(t *testing.T) {
	writer := NewCSVWriter("/data/out")

	assert.NotNil(t, writer)
	assert.Equal(t, "/data/out", writer.outputDir)
}

func TestCSVWriter_WriteCSV(t *testing.T) {
	tempDir := t.TempDir()
	writer := NewCSVWriter(tempDir)

	tests := []struct {
		name     string
		filePath string
		options  WriteOptions
		validate func(t *testing.T, filePath string)
	}{
		{
			name:     "basic write with headers",
			filePath: "test_basic.csv",
			options: WriteOptions{
				Headers: []string{"window_size", "accuracy"},
				Records: [][]string{
					{"10", "0.9"},
					{"20", "0.85"},
				},
			},
			validate: func(t *testing.T, filePath string) {
				content, err := os.ReadFile(filePath)
				require.NoError(t, err)

				lines := strings.Split(strings.TrimSpace(string(content)), "\n")
				require.Len(t, lines, 3)
				assert.Equal(t, "window_size,accuracy", lines[0])
				assert.Equal(t, "10,0.9", lines[1])
				assert.Equal(t, "20,0.85", lines[2])
			},
		},
		{
			name:     "write with BOM prefix",
			filePath: "test_bom.csv",
			options: WriteOptions{
				Headers:   []string{"window_size"},
				Records:   [][]string{{"10"}},
				BOMPrefix: true,
			},
			validate: func(t *testing.T, filePath string) {
				content, err := os.ReadFile(filePath)
				require.NoError(t, err)
				assert.True(t, bytes.HasPrefix(content, []byte{0xEF, 0xBB, 0xBF}))
			},
		},
		{
			name:     "field with comma is quoted",
			filePath: "test_quoting.csv",
			options: WriteOptions{
				Headers: []string{"video_name"},
				Records: [][]string{{"mouse, cage 3.avi"}},
			},
			validate: func(t *testing.T, filePath string) {
				content, err := os.ReadFile(filePath)
				require.NoError(t, err)
				assert.Contains(t, string(content), `"mouse, cage 3.avi"`)
			},
		},
		{
			name:     "nested directory is created",
			filePath: "nested/deeper/test.csv",
			options: WriteOptions{
				Headers: []string{"a"},
				Records: [][]string{{"1"}},
			},
			validate: func(t *testing.T, filePath string) {
				_, err := os.Stat(filePath)
				assert.NoError(t, err)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := writer.WriteCSV(tt.filePath, tt.options)
			require.NoError(t, err)
			tt.validate(t, filepath.Join(tempDir, tt.filePath))
		})
	}
}

func TestCSVWriter_ReadCSV(t *testing.T) {
	tempDir := t.TempDir()
	writer := NewCSVWriter(tempDir)

	t.Run("round trip with BOM", func(t *testing.T) {
		headers := []string{"window_size", "video_name"}
		records := [][]string{{"10", "a.avi"}, {"20", "b.avi"}}
		require.NoError(t, writer.WriteSimpleCSV("roundtrip.csv", headers, records))

		gotHeaders, gotRecords, err := writer.ReadCSV("roundtrip.csv")
		require.NoError(t, err)
		assert.Equal(t, headers, gotHeaders, "BOM must not leak into the first header")
		assert.Equal(t, records, gotRecords)
	})

	t.Run("empty file", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, "empty.csv"), nil, 0o644))

		_, _, err := writer.ReadCSV("empty.csv")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "is empty")
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := writer.ReadCSV("does_not_exist.csv")
		require.Error(t, err)
	})
}

func TestCSVWriter_ResolvePath(t *testing.T) {
	writer := NewCSVWriter("/data/out")

	assert.Equal(t, filepath.Join("/data/out", "x.csv"), writer.resolvePath("x.csv"))
	assert.Equal(t, "/abs/x.csv", writer.resolvePath("/abs/x.csv"))

	bare := NewCSVWriter("")
	assert.Equal(t, "x.csv", bare.resolvePath("x.csv"))
}
