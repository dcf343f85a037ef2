package report

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/vivekJax/JABS-Window-Analysis/internal/errors"
	"github.com/vivekJax/JABS-Window-Analysis/pkg/contracts/domain"
)

// Renderer writes the analysis reports. Rendering is deterministic: the same
// report data produces byte-identical output.
type Renderer struct {
	logger *slog.Logger
}

// NewRenderer creates a renderer. A nil logger falls back to slog.Default.
func NewRenderer(logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{logger: logger}
}

// WriteHTML renders the HTML report to path. The report is rendered in memory
// first so a failure never leaves a partial file behind.
func (r *Renderer) WriteHTML(data *ReportData, path string) error {
	var buf bytes.Buffer
	if err := r.HTML(data, &buf); err != nil {
		return err
	}
	if err := r.writeFile(path, buf.Bytes()); err != nil {
		return apperrors.NewReportError("failed to write html report", err)
	}
	r.logger.Debug("wrote html report", "path", path, "bytes", buf.Len())
	return nil
}

// WriteLaTeX renders the LaTeX report to path. The report is rendered in
// memory first so a failure never leaves a partial file behind.
func (r *Renderer) WriteLaTeX(data *ReportData, path string) error {
	var buf bytes.Buffer
	if err := r.LaTeX(data, &buf); err != nil {
		return err
	}
	if err := r.writeFile(path, buf.Bytes()); err != nil {
		return apperrors.NewReportError("failed to write latex report", err)
	}
	r.logger.Debug("wrote latex report", "path", path, "bytes", buf.Len())
	return nil
}

// WriteCharts writes each report chart as a standalone SVG file under dir
// and returns the file names written. Charts that would render empty (a
// column with no values, a video without per-window means) are skipped.
func (r *Renderer) WriteCharts(data *ReportData, dir string) ([]string, error) {
	if data == nil {
		return nil, apperrors.NewReportError("no report data to render", nil)
	}
	if data.Tables == nil {
		return nil, apperrors.NewReportError("no aggregate tables to render", nil)
	}

	var written []string
	write := func(name, svg string) error {
		if svg == "" {
			return nil
		}
		path := filepath.Join(dir, name)
		if err := r.writeFile(path, []byte(standaloneSVG(svg))); err != nil {
			return apperrors.NewReportError(fmt.Sprintf("failed to write chart %s", name), err)
		}
		written = append(written, name)
		return nil
	}

	for _, col := range domain.SummaryColumns {
		svg := BarbellChart(col, data.Stats, data.Tables.BestByColumn[col])
		if err := write("barbell_"+col+".svg", svg); err != nil {
			return written, err
		}
	}

	if err := write("boxplot_accuracy.svg", BoxWhiskerChart(domain.MetricAccuracy, data.AccuracySeries, data.Stats)); err != nil {
		return written, err
	}
	if err := write("boxplot_f1_behavior.svg", BoxWhiskerChart(domain.MetricF1Behavior, data.F1Series, data.Stats)); err != nil {
		return written, err
	}

	for _, entry := range data.Sensitivity {
		name := fmt.Sprintf("lollipop_%02d.svg", entry.Rank)
		svg := LollipopChart(entry.SensitivityEntry, data.LollipopMin, data.LollipopMax)
		if err := write(name, svg); err != nil {
			return written, err
		}
	}

	r.logger.Debug("wrote chart files", "dir", dir, "count", len(written))
	return written, nil
}

func (r *Renderer) writeFile(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// svgStyle carries the chart classes the HTML stylesheet normally provides,
// so standalone SVG files render on their own.
const svgStyle = `<style>` +
	`.barbell-line { stroke: #3498db; stroke-width: 1.5; opacity: 0.7; }` +
	`.barbell-dot { fill: #3498db; stroke: #2c3e50; stroke-width: 1; }` +
	`.barbell-dot-best { fill: #e74c3c; stroke: #c0392b; stroke-width: 2; }` +
	`.barbell-label { font-size: 10px; fill: #34495e; font-family: sans-serif; }` +
	`</style>`

// standaloneSVG injects the chart stylesheet right after the opening svg tag.
func standaloneSVG(fragment string) string {
	idx := strings.Index(fragment, ">")
	if idx < 0 {
		return fragment
	}
	return fragment[:idx+1] + svgStyle + fragment[idx+1:]
}
