package dataprocessing

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"

	apperrors "github.com/vivekJax/JABS-Window-Analysis/internal/errors"
	"github.com/vivekJax/JABS-Window-Analysis/pkg/contracts/domain"
)

// maxLineBytes bounds a single input line. Scan files are line oriented and
// a line past this size means the input is not a scan results file.
const maxLineBytes = 1024 * 1024

var (
	// windowHeaderRe matches section headers like "Window 5" or
	// "window 25 frames". Anchored so that prose mentioning a window
	// mid-line cannot open a section.
	windowHeaderRe = regexp.MustCompile(`(?i)^window\s+(\d+)\b`)

	// identityRe finds the held-out identity marker "[3]" in the text that
	// follows a video row's metric columns.
	identityRe = regexp.MustCompile(`\[(\d+)\]`)
)

// statPatterns recognizes the labelled statistic lines some scans print
// instead of (or in addition to) a SUMMARY block. Each pattern captures the
// value and knows which summary field it fills.
var statPatterns = []struct {
	re  *regexp.Regexp
	set func(*domain.SummaryRow, float64)
}{
	{
		regexp.MustCompile(`(?i)\bmean\s+accuracy:\s*([\d.]+)`),
		func(s *domain.SummaryRow, v float64) { s.MeanAccuracy = &v },
	},
	{
		regexp.MustCompile(`(?i)\b(?:std[-\s]?dev|sd)\s+accuracy:\s*([\d.]+)`),
		func(s *domain.SummaryRow, v float64) { s.SDAccuracy = &v },
	},
	{
		regexp.MustCompile(`(?i)\bmean\s+f1(?:\s+score)?\s*\(behavior\):\s*([\d.]+)`),
		func(s *domain.SummaryRow, v float64) { s.MeanF1Behavior = &v },
	},
	{
		regexp.MustCompile(`(?i)\b(?:std[-\s]?dev|sd)\s+f1(?:\s+score)?\s*\(behavior\):\s*([\d.]+)`),
		func(s *domain.SummaryRow, v float64) { s.SDF1Behavior = &v },
	},
	{
		regexp.MustCompile(`(?i)\bmean\s+f1(?:\s+score)?\s*\(not\s+behavior\):\s*([\d.]+)`),
		func(s *domain.SummaryRow, v float64) { s.MeanF1NotBehavior = &v },
	},
	{
		regexp.MustCompile(`(?i)\b(?:std[-\s]?dev|sd)\s+f1(?:\s+score)?\s*\(not\s+behavior\):\s*([\d.]+)`),
		func(s *domain.SummaryRow, v float64) { s.SDF1NotBehavior = &v },
	},
}

// Parser reads behavior-classifier window scan output.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a scan text parser. A nil logger falls back to
// slog.Default.
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger}
}

// ParseFile opens and parses a scan results file.
func (p *Parser) ParseFile(ctx context.Context, path string) (*domain.ScanResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, apperrors.NewInputError("cannot open scan file", err).
			WithContext("path", path)
	}
	if info.Size() == 0 {
		return nil, apperrors.NewInputError("scan file is empty", nil).
			WithContext("path", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewInputError("cannot open scan file", err).
			WithContext("path", path)
	}
	defer f.Close()

	result, err := p.Parse(ctx, f)
	if err != nil {
		return nil, err
	}
	result.SourceName = path
	return result, nil
}

// Parse reads scan text from r and builds the domain model. Malformed data
// is recorded as diagnostics on the result; the returned error is non-nil
// only when the input cannot be read, is empty, or contains no window
// header at all.
func (p *Parser) Parse(ctx context.Context, r io.Reader) (*domain.ScanResult, error) {
	result := &domain.ScanResult{}

	// Sections are merged by window size, so a reopened "Window N" header
	// appends to the existing section instead of shadowing it.
	sectionIdx := make(map[int]int)
	seen := make(map[int]map[domain.VideoKey]bool)

	currentIdx := -1
	current := func() *domain.WindowSection {
		if currentIdx < 0 {
			return nil
		}
		return &result.Windows[currentIdx]
	}

	diag := func(lineNo int, kind domain.DiagnosticKind, format string, args ...any) {
		d := domain.ParseDiagnostic{
			Line:    lineNo,
			Kind:    kind,
			Message: fmt.Sprintf(format, args...),
		}
		if cur := current(); cur != nil {
			d.WindowSize = cur.WindowSize
		}
		result.Diagnostics = append(result.Diagnostics, d)
		p.logger.DebugContext(ctx, "parse diagnostic",
			slog.Int("line", d.Line),
			slog.String("kind", string(d.Kind)),
			slog.String("message", d.Message))
	}

	var (
		inSummary  bool
		inFeatures bool
		sawContent bool
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		sawContent = true

		// Separators close any open block but not the section itself;
		// sections end at the next window header.
		if isSeparator(line) {
			inSummary = false
			inFeatures = false
			continue
		}

		if m := windowHeaderRe.FindStringSubmatch(line); m != nil {
			size, err := strconv.Atoi(m[1])
			if err != nil || size < 1 {
				diag(lineNo, domain.DiagnosticInvalidHeader,
					"window header %q does not carry a positive size", line)
				continue
			}
			if idx, ok := sectionIdx[size]; ok {
				currentIdx = idx
				p.logger.DebugContext(ctx, "window section reopened",
					slog.Int("window_size", size), slog.Int("line", lineNo))
			} else {
				result.Windows = append(result.Windows, domain.WindowSection{
					WindowSize: size,
					HeaderLine: lineNo,
				})
				currentIdx = len(result.Windows) - 1
				sectionIdx[size] = currentIdx
				seen[size] = make(map[domain.VideoKey]bool)
				p.logger.DebugContext(ctx, "window section opened",
					slog.Int("window_size", size), slog.Int("line", lineNo))
			}
			inSummary = false
			inFeatures = false
			continue
		}

		// Labelled statistics can appear anywhere inside a section and
		// always end whatever block was open.
		if cur := current(); cur != nil {
			if applyStatLine(cur, line) {
				inSummary = false
				inFeatures = false
				continue
			}
		}

		if isSummaryMarker(line) {
			if currentIdx >= 0 {
				inSummary = true
				inFeatures = false
			}
			continue
		}

		if isFeatureHeader(line) {
			if currentIdx >= 0 {
				inFeatures = true
				inSummary = false
			}
			continue
		}

		if inSummary {
			if consumeSummaryRow(current(), line, lineNo, diag) {
				continue
			}
			// First line that is not a statistic row ends the block.
			inSummary = false
		}

		if inFeatures {
			switch {
			case isDashRule(line):
				inFeatures = false
				continue
			case isFeatureNoise(line):
				continue
			default:
				if name, importance, ok := parseFeatureRow(line); ok {
					cur := current()
					cur.Features = append(cur.Features, domain.FeatureRow{
						WindowSize:  cur.WindowSize,
						Rank:        len(cur.Features) + 1,
						FeatureName: name,
						Importance:  importance,
					})
				}
				// Unparseable lines inside a feature table are noise,
				// not data; stay in the block.
				continue
			}
		}

		if fields := strings.Fields(line); isVideoRowCandidate(fields) {
			if currentIdx < 0 {
				diag(lineNo, domain.DiagnosticOrphanRow,
					"video row before any window header: %q", line)
				continue
			}
			row, err := parseVideoRow(fields)
			if err != nil {
				diag(lineNo, domain.DiagnosticMalformedRow, "%v in %q", err, line)
				continue
			}
			cur := current()
			row.WindowSize = cur.WindowSize
			row.SourceLine = lineNo
			if seen[cur.WindowSize][row.Key()] {
				diag(lineNo, domain.DiagnosticDuplicateIdentity,
					"duplicate entry for %s, keeping the first", row.Key())
				continue
			}
			seen[cur.WindowSize][row.Key()] = true
			cur.Videos = append(cur.Videos, row)
			continue
		}

		// Prose, blank-ish decorations, classifier settings dumps: ignored.
	}

	if err := scanner.Err(); err != nil {
		return nil, apperrors.NewInputError("failed to read scan input", err)
	}
	if !sawContent {
		return nil, apperrors.NewInputError("scan input is empty", nil)
	}
	if len(result.Windows) == 0 {
		return nil, apperrors.NewParsingError("no window sections found in input", nil)
	}

	meta := result.Metadata()
	p.logger.InfoContext(ctx, "scan parse complete",
		slog.Int("windows", meta.WindowCount),
		slog.Int("video_rows", len(result.VideoRows())),
		slog.Int("summary_rows", len(result.SummaryRows())),
		slog.Int("feature_rows", len(result.FeatureRows())),
		slog.Int("diagnostics", len(result.Diagnostics)))
	if n := len(result.Diagnostics); n > 0 {
		p.logger.WarnContext(ctx, "scan parse skipped unusable lines",
			slog.Int("count", n))
	}

	return result, nil
}

// isVideoRowCandidate reports whether the fields look like a per-video
// result row: an integer index followed by at least seven metrics and a
// named video with its identity marker.
func isVideoRowCandidate(fields []string) bool {
	if len(fields) < 2+domain.MetricCount {
		return false
	}
	_, err := strconv.Atoi(fields[0])
	return err == nil
}

// parseVideoRow parses an index, exactly seven metric values, then the
// video name with a trailing [identity] marker. The caller fills in
// WindowSize and SourceLine.
func parseVideoRow(fields []string) (domain.VideoRow, error) {
	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return domain.VideoRow{}, fmt.Errorf("video index %q is not an integer", fields[0])
	}
	var metrics [domain.MetricCount]float64
	for i := 0; i < domain.MetricCount; i++ {
		v, err := strconv.ParseFloat(fields[1+i], 64)
		if err != nil {
			return domain.VideoRow{}, fmt.Errorf("%s value %q is not a number",
				domain.MetricColumns[i], fields[1+i])
		}
		metrics[i] = v
	}

	rest := strings.Join(fields[1+domain.MetricCount:], " ")
	loc := identityRe.FindStringSubmatchIndex(rest)
	if loc == nil {
		return domain.VideoRow{}, fmt.Errorf("missing [identity] marker after %q", rest)
	}
	identity, err := strconv.Atoi(rest[loc[2]:loc[3]])
	if err != nil {
		return domain.VideoRow{}, fmt.Errorf("identity %q is not an integer", rest[loc[2]:loc[3]])
	}
	name := strings.TrimSpace(rest[:loc[0]])
	if name == "" {
		return domain.VideoRow{}, fmt.Errorf("empty video name before identity marker")
	}

	return domain.VideoRow{
		VideoID:              id,
		VideoName:            name,
		Identity:             identity,
		Accuracy:             metrics[0],
		PrecisionNotBehavior: metrics[1],
		PrecisionBehavior:    metrics[2],
		RecallNotBehavior:    metrics[3],
		RecallBehavior:       metrics[4],
		F1NotBehavior:        metrics[5],
		F1Behavior:           metrics[6],
	}, nil
}

// consumeSummaryRow handles one line in summary mode. It returns true when
// the line belonged to the block (a statistic row, well formed or not) and
// false when the block is over.
func consumeSummaryRow(section *domain.WindowSection, line string, lineNo int,
	diag func(int, domain.DiagnosticKind, string, ...any)) bool {

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	if _, err := strconv.ParseFloat(fields[0], 64); err != nil {
		return false
	}
	if len(fields) < domain.MetricCount+1 {
		diag(lineNo, domain.DiagnosticMalformedSummary,
			"summary row has %d fields, want %d metrics plus a label", len(fields), domain.MetricCount)
		return true
	}

	var vals [domain.MetricCount]float64
	for i := 0; i < domain.MetricCount; i++ {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			diag(lineNo, domain.DiagnosticMalformedSummary,
				"summary value %q is not a number", fields[i])
			return true
		}
		vals[i] = v
	}

	label := strings.ToLower(strings.Join(fields[domain.MetricCount:], " "))
	summary := ensureSummary(section)
	switch {
	case strings.HasPrefix(label, "mean"):
		summary.MeanAccuracy = f64ptr(vals[0])
		summary.MeanF1NotBehavior = f64ptr(vals[5])
		summary.MeanF1Behavior = f64ptr(vals[6])
	case strings.Contains(label, "std") || strings.HasPrefix(label, "sd"):
		summary.SDAccuracy = f64ptr(vals[0])
		summary.SDF1NotBehavior = f64ptr(vals[5])
		summary.SDF1Behavior = f64ptr(vals[6])
	default:
		diag(lineNo, domain.DiagnosticMalformedSummary,
			"unrecognized statistic label %q", label)
	}
	return true
}

// applyStatLine matches the labelled statistic forms against the line and
// fills the section summary on a hit.
func applyStatLine(section *domain.WindowSection, line string) bool {
	for _, sp := range statPatterns {
		m := sp.re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		sp.set(ensureSummary(section), v)
		return true
	}
	return false
}

// parseFeatureRow splits a feature-importance table row: everything up to
// the final float is the feature name. An explicit leading integer rank
// token is dropped; ranks are always assigned by encounter order.
func parseFeatureRow(line string) (string, float64, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return "", 0, false
	}
	importance, err := strconv.ParseFloat(fields[len(fields)-1], 64)
	if err != nil {
		return "", 0, false
	}
	nameFields := fields[:len(fields)-1]
	if len(nameFields) >= 2 {
		if _, err := strconv.Atoi(nameFields[0]); err == nil {
			nameFields = nameFields[1:]
		}
	}
	name := strings.Join(nameFields, " ")
	if name == "" {
		return "", 0, false
	}
	return name, importance, true
}

func ensureSummary(w *domain.WindowSection) *domain.SummaryRow {
	if w.Summary == nil {
		w.Summary = &domain.SummaryRow{WindowSize: w.WindowSize}
	}
	return w.Summary
}

// isSeparator matches the long %-rules that terminate a window's blocks.
func isSeparator(line string) bool {
	return strings.HasPrefix(line, "%") && len(line) > 50
}

// isDashRule matches a long horizontal rule, which ends a feature table.
func isDashRule(line string) bool {
	return len(line) > 50 && strings.Count(line, "-") > 20
}

// isFeatureNoise matches the column headers and short underlines inside a
// feature-importance table.
func isFeatureNoise(line string) bool {
	lower := strings.ToLower(line)
	return strings.Contains(lower, "feature name") || strings.HasPrefix(line, "---")
}

func isSummaryMarker(line string) bool {
	lower := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(line), ":"))
	return lower == "summary" || lower == "summary statistics"
}

func isFeatureHeader(line string) bool {
	lower := strings.ToLower(line)
	return strings.Contains(lower, "top") &&
		strings.Contains(lower, "feature") &&
		strings.Contains(lower, "importance")
}

func f64ptr(v float64) *float64 {
	return &v
}
