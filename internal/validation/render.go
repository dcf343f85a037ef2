package validation

import (
	"fmt"
	"os"
	"strings"

	apperrors "github.com/vivekJax/JABS-Window-Analysis/internal/errors"
	"github.com/vivekJax/JABS-Window-Analysis/pkg/contracts/domain"
)

const ruleWidth = 80

// RenderText formats a validation report as the plain-text document written
// next to the exported tables.
func RenderText(report *domain.ValidationReport) string {
	var b strings.Builder

	b.WriteString("Window Size Scan Validation Report\n")
	b.WriteString(strings.Repeat("=", ruleWidth) + "\n")
	if report.Source != "" {
		fmt.Fprintf(&b, "Source: %s\n", report.Source)
	}
	b.WriteString("\n")

	for i, res := range report.Results {
		fmt.Fprintf(&b, "%d. %s\n", i+1, strings.ToUpper(res.Category.Title()))
		b.WriteString(strings.Repeat("-", ruleWidth) + "\n")

		if res.Passed {
			fmt.Fprintf(&b, "   ✓ PASS: %s\n", passSummary(res.Category))
		} else {
			fmt.Fprintf(&b, "   ✗ FAIL: %s\n", failSummary(res.Category))
		}
		for _, note := range res.Notes {
			fmt.Fprintf(&b, "   %s\n", note)
		}
		for _, failure := range res.Failures {
			fmt.Fprintf(&b, "     - %s\n", failure.String())
		}
		b.WriteString("\n")
	}

	b.WriteString(strings.Repeat("=", ruleWidth) + "\n")
	b.WriteString("VALIDATION SUMMARY\n")
	b.WriteString(strings.Repeat("=", ruleWidth) + "\n\n")

	if report.Passed() {
		b.WriteString("✓ ALL VALIDATION CHECKS PASSED\n")
	} else {
		b.WriteString("✗ SOME VALIDATION CHECKS FAILED\n")
		fmt.Fprintf(&b, "%d findings; see details above.\n", report.FailureCount())
	}

	return b.String()
}

// WriteTextReport renders the report and writes it to path.
func WriteTextReport(path string, report *domain.ValidationReport) error {
	if err := os.WriteFile(path, []byte(RenderText(report)), 0o644); err != nil {
		return apperrors.NewStorageError("failed to write validation report", err).
			WithContext("path", path)
	}
	return nil
}

func passSummary(category domain.CheckCategory) string {
	switch category {
	case domain.CheckRowCounts:
		return "All windows carry the same (video, identity) pairs"
	case domain.CheckUniqueness:
		return "No duplicate (video, identity) pairs within a window"
	case domain.CheckRanges:
		return "All metric values within [0,1]"
	case domain.CheckSummaryStats:
		return "Reported summary statistics match recomputed values"
	}
	return "Check passed"
}

func failSummary(category domain.CheckCategory) string {
	switch category {
	case domain.CheckRowCounts:
		return "Windows disagree on (video, identity) pairs"
	case domain.CheckUniqueness:
		return "Duplicate (video, identity) pairs found"
	case domain.CheckRanges:
		return "Metric values outside [0,1] found"
	case domain.CheckSummaryStats:
		return "Reported summary statistics disagree with recomputed values"
	}
	return "Check failed"
}
