package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/crateops/operator/pkg/release"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)

	styleSkipped   = lipgloss.NewStyle().Foreground(colorGray)
	stylePublished = lipgloss.NewStyle().Foreground(colorGreen)
	styleFailed    = lipgloss.NewStyle().Foreground(colorRed)
	styleCrate     = lipgloss.NewStyle().Foreground(colorCyan)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// =============================================================================
// Plan & Report Display
// =============================================================================

// printPlanEntry prints one crate of a publish plan with its position.
func printPlanEntry(pos int, name, version, note string) {
	line := fmt.Sprintf("  %2d. %s %s", pos,
		styleCrate.Render(name), StyleDim.Render(version))
	if note != "" {
		line += " " + StyleDim.Render("("+note+")")
	}
	fmt.Println(line)
}

// printAttempt prints one report entry with an outcome-colored marker.
func printAttempt(a release.Attempt) {
	var marker string
	switch a.Outcome {
	case release.OutcomeSkipped:
		marker = styleSkipped.Render("skip")
	case release.OutcomePublished:
		marker = stylePublished.Render(iconSuccess)
	case release.OutcomeFailed:
		marker = styleFailed.Render(iconError)
	default:
		marker = string(a.Outcome)
	}

	line := fmt.Sprintf("  %s %s %s", marker,
		styleCrate.Render(a.Crate), StyleDim.Render(a.Version))
	if a.Detail != "" {
		line += " " + StyleDim.Render(a.Detail)
	}
	fmt.Println(line)
}

// printReportSummary prints the closing counts line for a publish run.
func printReportSummary(r *release.Report) {
	skipped, published, failed := r.Counts()

	summary := fmt.Sprintf("%d published · %d skipped", published, skipped)
	if failed > 0 {
		summary += " · " + styleFailed.Render(fmt.Sprintf("%d failed", failed))
	}
	if r.DryRun {
		summary += " " + StyleWarning.Render("(dry run)")
	}
	fmt.Println("  " + StyleDim.Render(summary))
}
