package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Terminal output helpers shared by the render, init, inspect, and cache
// commands. The editor has its own bubbletea view; everything here is for
// the one-shot commands that print and exit.

var (
	colorCyan   = lipgloss.Color("36")  // headings, command hints
	colorGreen  = lipgloss.Color("35")  // success, cache hits
	colorYellow = lipgloss.Color("220") // warnings
	colorBlue   = lipgloss.Color("75")  // suggested commands
	colorWhite  = lipgloss.Color("255") // file paths
	colorGray   = lipgloss.Color("245") // secondary text
	colorDim    = lipgloss.Color("240") // stats, detail lines
)

var (
	// StyleTitle for headings. The editor footer reuses it for the
	// document name.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for file paths and data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
)

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// printSuccess prints a success line, e.g. after a render lands on disk.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printWarning prints a warning line.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printInfo prints a status line.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printDetail prints an indented detail line under a status line.
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
}

// printFile prints an output artifact path (SVG, JSON, DOT).
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printStats prints a one-line summary of a realized chart: section count,
// draw command count, and whether the layout came out of the cache.
func printStats(sectionCount, commandCount int, cached bool) {
	var parts []string
	if sectionCount > 0 {
		parts = append(parts, fmt.Sprintf("%d sections", sectionCount))
	}
	if commandCount > 0 {
		parts = append(parts, fmt.Sprintf("%d draw commands", commandCount))
	}

	status := iconFresh
	statusStyle := styleComputed
	if cached {
		status = iconCached
		statusStyle = styleCached
	}
	parts = append(parts, statusStyle.Render(status))

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	fmt.Println(line)
}

// printNextStep prints a suggested follow-up command, used by init to point
// at the editor and renderer.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}
