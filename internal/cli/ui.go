package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/masonry/pkg/masonry"
)

// stdout receives all user-facing output. Tests swap it for a buffer.
var stdout io.Writer = os.Stdout

// =============================================================================
// Palette and styles
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleLink for URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)

	// StyleDim for secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
	styleHeader      = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleTallest     = lipgloss.NewStyle().Foreground(colorCyan)
)

// status prefixes
var (
	markSuccess = lipgloss.NewStyle().Foreground(colorGreen).Render("✓")
	markError   = lipgloss.NewStyle().Foreground(colorRed).Render("✗")
	markWarning = lipgloss.NewStyle().Foreground(colorYellow).Render("!")
	markInfo    = lipgloss.NewStyle().Foreground(colorGray).Render("›")
)

// =============================================================================
// Status lines
// =============================================================================

func printLine(mark, msg string) {
	fmt.Fprintln(stdout, mark+" "+msg)
}

func printSuccess(format string, args ...any) {
	printLine(markSuccess, fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	printLine(markError, fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	printLine(markWarning, StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	printLine(markInfo, fmt.Sprintf(format, args...))
}

// printDetail prints an indented secondary line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written output path.
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render("→")+" "+StyleValue.Render(path))
}

// printNextStep prints a suggested follow-up command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Fprintln(stdout)
}

// =============================================================================
// Layout summaries
// =============================================================================

// printStats prints layout statistics on a single line:
//
//	6 items · 4 columns · height 150 · cached
func printStats(itemCount, columns int, height float64, cached bool) {
	status := lipgloss.NewStyle().Foreground(colorGray).Render("fresh")
	if cached {
		status = StyleSuccess.Render("cached")
	}
	sep := StyleDim.Render(" · ")
	parts := []string{
		StyleDim.Render(fmt.Sprintf("%d items", itemCount)),
		StyleDim.Render(fmt.Sprintf("%d columns", columns)),
		StyleDim.Render(fmt.Sprintf("height %.0f", height)),
		status,
	}
	fmt.Fprintln(stdout, "  "+strings.Join(parts, sep))
}

// headerRow is the row index lipgloss tables pass to StyleFunc for headers.
const headerRow = -1

// columnTable renders one row per column with its item count and height.
// The tallest column, which sets the layout height, is highlighted.
func columnTable(l *masonry.Layout) string {
	rows := make([][]string, l.Columns)
	tallest := 0
	for col := range l.Columns {
		if l.ColumnHeights[col] > l.ColumnHeights[tallest] {
			tallest = col
		}
		placed := l.InColumn(col)
		ids := make([]string, len(placed))
		for i, p := range placed {
			ids[i] = p.ID
		}
		rows[col] = []string{
			strconv.Itoa(col),
			strconv.FormatFloat(float64(col)*l.ColumnWidth, 'f', -1, 64),
			strconv.Itoa(len(placed)),
			strconv.FormatFloat(l.ColumnHeights[col], 'f', -1, 64),
			strings.Join(ids, ", "),
		}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Col", "X", "Items", "Height", "IDs").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == headerRow:
				return styleHeader
			case row == tallest && col == 3:
				return styleTallest
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

// printColumns prints the column table.
func printColumns(l *masonry.Layout) {
	fmt.Fprintln(stdout, columnTable(l))
}
