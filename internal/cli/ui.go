package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Color palette for terminal output.
var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorRed    = lipgloss.Color("167")
	colorYellow = lipgloss.Color("179")
	colorDim    = lipgloss.Color("240")
	colorBright = lipgloss.Color("252")
)

// Styles for terminal output.
var (
	styleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleError   = lipgloss.NewStyle().Foreground(colorRed)
	styleWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleInfo    = lipgloss.NewStyle().Foreground(colorCyan)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleBright  = lipgloss.NewStyle().Foreground(colorBright)
	styleBold    = lipgloss.NewStyle().Bold(true)
)

// printSuccess prints a success message with a checkmark.
func printSuccess(format string, args ...any) {
	fmt.Println(styleSuccess.Render("✓"), fmt.Sprintf(format, args...))
}

// printError prints an error message with a cross.
func printError(format string, args ...any) {
	fmt.Println(styleError.Render("✗"), fmt.Sprintf(format, args...))
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	fmt.Println(styleWarning.Render("!"), fmt.Sprintf(format, args...))
}

// printInfo prints an informational message.
func printInfo(format string, args ...any) {
	fmt.Println(styleInfo.Render("›"), fmt.Sprintf(format, args...))
}

// printDetail prints a dimmed detail line, indented.
func printDetail(format string, args ...any) {
	fmt.Println(" ", styleDim.Render(fmt.Sprintf(format, args...)))
}

// printKeyValue prints an aligned key-value pair.
func printKeyValue(key, format string, args ...any) {
	k := styleDim.Render(fmt.Sprintf("%-14s", key))
	fmt.Println(" ", k, styleBright.Render(fmt.Sprintf(format, args...)))
}

// printHeader prints a bold section header.
func printHeader(text string) {
	fmt.Println(styleBold.Render(text))
}
