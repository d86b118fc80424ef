package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// stdout receives every status line; tests swap it.
var stdout io.Writer = os.Stdout

// ANSI 256 palette.
var (
	colorTeal  = lipgloss.Color("36")
	colorGreen = lipgloss.Color("35")
	colorAmber = lipgloss.Color("220")
	colorSky   = lipgloss.Color("75")
	colorWhite = lipgloss.Color("255")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")
)

// Styles shared by command output.
var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorTeal)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorTeal)
	StyleNumber    = StyleHighlight
	StyleValue     = lipgloss.NewStyle().Foreground(colorWhite)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorAmber)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorTeal)
	styleLabel       = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleCommand     = lipgloss.NewStyle().Foreground(colorSky)
)

// marks prefix status lines.
var (
	markOK   = lipgloss.NewStyle().Foreground(colorGreen).Render("✓")
	markWarn = lipgloss.NewStyle().Foreground(colorAmber).Render("!")
	markInfo = lipgloss.NewStyle().Foreground(colorGray).Render("›")
)

func statusLine(mark, msg string) {
	fmt.Fprintln(stdout, mark+" "+msg)
}

func printSuccess(format string, args ...any) {
	statusLine(markOK, fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	statusLine(markWarn, StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	statusLine(markInfo, fmt.Sprintf(format, args...))
}

// printDetail prints a dimmed, indented line under a status line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile lists a written output file.
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render("→")+" "+StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(stdout, styleLabel.Render(key)+" "+StyleValue.Render(value))
}

// printStats summarizes a built graph as "n vertices · m edges · cached".
// Zero counts are left out.
func printStats(vertices, edges int, cached bool) {
	var parts []string
	if vertices > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d vertices", vertices)))
	}
	if edges > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d edges", edges)))
	}
	origin := lipgloss.NewStyle().Foreground(colorGray).Render("fresh")
	if cached {
		origin = lipgloss.NewStyle().Foreground(colorGreen).Render("cached")
	}
	parts = append(parts, origin)
	fmt.Fprintln(stdout, "  "+strings.Join(parts, StyleDim.Render(" · ")))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}
