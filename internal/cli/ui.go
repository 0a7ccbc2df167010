package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/imfine/texwire/pkg/channel"
)

// stdout receives command output. Tests swap it out.
var stdout io.Writer = os.Stdout

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // primary
	colorGreen  = lipgloss.Color("35")  // success
	colorYellow = lipgloss.Color("220") // warnings
	colorRed    = lipgloss.Color("167") // errors
	colorBlue   = lipgloss.Color("75")  // commands
	colorWhite  = lipgloss.Color("255") // values
	colorGray   = lipgloss.Color("245") // labels
	colorDim    = lipgloss.Color("240") // muted
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for material and channel names.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleDim for secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warnings.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	// StyleError for errors.
	StyleError = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleLabel       = lipgloss.NewStyle().Foreground(colorGray).Width(16)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
)

// channelColors tints channels in listings: colour maps warm, surface maps
// cool, geometry maps neutral.
var channelColors = map[channel.Channel]lipgloss.Color{
	channel.BaseColor:    lipgloss.Color("209"),
	channel.Emission:     lipgloss.Color("214"),
	channel.Opacity:      lipgloss.Color("180"),
	channel.Translucency: lipgloss.Color("216"),
	channel.Metalness:    lipgloss.Color("110"),
	channel.Roughness:    lipgloss.Color("74"),
	channel.Specular:     lipgloss.Color("117"),
	channel.Glossiness:   lipgloss.Color("81"),
	channel.Normal:       lipgloss.Color("141"),
	channel.Bump:         lipgloss.Color("140"),
	channel.Displacement: lipgloss.Color("139"),
	channel.AO:           lipgloss.Color("250"),
}

// channelStyle returns the listing style of ch.
func channelStyle(ch channel.Channel) lipgloss.Style {
	if c, ok := channelColors[ch]; ok {
		return lipgloss.NewStyle().Foreground(c)
	}
	return StyleHighlight
}

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

func printLine(icon lipgloss.Style, glyph, msg string) {
	fmt.Fprintln(stdout, icon.Render(glyph)+" "+msg)
}

func printSuccess(format string, args ...any) {
	printLine(styleIconSuccess, iconSuccess, fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	printLine(styleIconWarning, iconWarning, StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	printLine(styleIconInfo, iconInfo, fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints an output file path.
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	fmt.Fprintln(stdout, styleLabel.Render(key)+" "+StyleValue.Render(value))
}

// printChannel prints a channel label followed by value.
func printChannel(ch channel.Channel, value string) {
	fmt.Fprintln(stdout, channelStyle(ch).Width(16).Render(ch.String())+" "+StyleValue.Render(value))
}

// printStats prints graph statistics on a single line.
func printStats(nodeCount, edgeCount int) {
	parts := []string{
		fmt.Sprintf("%d nodes", nodeCount),
		fmt.Sprintf("%d edges", edgeCount),
	}
	fmt.Fprintln(stdout, "  "+StyleDim.Render(strings.Join(parts, " · ")))
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}
