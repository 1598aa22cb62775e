package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/modresolve/pkg/maven"
)

// =============================================================================
// Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // primary
	colorGreen  = lipgloss.Color("35")  // downloaded
	colorYellow = lipgloss.Color("220") // interrupted, existing files
	colorRed    = lipgloss.Color("167") // failed outcomes
	colorBlue   = lipgloss.Color("75")  // commands
	colorWhite  = lipgloss.Color("255") // values
	colorGray   = lipgloss.Color("245") // field labels
	colorDim    = lipgloss.Color("240") // secondary text
)

var (
	// StyleTitle renders repository headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight renders coordinates.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleDim renders secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue renders field values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)
)

var (
	styleMarkDownloaded = lipgloss.NewStyle().Foreground(colorGreen)
	styleMarkFailed     = lipgloss.NewStyle().Foreground(colorRed)
	styleMarkNotice     = lipgloss.NewStyle().Foreground(colorYellow)
	styleSpinnerFrame   = lipgloss.NewStyle().Foreground(colorCyan)
	styleFieldLabel     = lipgloss.NewStyle().Foreground(colorGray).Width(fieldLabelWidth)
	styleCommand        = lipgloss.NewStyle().Foreground(colorBlue)
)

const (
	markDownloaded = "✓"
	markFailed     = "✗"
	markNotice     = "!"
	markFile       = "→"

	fieldLabelWidth = 12
)

// =============================================================================
// Printer
// =============================================================================

// printer writes styled command output to w, usually cmd.OutOrStdout().
type printer struct {
	w io.Writer
}

func newPrinter(w io.Writer) *printer {
	return &printer{w: w}
}

func (p *printer) line(mark lipgloss.Style, symbol, format string, args ...any) {
	fmt.Fprintln(p.w, mark.Render(symbol)+" "+fmt.Sprintf(format, args...))
}

// success prints a result line for a completed operation.
func (p *printer) success(format string, args ...any) {
	p.line(styleMarkDownloaded, markDownloaded, format, args...)
}

// failure prints a result line for an operation that produced no file.
func (p *printer) failure(format string, args ...any) {
	p.line(styleMarkFailed, markFailed, format, args...)
}

// notice prints a line that needs attention but is not a failure.
func (p *printer) notice(format string, args ...any) {
	p.line(styleMarkNotice, markNotice, format, args...)
}

// file prints an indented local file path.
func (p *printer) file(path string) {
	fmt.Fprintln(p.w, "  "+StyleDim.Render(markFile)+" "+StyleValue.Render(path))
}

// nextStep suggests a follow-up command.
func (p *printer) nextStep(description, cmd string) {
	fmt.Fprintln(p.w, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// field is one labelled row of a block.
type field struct {
	label string
	value string
}

// block prints an optional title followed by aligned, indented fields.
// Fields with an empty value are skipped.
func (p *printer) block(title string, fields ...field) {
	if title != "" {
		fmt.Fprintln(p.w, StyleTitle.Render(title))
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		fmt.Fprintln(p.w, "  "+styleFieldLabel.Render(f.label)+" "+StyleValue.Render(f.value))
	}
}

// outcome prints the details of a terminal resolution outcome.
func (p *printer) outcome(out maven.Outcome) {
	fields := []field{
		{"repository", out.Location.String()},
		{"path", out.Path},
	}
	if out.Kind == maven.Downloaded {
		fields = append(fields,
			field{"file", out.Destination},
			field{"bytes", strconv.FormatInt(out.Bytes, 10)},
		)
	} else {
		fields = append(fields,
			field{"outcome", out.Kind.String()},
			field{"error", errorText(out.Err)},
		)
	}
	p.block("", fields...)
}

// layout prints where coord lives under target, as seen from location.
func (p *printer) layout(location string, target maven.Target, coord maven.Coordinate) {
	release := target.FilePath(maven.ReleaseFilename(coord))
	if !coord.IsSnapshot() {
		p.block(location,
			field{"base", target.BaseURI},
			field{"artifact", release},
		)
		return
	}
	pattern := maven.SnapshotFilename(coord, maven.SnapshotDescriptor{Timestamp: "<timestamp>", BuildNumber: "<buildNumber>"})
	p.block(location,
		field{"base", target.BaseURI},
		field{"metadata", target.MetadataPath()},
		field{"artifact", release},
		field{"timestamped", target.FilePath(pattern)},
	)
}

// errorText renders an outcome error with its code and cause.
func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
