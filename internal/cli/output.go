// Package cli provides the command-line interface for the dashboard.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Output handles formatted output for the CLI.
type Output struct {
	writer       io.Writer
	jsonMode     bool
	colorEnabled bool

	green  *color.Color
	red    *color.Color
	yellow *color.Color
	cyan   *color.Color
	bold   *color.Color
	dim    *color.Color
}

// NewOutput creates a new Output instance.
func NewOutput(cmd *cobra.Command) *Output {
	jsonMode, _ := cmd.Flags().GetBool("json")
	enabled := !jsonMode && isTerminal()
	o := &Output{
		writer:       cmd.OutOrStdout(),
		jsonMode:     jsonMode,
		colorEnabled: enabled,
		green:        color.New(color.FgGreen),
		red:          color.New(color.FgRed),
		yellow:       color.New(color.FgYellow),
		cyan:         color.New(color.FgCyan),
		bold:         color.New(color.Bold),
		dim:          color.New(color.Faint),
	}
	if !enabled {
		for _, c := range []*color.Color{o.green, o.red, o.yellow, o.cyan, o.bold, o.dim} {
			c.DisableColor()
		}
	}
	return o
}

// isTerminal checks if stdout is a terminal.
func isTerminal() bool {
	fileInfo, _ := os.Stdout.Stat()
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// IsJSON returns true if JSON output mode is enabled.
func (o *Output) IsJSON() bool {
	return o.jsonMode
}

// JSON outputs data as JSON.
func (o *Output) JSON(data interface{}) error {
	encoder := json.NewEncoder(o.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// Println prints a message with newline.
func (o *Output) Println(args ...interface{}) {
	fmt.Fprintln(o.writer, args...)
}

// Printf prints a formatted message.
func (o *Output) Printf(format string, args ...interface{}) {
	fmt.Fprintf(o.writer, format, args...)
}

// Success prints a success message in green.
func (o *Output) Success(format string, args ...interface{}) {
	o.green.Fprintf(o.writer, format+"\n", args...)
}

// Error prints an error message in red.
func (o *Output) Error(format string, args ...interface{}) {
	o.red.Fprintf(o.writer, format+"\n", args...)
}

// Warning prints a warning message in yellow.
func (o *Output) Warning(format string, args ...interface{}) {
	o.yellow.Fprintf(o.writer, format+"\n", args...)
}

// Info prints an info message in cyan.
func (o *Output) Info(format string, args ...interface{}) {
	o.cyan.Fprintf(o.writer, format+"\n", args...)
}

// Bold prints a bold message.
func (o *Output) Bold(format string, args ...interface{}) {
	o.bold.Fprintf(o.writer, format+"\n", args...)
}

// Dim prints a dimmed message.
func (o *Output) Dim(format string, args ...interface{}) {
	o.dim.Fprintf(o.writer, format+"\n", args...)
}

// Green returns green colored text.
func (o *Output) Green(text string) string {
	return o.green.Sprint(text)
}

// Red returns red colored text.
func (o *Output) Red(text string) string {
	return o.red.Sprint(text)
}

// Yellow returns yellow colored text.
func (o *Output) Yellow(text string) string {
	return o.yellow.Sprint(text)
}

// PnLString colors a formatted value by the sign of pnl.
func (o *Output) PnLString(pnl float64, formatted string) string {
	if pnl > 0 {
		return o.green.Sprint(formatted)
	}
	if pnl < 0 {
		return o.red.Sprint(formatted)
	}
	return formatted
}
