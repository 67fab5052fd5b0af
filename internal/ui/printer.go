package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

const fieldWidth = 15

var (
	bold       = color.New(color.Bold).Sprint
	yellow     = color.New(color.FgYellow).Sprint
	blue       = color.New(color.FgBlue).Sprint
	boldRed    = color.New(color.Bold, color.FgRed).Sprint
	boldGreen  = color.New(color.Bold, color.FgGreen).Sprint
	boldYellow = color.New(color.Bold, color.FgYellow).Sprint
)

// Printer writes user facing output. Diagnostics go to the logger instead.
type Printer struct {
	w io.Writer
}

// NewPrinter creates a Printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer {
	return p.w
}

// Println prints a plain line.
func (p *Printer) Println(msg string) {
	fmt.Fprintln(p.w, msg)
}

// Printf prints a formatted message.
func (p *Printer) Printf(format string, args ...any) {
	fmt.Fprintf(p.w, format, args...)
}

// Blank prints an empty line.
func (p *Printer) Blank() {
	fmt.Fprintln(p.w)
}

// Field prints "Label....: value" with the label padded by dots so values
// line up.
func (p *Printer) Field(label, value string) {
	if pad := fieldWidth - len(label); pad > 0 {
		label += strings.Repeat(".", pad)
	}
	fmt.Fprintf(p.w, "%s: %s\n", label, value)
}

// List prints items as a dashed list.
func (p *Printer) List(items []string) {
	for _, item := range items {
		fmt.Fprintf(p.w, "- %s\n", item)
	}
}

// Warnln prints msg behind a "Warning:" prefix.
func (p *Printer) Warnln(msg string) {
	fmt.Fprintln(p.w, boldYellow("Warning:"), bold(msg))
}

// Errorln prints msg behind an "Error:" prefix.
func (p *Printer) Errorln(msg string) {
	fmt.Fprintln(p.w, boldRed("Error:"), bold(msg))
}

// Successln prints msg in bold green.
func (p *Printer) Successln(msg string) {
	fmt.Fprintln(p.w, boldGreen(msg))
}

// Remote highlights a remote name.
func Remote(name string) string {
	return yellow(name)
}

// Version highlights a version or tag.
func Version(v string) string {
	return blue(v)
}
