package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"reframe/internal/preflight"
)

type statusKind int

const (
	statusOK statusKind = iota
	statusWarn
	statusError
)

type statusStyle struct {
	label string
	color string
}

const (
	ansiReset = "\x1b[0m"
	ansiBold  = "\x1b[1m"
)

var statusStyles = map[statusKind]statusStyle{
	statusOK:    {label: "ok", color: "\x1b[32m"},
	statusWarn:  {label: "warn", color: "\x1b[33m"},
	statusError: {label: "fail", color: "\x1b[31m"},
}

// statusOf classifies a preflight result. Optional checks never fail a run.
func statusOf(r preflight.Result) statusKind {
	switch {
	case r.Passed:
		return statusOK
	case r.Optional:
		return statusWarn
	default:
		return statusError
	}
}

// checkReport renders preflight results as an aligned list followed by a
// one-line tally.
type checkReport struct {
	colorize bool
	width    int
}

func newCheckReport(results []preflight.Result, colorize bool) checkReport {
	width := 0
	for _, r := range results {
		width = max(width, len(r.Name))
	}
	return checkReport{colorize: colorize, width: width + 1}
}

func (c checkReport) paint(color, s string) string {
	if !c.colorize || color == "" {
		return s
	}
	return color + s + ansiReset
}

func (c checkReport) line(r preflight.Result) string {
	style := statusStyles[statusOf(r)]
	tag := c.paint(style.color, fmt.Sprintf("%-4s", style.label))
	line := fmt.Sprintf("  %s  %-*s", tag, c.width, r.Name)
	if detail := strings.TrimSpace(r.Detail); detail != "" {
		line += "  " + detail
	}
	return strings.TrimRight(line, " ")
}

func (c checkReport) render(title string, results []preflight.Result) string {
	var b strings.Builder
	b.WriteString(c.paint(ansiBold, strings.TrimSpace(title)))
	b.WriteByte('\n')

	counts := map[statusKind]int{}
	for _, r := range results {
		counts[statusOf(r)]++
		b.WriteString(c.line(r))
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "%d passed, %d warnings, %d failed", counts[statusOK], counts[statusWarn], counts[statusError])
	return b.String()
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
