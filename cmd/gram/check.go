package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"

	"github.com/gram-data/gram"
)

// ErrCheckFailed is returned when any checked file has diagnostics.
var ErrCheckFailed = errors.New("gram files contain errors")

var (
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)
	locationStyle = lipgloss.NewStyle().
			Bold(true)
	caretStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))
)

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Parse gram files and report diagnostics",
		ArgsUsage: "[files or directories...]",
		Action:    runCheck,
	}
}

func runCheck(ctx context.Context, cmd *cli.Command) error {
	logger := newLogger(cmd.Bool("verbose"))
	defer func() { _ = logger.Sync() }()

	maxDepth := configMaxDepth(logger)

	files, err := discoverFiles(cmd.Args().Slice())
	if err != nil {
		return err
	}

	color := isatty.IsTerminal(os.Stderr.Fd())
	failed := 0

	for _, file := range files {
		data, err := os.ReadFile(file) //nolint:gosec // G304: file path from user input is expected
		if err != nil {
			return fmt.Errorf("reading %s: %w", file, err)
		}

		patterns, err := parseFile(file, string(data), maxDepth)
		if err != nil {
			failed++

			reportDiagnostic(string(data), err, color)

			continue
		}

		fmt.Printf("%s: ok (%d patterns)\n", file, len(patterns))
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d files", ErrCheckFailed, failed, len(files))
	}

	return nil
}

// reportDiagnostic prints a parse error with the offending source line and
// a caret under the error span.
func reportDiagnostic(source string, err error, color bool) {
	var parseErr *gram.ParseError
	if !errors.As(err, &parseErr) {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)

		return
	}

	location := parseErr.Span.Start.String()
	label := "error"

	if color {
		location = locationStyle.Render(location)
		label = errorStyle.Render(label)
	}

	fmt.Fprintf(os.Stderr, "%s: %s: %s (%s)\n", location, label, parseErr.Message, parseErr.Kind)

	line := sourceLine(source, parseErr.Span.Start.Line)
	if line == "" {
		return
	}

	endCol := parseErr.Span.Start.Column
	if parseErr.Span.End.Line == parseErr.Span.Start.Line {
		endCol = parseErr.Span.End.Column
	}

	caret := caretLine(line, parseErr.Span.Start.Column, endCol)
	if color {
		caret = caretStyle.Render(caret)
	}

	fmt.Fprintf(os.Stderr, "\t%s\n\t%s\n", line, caret)
}

func sourceLine(source string, n int) string {
	lines := strings.Split(source, "\n")
	if n < 1 || n > len(lines) {
		return ""
	}

	return lines[n-1]
}

// caretLine underlines columns start through end, tabs preserved so the
// caret stays aligned under tab-indented source.
func caretLine(line string, start, end int) string {
	if start < 1 {
		start = 1
	}

	width := end - start
	if width < 1 {
		width = 1
	}

	var b strings.Builder

	col := 1

	for _, r := range line {
		if col >= start {
			break
		}

		if r == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}

		col++
	}

	b.WriteString(strings.Repeat("^", width))

	return b.String()
}
