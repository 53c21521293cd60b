package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/gram-data/gram"
)

func fmtCommand() *cli.Command {
	return &cli.Command{
		Name:      "fmt",
		Usage:     "Rewrite gram files in canonical form",
		ArgsUsage: "[files or directories...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "write",
				Aliases: []string{"w"},
				Usage:   "write result back to source files instead of stdout",
			},
			&cli.BoolFlag{
				Name:    "list",
				Aliases: []string{"l"},
				Usage:   "list files whose formatting differs from canonical form",
			},
		},
		Action: runFmt,
	}
}

func runFmt(ctx context.Context, cmd *cli.Command) error {
	logger := newLogger(cmd.Bool("verbose"))
	defer func() { _ = logger.Sync() }()

	maxDepth := configMaxDepth(logger)

	files, err := discoverFiles(cmd.Args().Slice())
	if err != nil {
		return err
	}

	for _, file := range files {
		data, err := os.ReadFile(file) //nolint:gosec // G304: file path from user input is expected
		if err != nil {
			return fmt.Errorf("reading %s: %w", file, err)
		}

		patterns, err := parseFile(file, string(data), maxDepth)
		if err != nil {
			return err
		}

		formatted := gram.FormatAll(patterns) + "\n"

		switch {
		case cmd.Bool("list"):
			if formatted != string(data) {
				fmt.Println(file)
			}
		case cmd.Bool("write"):
			if formatted == string(data) {
				continue
			}

			if err := os.WriteFile(file, []byte(formatted), 0o644); err != nil { //nolint:gosec // G306: source file permissions
				return fmt.Errorf("writing %s: %w", file, err)
			}

			logger.Debug("rewrote", zap.String("file", file))
			fmt.Printf("wrote %s\n", file)
		default:
			fmt.Print(formatted)
		}
	}

	return nil
}

// parseFile parses one file's worth of patterns with positions attributed
// to the file.
func parseFile(file, input string, maxDepth int) ([]*gram.Pattern, error) {
	parser := gram.NewParser(file, input)
	if maxDepth > 0 {
		parser.MaxDepth = maxDepth
	}

	return parser.ParseMany()
}

// configMaxDepth resolves the parser depth limit from .gram.yaml, walking
// up from the working directory.
func configMaxDepth(logger *zap.Logger) int {
	cwd, err := os.Getwd()
	if err != nil {
		return 0
	}

	cfg, dir, err := loadConfigWithDir(cwd)
	if err != nil || cfg == nil {
		return 0
	}

	logger.Debug("config", zap.String("dir", dir), zap.Int("max_depth", cfg.MaxDepth))

	return cfg.MaxDepth
}
