package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/gram-data/gram"
	"github.com/gram-data/gram/cypher"
	"github.com/gram-data/gram/store/neo4j"
)

// Load command errors.
var (
	ErrNoConnectionURI = errors.New("no connection URI specified (use --uri or .gram.yaml)")
)

func loadCommand() *cli.Command {
	return &cli.Command{
		Name:      "load",
		Usage:     "Load gram patterns into Neo4j",
		ArgsUsage: "[files or directories...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "uri",
				Usage:   "database connection URI",
				Sources: cli.EnvVars("GRAM_URI"),
			},
			&cli.StringFlag{
				Name:    "username",
				Aliases: []string{"u"},
				Usage:   "database username",
				Sources: cli.EnvVars("GRAM_USER"),
			},
			&cli.StringFlag{
				Name:    "password",
				Aliases: []string{"p"},
				Usage:   "database password",
				Sources: cli.EnvVars("GRAM_PASS"),
			},
			&cli.StringFlag{
				Name:    "database",
				Aliases: []string{"d"},
				Usage:   "database name",
			},
			&cli.BoolFlag{
				Name:  "merge",
				Usage: "use MERGE instead of CREATE",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "print the Cypher statements without connecting",
			},
		},
		Action: runLoad,
	}
}

func runLoad(ctx context.Context, cmd *cli.Command) error {
	logger := newLogger(cmd.Bool("verbose"))
	defer func() { _ = logger.Sync() }()

	cfg := loadNeo4jConfig(cmd, logger)

	files, err := discoverFiles(cmd.Args().Slice())
	if err != nil {
		return err
	}

	maxDepth := configMaxDepth(logger)

	var patterns []*gram.Pattern

	for _, file := range files {
		data, err := os.ReadFile(file) //nolint:gosec // G304: file path from user input is expected
		if err != nil {
			return fmt.Errorf("reading %s: %w", file, err)
		}

		parsed, err := parseFile(file, string(data), maxDepth)
		if err != nil {
			return err
		}

		patterns = append(patterns, parsed...)
	}

	logger.Debug("parsed", zap.Int("files", len(files)), zap.Int("patterns", len(patterns)))

	if cmd.Bool("dry-run") {
		return printStatements(patterns, cmd.Bool("merge"))
	}

	if cfg.URI == "" {
		return ErrNoConnectionURI
	}

	store, err := neo4j.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close(ctx) }()

	if cmd.Bool("merge") {
		err = store.Merge(ctx, patterns)
	} else {
		err = store.Load(ctx, patterns)
	}

	if err != nil {
		return err
	}

	fmt.Printf("loaded %d patterns from %d files\n", len(patterns), len(files))

	return nil
}

// loadNeo4jConfig resolves connection settings, flags taking precedence
// over .gram.yaml.
func loadNeo4jConfig(cmd *cli.Command, logger *zap.Logger) *gram.Neo4jConfig {
	cfg := &gram.Neo4jConfig{}

	cwd, err := os.Getwd()
	if err == nil {
		fileCfg, dir, err := loadConfigWithDir(cwd)
		if err == nil && fileCfg != nil && fileCfg.Neo4j != nil {
			*cfg = *fileCfg.Neo4j

			logger.Debug("config", zap.String("dir", dir), zap.String("uri", cfg.URI))
		}
	}

	if v := cmd.String("uri"); v != "" {
		cfg.URI = v
	}

	if v := cmd.String("username"); v != "" {
		cfg.Username = v
	}

	if v := cmd.String("password"); v != "" {
		cfg.Password = v
	}

	if v := cmd.String("database"); v != "" {
		cfg.Database = v
	}

	return cfg
}

func printStatements(patterns []*gram.Pattern, merge bool) error {
	render := cypher.Create
	if merge {
		render = cypher.Merge
	}

	for _, p := range patterns {
		stmt, err := render(p)
		if err != nil {
			return err
		}

		fmt.Println(stmt)
	}

	return nil
}
