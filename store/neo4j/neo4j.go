// Package neo4j loads gram patterns into a Neo4j database.
package neo4j

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"github.com/gram-data/gram"
	"github.com/gram-data/gram/cypher"
)

// Store is an open connection to a Neo4j database. A Store is safe for
// concurrent use; each call runs in its own session.
type Store struct {
	driver neo4j.DriverWithContext
	db     string
	log    *zap.Logger
}

// Open connects to the database described by cfg and verifies
// connectivity before returning. A nil logger disables logging.
func Open(ctx context.Context, cfg *gram.Neo4jConfig, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	auth := neo4j.NoAuth()
	if cfg.Username != "" {
		auth = neo4j.BasicAuth(cfg.Username, cfg.Password, "")
	}

	driver, err := neo4j.NewDriverWithContext(cfg.URI, auth)
	if err != nil {
		return nil, fmt.Errorf("neo4j: create driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)

		return nil, fmt.Errorf("neo4j: connect %s: %w", cfg.URI, err)
	}

	logger.Debug("connected", zap.String("uri", cfg.URI), zap.String("database", cfg.Database))

	return &Store{driver: driver, db: cfg.Database, log: logger}, nil
}

// Load writes the patterns into the database, one CREATE statement per
// pattern, all inside a single write transaction.
func (s *Store) Load(ctx context.Context, patterns []*gram.Pattern) error {
	session := s.session(ctx)
	defer func() { _ = session.Close(ctx) }()

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		for _, p := range patterns {
			stmt, err := cypher.Create(p)
			if err != nil {
				return nil, err
			}

			s.log.Debug("run", zap.String("cypher", stmt))

			result, err := tx.Run(ctx, stmt, nil)
			if err != nil {
				return nil, fmt.Errorf("neo4j: run statement: %w", err)
			}

			if _, err := result.Consume(ctx); err != nil {
				return nil, fmt.Errorf("neo4j: consume result: %w", err)
			}
		}

		return nil, nil
	})

	return err
}

// Merge writes each pattern with MERGE semantics: existing fragments are
// matched instead of duplicated.
func (s *Store) Merge(ctx context.Context, patterns []*gram.Pattern) error {
	session := s.session(ctx)
	defer func() { _ = session.Close(ctx) }()

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		for _, p := range patterns {
			stmt, err := cypher.Merge(p)
			if err != nil {
				return nil, err
			}

			s.log.Debug("run", zap.String("cypher", stmt))

			result, err := tx.Run(ctx, stmt, nil)
			if err != nil {
				return nil, fmt.Errorf("neo4j: run statement: %w", err)
			}

			if _, err := result.Consume(ctx); err != nil {
				return nil, fmt.Errorf("neo4j: consume result: %w", err)
			}
		}

		return nil, nil
	})

	return err
}

// Close releases the driver and its connection pool.
func (s *Store) Close(ctx context.Context) error {
	if err := s.driver.Close(ctx); err != nil {
		return fmt.Errorf("neo4j: close driver: %w", err)
	}

	return nil
}

func (s *Store) session(ctx context.Context) neo4j.SessionWithContext {
	cfg := neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite}
	if s.db != "" {
		cfg.DatabaseName = s.db
	}

	return s.driver.NewSession(ctx, cfg)
}
