// Package usecase wires the catalog, the persisted ledger and a review
// session together for the CLI and the MCP server.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/animesift/animesift/internal/catalog"
	"github.com/animesift/animesift/internal/config"
	"github.com/animesift/animesift/internal/database"
	"github.com/animesift/animesift/internal/ledger"
	"github.com/animesift/animesift/internal/logging"
	"github.com/animesift/animesift/internal/profile"
	"github.com/animesift/animesift/internal/services"
	"github.com/animesift/animesift/internal/session"
)

// ErrNoCatalog is returned when neither a flag nor the settings name a catalog.
var ErrNoCatalog = errors.New("no catalog configured (use --catalog or catalog.path)")

// OpenOptions configures Open.
type OpenOptions struct {
	CatalogPath string
	ProfileName string
	// DBPath overrides the database location; empty uses the data directory.
	DBPath   string
	Settings *config.Settings
	Logger   zerolog.Logger
	Now      func() time.Time
}

// Review is an opened review: a session over the catalog whose decisions
// are written through to the profile's stored log.
type Review struct {
	Session        *session.Session
	Ledger         *ledger.Ledger
	Catalog        *catalog.Catalog
	Profile        database.ProfileRecord
	SessionID      string
	CatalogChanged bool

	db        *database.Context
	decisions *services.DecisionService
	logger    zerolog.Logger
}

// Open loads the catalog and the profile's stored decisions concurrently and
// only builds the session once both are available.
func Open(ctx context.Context, opts OpenOptions) (*Review, error) {
	settings := opts.Settings
	if settings == nil {
		settings = config.DefaultSettings()
	}

	catalogPath := opts.CatalogPath
	if catalogPath == "" {
		catalogPath = settings.Catalog.Path
	}
	if catalogPath == "" {
		return nil, ErrNoCatalog
	}

	name, err := profile.ResolveName(profile.Options{Name: opts.ProfileName, CatalogPath: catalogPath})
	if err != nil {
		return nil, err
	}

	logger := logging.WithComponent(opts.Logger, "review").With().Str("profile", name).Logger()

	dbCtx, err := database.CreateDatabase(opts.DBPath)
	if err != nil {
		return nil, err
	}

	sessionID := uuid.NewString()

	var (
		cat       *catalog.Catalog
		opened    services.OpenResult
		decisions *services.DecisionService
		stored    []ledger.Decision
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		loaded, err := catalog.LoadCSV(catalogPath)
		if err != nil {
			return err
		}
		cat = loaded
		return nil
	})
	g.Go(func() error {
		hash, err := catalog.Hash(catalogPath)
		if err != nil {
			return err
		}
		opened, err = services.NewProfileService(dbCtx).Open(gctx, profile.New(name, catalogPath, hash))
		if err != nil {
			return err
		}
		decisions = services.NewDecisionService(dbCtx, opened.Record.ID, sessionID, logger)
		stored, err = decisions.LoadAll(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		_ = database.CloseDatabase(dbCtx)
		return nil, err
	}

	if opened.CatalogChanged {
		logger.Warn().
			Str("catalog", catalogPath).
			Str("previous_hash", opened.PreviousHash).
			Str("hash", opened.Record.Profile.CatalogHash).
			Msg("catalog changed since this profile was last used")
	}
	if cat.Dropped() > 0 {
		logger.Warn().Int("dropped", cat.Dropped()).Msg("catalog rows without id or title were ignored")
	}

	led := ledger.New(decisions, logger)
	led.Rehydrate(stored)

	sess := session.New(cat, led, session.Options{
		PageSize:    settings.Review.PageSize,
		DefaultTags: settings.Review.DefaultTags,
		MinRating:   settings.Review.MinRating,
		Now:         opts.Now,
		Logger:      logger,
	})

	logger.Info().
		Str("session_id", sessionID).
		Int("catalog_size", cat.Len()).
		Int("decisions", len(stored)).
		Bool("created", opened.Created).
		Msg("review opened")

	return &Review{
		Session:        sess,
		Ledger:         led,
		Catalog:        cat,
		Profile:        opened.Record,
		SessionID:      sessionID,
		CatalogChanged: opened.CatalogChanged,
		db:             dbCtx,
		decisions:      decisions,
		logger:         logger,
	}, nil
}

// Logger returns the review's logger, scoped to the profile.
func (r *Review) Logger() zerolog.Logger {
	return r.logger
}

// Decisions returns the stored rows of the profile after pending writes land.
func (r *Review) Decisions(ctx context.Context) ([]database.DecisionRecord, error) {
	r.Ledger.Flush()
	return r.decisions.Records(ctx)
}

// Sessions summarises the stored decisions per review session.
func (r *Review) Sessions(ctx context.Context) ([]database.SessionSummary, error) {
	r.Ledger.Flush()
	return r.decisions.Sessions(ctx)
}

// Close drains pending ledger writes and closes the database.
func (r *Review) Close() error {
	if r == nil {
		return nil
	}
	r.Ledger.Close()
	if err := database.CloseDatabase(r.db); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	r.logger.Debug().Msg("review closed")
	return nil
}
