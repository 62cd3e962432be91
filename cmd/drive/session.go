package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmcdole/drivestorage/internal/adapter"
	"github.com/mmcdole/drivestorage/internal/library"
	"github.com/mmcdole/drivestorage/internal/trash"
	"github.com/urfave/cli/v3"
)

// session is one process worth of library state. Nothing survives a restart.
type session struct {
	cfg     *adapter.Config
	logger  *slog.Logger
	manager *library.Manager
	coord   *library.Coordinator
	queries *library.Queries
	bin     *trash.Bin

	closeGateway func() error
}

// setup loads config and the logger shared by every subcommand
func setup(cmd *cli.Command) (*adapter.Config, *slog.Logger, error) {
	cfg, err := adapter.LoadConfig(cmd.Root().String("config"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	}
	slog.SetDefault(logger)
	logger.Info("starting drive", "version", Version, "command", cmd.Name)
	return cfg, logger, nil
}

// openSession builds the library over the configured gateway. Extra options
// (reporter, notifier) are appended after the defaults so they win.
func openSession(cmd *cli.Command, opts ...library.Option) (*session, error) {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return nil, err
	}

	gateway, closeGateway, err := adapter.OpenGateway(&cfg.Remote, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open remote: %w", err)
	}

	manager := library.NewManager(cfg.Library.PageSize, logger.With("component", "library"))
	bin := trash.NewBin(cfg.Library.TrashPageSize, logger.With("component", "trash"))

	base := []library.Option{
		library.WithTrash(bin),
		library.WithLogger(logger.With("component", "coordinator")),
		library.WithReporter(func(err error) {
			logger.Debug("library error", "error", err)
		}),
	}
	coord := library.NewCoordinator(manager, gateway, append(base, opts...)...)

	return &session{
		cfg:          cfg,
		logger:       logger,
		manager:      manager,
		coord:        coord,
		queries:      library.NewQueries(manager),
		bin:          bin,
		closeGateway: closeGateway,
	}, nil
}

// load fetches the catalogue; CLI commands always start from a fresh mirror
func (s *session) load(ctx context.Context) error {
	if err := s.coord.Load(ctx); err != nil {
		return fmt.Errorf("failed to load library: %w", err)
	}
	return nil
}

// Close waits for in-flight intents and releases the gateway
func (s *session) Close() {
	s.coord.Close()
	s.manager.Close()
	if err := s.closeGateway(); err != nil {
		s.logger.Warn("failed to close remote", "error", err)
	}
}

// folderNames maps folder uids to names for display
func (s *session) folderNames() map[string]string {
	folders := s.queries.Folders()
	names := make(map[string]string, len(folders))
	for _, f := range folders {
		names[f.UID] = f.Name
	}
	return names
}

// isFolder reports whether uid names a known folder
func (s *session) isFolder(uid string) bool {
	_, err := library.FindFolder(s.manager.State(), uid)
	return err == nil
}
