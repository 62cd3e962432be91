package adapter

import (
	"fmt"
	"log/slog"

	"github.com/mmcdole/drivestorage/internal/client"
	"github.com/mmcdole/drivestorage/internal/domain"
	"github.com/mmcdole/drivestorage/internal/drive"
)

// OpenGateway builds the RemoteGateway selected by cfg.Mode.
// The returned function releases it.
func OpenGateway(cfg *RemoteConfig, logger *slog.Logger) (domain.RemoteGateway, func() error, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Mode {
	case RemoteLocal:
		d, err := drive.Open(cfg.DataDir, logger.With("component", "drive"))
		if err != nil {
			return nil, nil, err
		}
		return d, d.Close, nil
	case RemoteHTTP:
		c := client.NewClient(cfg.URL, cfg.Token, cfg.Timeout, logger.With("component", "client"))
		return c, func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown remote mode %q", cfg.Mode)
	}
}

// OpenLocalDrive opens the bbolt drive regardless of mode, for `drive serve`
func OpenLocalDrive(cfg *RemoteConfig, logger *slog.Logger) (*drive.Drive, error) {
	if logger == nil {
		logger = slog.Default()
	}
	return drive.Open(cfg.DataDir, logger.With("component", "drive"))
}
