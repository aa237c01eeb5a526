package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/five82/stoq/internal/config"
	"github.com/five82/stoq/internal/prefs"
	"github.com/five82/stoq/internal/stoqapi"
	"github.com/five82/stoq/internal/ui"
)

// Options configure the interactive browser.
type Options struct {
	Config    config.Config
	Logger    zerolog.Logger
	PrefsPath string // empty uses default ~/.config/stoq/prefs.toml

	// Initial list position. Zero values use the controller defaults.
	Page     int
	PageSize int
	Filter   string
}

// NewClient builds an API client from the effective configuration.
func NewClient(cfg config.Config, log zerolog.Logger) (*stoqapi.Client, error) {
	client, err := stoqapi.NewClient(cfg.APIURL,
		stoqapi.WithTimeout(cfg.RequestTimeout),
		stoqapi.WithRetryMax(cfg.RetryMax),
		stoqapi.WithLogger(log.With().Str("component", "api").Logger()),
	)
	if err != nil {
		return nil, fmt.Errorf("init api client: %w", err)
	}
	return client, nil
}

// Run boots the TUI until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	log := opts.Logger
	client, err := NewClient(opts.Config, log)
	if err != nil {
		return err
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs, err := prefs.Load(prefsPath)
	if err != nil {
		log.Warn().Err(err).Str("path", prefsPath).Msg("using default preferences")
	}

	log.Info().
		Str("api_url", client.BaseURL()).
		Int("page", opts.Page).
		Int("size", opts.PageSize).
		Str("filter", opts.Filter).
		Msg("starting browser")

	err = ui.Run(ui.Options{
		Context:    ctx,
		API:        client,
		Logger:     log,
		APIURL:     client.BaseURL(),
		Page:       opts.Page,
		PageSize:   opts.PageSize,
		Filter:     opts.Filter,
		MaxVisible: opts.Config.MaxVisiblePages,
		ThemeName:  userPrefs.Theme,
		PrefsPath:  prefsPath,
	})
	log.Info().Err(err).Msg("browser stopped")
	return err
}
