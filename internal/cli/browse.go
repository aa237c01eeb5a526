package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/stoq/internal/app"
	"github.com/five82/stoq/internal/listctl"
	"github.com/five82/stoq/internal/logging"
)

type browseOptions struct {
	page int
	size int
	name string
}

func newBrowseCmd(o *rootOptions) *cobra.Command {
	var b browseOptions
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Open the interactive product browser",
		Long: `Open the interactive product browser.

The browser owns the terminal, so log output goes to the log file
(log_file in the config, see "stoq logs").

Examples:
  # Start on the second page of USB products, 10 per page
  stoq browse --name usb --size 10 --page 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd, o, b)
		},
	}
	cmd.Flags().IntVar(&b.page, "page", 0, "Initial page")
	cmd.Flags().IntVar(&b.size, "size", 0, "Items per page (10, 20, 50 or 100)")
	cmd.Flags().StringVar(&b.name, "name", "", "Initial name filter")
	return cmd
}

func runBrowse(cmd *cobra.Command, o *rootOptions, b browseOptions) error {
	if b.size != 0 && !listctl.ValidSize(b.size) {
		return fmt.Errorf("%w: %d (choose one of %v)", listctl.ErrInvalidPageSize, b.size, listctl.PageSizes)
	}
	if b.page < 0 {
		return fmt.Errorf("page must be positive")
	}

	cfg, err := o.loadConfig()
	if err != nil {
		return err
	}
	log, closer, err := logging.New(logging.Options{
		Level: cfg.LogLevel,
		Debug: o.debug,
		File:  cfg.LogFile,
	})
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	return app.Run(cmd.Context(), app.Options{
		Config:   cfg,
		Logger:   log,
		Page:     b.page,
		PageSize: b.size,
		Filter:   b.name,
	})
}
