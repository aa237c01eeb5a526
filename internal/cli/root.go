// Package cli provides the command-line interface for stoq.
package cli

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/five82/stoq/internal/app"
	"github.com/five82/stoq/internal/config"
	"github.com/five82/stoq/internal/logging"
	"github.com/five82/stoq/internal/stoqapi"
)

// Version is reported by --version.
var Version = "0.1.0-dev"

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	apiURL     string
	debug      bool
}

// NewRootCmd creates the stoq command tree. Without a subcommand it opens
// the interactive browser.
func NewRootCmd() *cobra.Command {
	o := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "stoq",
		Short: "Browse and edit a product catalog",
		Long: `stoq is a terminal client for a products API.

Run without arguments to open the interactive browser. The other
subcommands print a single page, fetch or edit one product, run a local
demo API, or show the client log.

Settings come from ~/.config/stoq/config.toml, then a .env file in the
working directory, then STOQ_API_URL, STOQ_LOG_LEVEL and STOQ_LOG_FILE,
then --api-url.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd, o, browseOptions{})
		},
	}
	rootCmd.Version = Version

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&o.configPath, "config", "c", "", "Configuration file path (default ~/.config/stoq/config.toml)")
	pf.StringVar(&o.apiURL, "api-url", "", "API base URL (overrides config and "+config.EnvAPIURL+")")
	pf.BoolVar(&o.debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(
		newBrowseCmd(o),
		newListCmd(o),
		newGetCmd(o),
		newCreateCmd(o),
		newUpdateCmd(o),
		newServeCmd(o),
		newLogsCmd(o),
		newConfigCmd(o),
	)
	return rootCmd
}

// Execute runs the command tree with args, writing to stdout and stderr.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	rootCmd := NewRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	return rootCmd.ExecuteContext(ctx)
}

// loadConfig resolves the effective configuration for a command.
func (o *rootOptions) loadConfig() (config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if v := strings.TrimSpace(o.apiURL); v != "" {
		cfg.APIURL = v
	}
	return cfg, nil
}

// consoleLogger logs to the command's stderr.
func (o *rootOptions) consoleLogger(cmd *cobra.Command, cfg config.Config) zerolog.Logger {
	w := cmd.ErrOrStderr()
	return logging.NewConsole(w, levelFor(cfg, o.debug), !isTerminal(w))
}

// session is what a command talking to the API needs.
type session struct {
	cfg    config.Config
	log    zerolog.Logger
	client *stoqapi.Client
}

// connect loads the configuration and builds an API client that logs to
// stderr.
func (o *rootOptions) connect(cmd *cobra.Command) (session, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return session{}, err
	}
	log := o.consoleLogger(cmd, cfg)
	c, err := app.NewClient(cfg, log)
	if err != nil {
		return session{}, err
	}
	return session{cfg: cfg, log: log, client: c}, nil
}

func levelFor(cfg config.Config, debug bool) zerolog.Level {
	if debug {
		return zerolog.DebugLevel
	}
	return cfg.LogLevel
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
