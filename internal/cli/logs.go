package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/stoq/internal/logtail"
)

func newLogsCmd(o *rootOptions) *cobra.Command {
	var lines int
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the end of the client log",
		Long: `Show the end of the client log written by the browser.

Examples:
  stoq logs -n 200
  stoq logs -n 0   # whole file`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.loadConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			tail, err := logtail.Read(cfg.LogFile, lines)
			if err != nil {
				return err
			}
			if len(tail) == 0 {
				fmt.Fprintf(out, "No log entries in %s\n", cfg.LogFile)
				return nil
			}
			return logtail.Format(out, tail, isTerminal(out))
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of lines to show (0 for all)")
	return cmd
}
