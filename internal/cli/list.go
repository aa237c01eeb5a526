package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/five82/stoq/internal/catalog"
	"github.com/five82/stoq/internal/listctl"
	"github.com/five82/stoq/internal/pagewindow"
	"github.com/five82/stoq/internal/stoqapi"
)

const emptyListText = "No products found. Create your first product!"

type listOptions struct {
	page       int
	size       int
	name       string
	maxVisible int
	json       bool
}

func newListCmd(o *rootOptions) *cobra.Command {
	l := listOptions{page: 1, size: listctl.DefaultPageSize}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print one page of products",
		Long: `Print one page of products followed by the page window.

A page past the end is clamped to the last page that has results.

Examples:
  # Third page, 10 per page
  stoq list --page 3 --size 10

  # Products whose name contains "usb"
  stoq list --name usb

  # Raw response
  stoq list --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, o, l)
		},
	}
	cmd.Flags().IntVar(&l.page, "page", l.page, "Page to show (1-based)")
	cmd.Flags().IntVar(&l.size, "size", l.size, "Items per page (10, 20, 50 or 100)")
	cmd.Flags().StringVar(&l.name, "name", "", "Only products whose name contains this text")
	cmd.Flags().IntVar(&l.maxVisible, "max-visible", 0, "Page labels to show (default from config)")
	cmd.Flags().BoolVar(&l.json, "json", false, "Print the page as JSON")
	return cmd
}

func runList(cmd *cobra.Command, o *rootOptions, l listOptions) error {
	if l.page < 1 {
		return fmt.Errorf("page must be at least 1")
	}
	if !listctl.ValidSize(l.size) {
		return fmt.Errorf("%w: %d (choose one of %v)", listctl.ErrInvalidPageSize, l.size, listctl.PageSizes)
	}

	sess, err := o.connect(cmd)
	if err != nil {
		return err
	}
	maxVisible := l.maxVisible
	if maxVisible <= 0 {
		maxVisible = sess.cfg.MaxVisiblePages
	}

	ctrl := listctl.New[catalog.Product](
		listctl.WithPage(l.page),
		listctl.WithSize(l.size),
		listctl.WithFilter(l.name),
		listctl.WithMaxVisible(maxVisible),
	)
	src := stoqapi.ProductSource{API: sess.client}

	req, ok := ctrl.Start()
	for ok {
		resp := listctl.Run(cmd.Context(), req, src)
		if resp.Err != nil {
			return fmt.Errorf("list products: %w", resp.Err)
		}
		req, ok = ctrl.Apply(resp)
		if ok {
			sess.log.Debug().Int("page", req.Query.Page).Msg("page out of range, loading last page")
		}
	}
	ctrl.Close()

	st := ctrl.State()
	out := cmd.OutOrStdout()
	if l.json {
		return writeJSON(out, catalog.ListResponse{Items: st.Items, Total: st.Total, Page: st.Page, Size: st.Size})
	}
	if st.CommittedFilter != "" {
		fmt.Fprintf(out, "Filtering by: %s\n", st.CommittedFilter)
	}
	if len(st.Items) == 0 {
		fmt.Fprintln(out, emptyListText)
		return nil
	}
	fmt.Fprintln(out, productTable(st.Items))
	if line := windowLine(ctrl.Window(), st.Page); line != "" {
		fmt.Fprintln(out, line)
	}
	fmt.Fprintf(out, "Page %d of %d (%d total items)\n", st.Page, ctrl.TotalPages(), st.Total)
	return nil
}

func productTable(items []catalog.Product) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("NAME", "EAN", "PRICE", "STATUS", "PLACE", "ID")
	for _, p := range items {
		t.Row(p.Name, p.EAN, p.PriceLabel(), p.StatusLabel(), p.SellingPlace.Label(), p.ID)
	}
	return t.String()
}

// windowLine renders the page labels with the current page bracketed. It is
// empty when there is only one page.
func windowLine(w pagewindow.Window, current int) string {
	if w.Suppressed() {
		return ""
	}
	parts := make([]string, 0, len(w.Labels))
	for _, l := range w.Labels {
		if !l.Ellipsis && l.Page == current {
			parts = append(parts, "["+l.String()+"]")
			continue
		}
		parts = append(parts, l.String())
	}
	return "Pages: " + strings.Join(parts, " ")
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
