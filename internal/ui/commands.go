package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/stoq/internal/catalog"
	"github.com/five82/stoq/internal/listctl"
	"github.com/five82/stoq/internal/stoqapi"
)

// Messages

// listLoadedMsg carries a fetch result tagged with the sequence number of
// the request that produced it.
type listLoadedMsg listctl.Response[catalog.Product]

// productLoadedMsg answers a load for the edit form.
type productLoadedMsg struct {
	id      string
	product catalog.Product
	err     error
}

// productSavedMsg answers a create or update.
type productSavedMsg struct {
	created bool
	product catalog.Product
	err     error
}

type noticeExpiredMsg struct{ id int }

// Commands

// fetchListCmd runs req against the data source. ok is the second result
// of a controller command; no command is produced when it is false.
func (m Model) fetchListCmd(req listctl.Request, ok bool) tea.Cmd {
	if !ok {
		return nil
	}
	ctx, src, log := m.ctx, m.source, m.log
	log.Debug().Uint64("seq", req.Seq).Int("page", req.Query.Page).Int("size", req.Query.Size).
		Str("filter", req.Query.Filter).Msg("list fetch")
	fetch := func() tea.Msg {
		return listLoadedMsg(listctl.Run(ctx, req, src))
	}
	return tea.Batch(fetch, m.spinner.Tick)
}

func loadProductCmd(ctx context.Context, api stoqapi.ProductAPI, id string) tea.Cmd {
	return func() tea.Msg {
		p, err := api.GetProduct(ctx, id)
		return productLoadedMsg{id: id, product: p, err: err}
	}
}

func createProductCmd(ctx context.Context, api stoqapi.ProductAPI, in catalog.CreateInput) tea.Cmd {
	return func() tea.Msg {
		p, err := api.CreateProduct(ctx, in)
		return productSavedMsg{created: true, product: p, err: err}
	}
}

func updateProductCmd(ctx context.Context, api stoqapi.ProductAPI, id string, in catalog.UpdateInput) tea.Cmd {
	return func() tea.Msg {
		p, err := api.UpdateProduct(ctx, id, in)
		return productSavedMsg{product: p, err: err}
	}
}

func expireNoticeCmd(id int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return noticeExpiredMsg{id: id}
	})
}
