package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/stoq/internal/catalog"
	"github.com/five82/stoq/internal/listctl"
	"github.com/five82/stoq/internal/pagewindow"
)

const (
	emptyListText = "No products found. Create your first product!"

	// compactWidth is the width below which the Created column is dropped.
	compactWidth = 100
)

// renderList renders the toolbar, the product table and the pagination bar.
func (m Model) renderList(height int) string {
	st := m.ctrl.State()

	top := []string{m.renderToolbar(st)}
	if st.CommittedFilter != "" {
		top = append(top, m.renderFilterIndicator(st.CommittedFilter))
	}
	if st.Status == listctl.StatusError {
		top = append(top, m.renderErrorBanner(st.Err))
	}

	var bottom []string
	if bar := m.renderPagination(st); bar != "" {
		bottom = append(bottom, bar)
	}

	boxHeight := max(height-len(top)-len(bottom), 3)
	title := fmt.Sprintf("Products (%d)", st.Total)
	box := m.renderTitledBox(title, m.renderTable(st, m.width-2), m.width, boxHeight, m.input == inputNone)

	lines := append(top, box)
	return strings.Join(append(lines, bottom...), "\n")
}

// renderToolbar shows the search box and the page size selector.
func (m Model) renderToolbar(st listctl.State[catalog.Product]) string {
	styles := m.theme.Styles()

	var search string
	switch m.input {
	case inputSearch:
		search = m.search.View()
	case inputGoTo:
		search = m.goTo.View()
	default:
		text := st.PendingFilter
		if text == "" {
			search = styles.FaintText.Render("/ Search by product name...")
		} else {
			search = styles.Text.Render("/ " + text)
		}
	}

	sizes := make([]string, 0, len(listctl.PageSizes))
	for _, size := range listctl.PageSizes {
		label := fmt.Sprintf("%d", size)
		if size == st.Size {
			sizes = append(sizes, styles.AccentText.Bold(true).Render("["+label+"]"))
		} else {
			sizes = append(sizes, styles.MutedText.Render(" "+label+" "))
		}
	}
	selector := styles.MutedText.Render("Items per page: ") + strings.Join(sizes, "")

	gap := max(m.width-lipgloss.Width(search)-lipgloss.Width(selector)-2, 2)
	return " " + search + strings.Repeat(" ", gap) + selector
}

func (m Model) renderFilterIndicator(filter string) string {
	styles := m.theme.Styles()
	return " " + styles.MutedText.Render("Filtering by: ") +
		styles.Text.Bold(true).Render(truncate(filter, max(m.width-40, 10))) +
		styles.FaintText.Render("   c to clear")
}

func (m Model) renderErrorBanner(msg string) string {
	styles := m.theme.Styles()
	return " " + styles.DangerText.Render("Error: "+truncate(msg, max(m.width-30, 10))) +
		styles.MutedText.Render("   r to retry")
}

type column struct {
	title string
	width int
	right bool
	value func(catalog.Product) string
}

func (m Model) columns(width int) []column {
	cols := []column{
		{title: "Name", value: func(p catalog.Product) string { return singleLine(p.Name) }},
		{title: "EAN", width: 13, value: func(p catalog.Product) string { return p.EAN }},
		{title: "Price", width: 10, right: true, value: catalog.Product.PriceLabel},
		{title: "Status", width: 8, value: catalog.Product.StatusLabel},
		{title: "Place", width: 5, value: func(p catalog.Product) string { return p.SellingPlace.Label() }},
		{title: "Pic", width: 3, value: func(p catalog.Product) string {
			if len(p.Picture) > 0 {
				return "yes"
			}
			return "-"
		}},
	}
	if width >= compactWidth {
		cols = append(cols, column{title: "Created", width: 16, value: func(p catalog.Product) string {
			t := p.ParsedInsertedAt()
			if t.IsZero() {
				return "-"
			}
			return t.Local().Format("2006-01-02 15:04")
		}})
	}

	fixed := 0
	for _, c := range cols[1:] {
		fixed += c.width + 2
	}
	cols[0].width = max(width-fixed-2, 10)
	return cols
}

// renderTable renders the product rows, or a status line when there are
// none to show.
func (m Model) renderTable(st listctl.State[catalog.Product], width int) string {
	styles := m.theme.Styles()

	if len(st.Items) == 0 {
		switch st.Status {
		case listctl.StatusLoading:
			return " " + m.spinner.View() + " Loading products..."
		case listctl.StatusError:
			return " " + styles.DangerText.Render("Failed to load products")
		default:
			return " " + styles.MutedText.Render(emptyListText)
		}
	}

	cols := m.columns(width)
	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = cell(c.title, c.width)
	}
	lines := []string{" " + styles.MutedText.Bold(true).Render(strings.Join(header, "  "))}

	for i, p := range st.Items {
		cells := make([]string, len(cols))
		for j, c := range cols {
			v := truncate(c.value(p), c.width)
			if c.right {
				v = strings.Repeat(" ", max(c.width-lipgloss.Width(v), 0)) + v
			}
			cells[j] = padRight(v, c.width)
		}
		row := " " + strings.Join(cells, "  ")
		if i == m.cursor {
			lines = append(lines, styles.Selected.Width(width).Render(row))
			continue
		}
		lines = append(lines, m.styleRow(cells, p))
	}

	if st.Status == listctl.StatusLoading {
		lines = append(lines, " "+m.spinner.View()+styles.MutedText.Render(" Loading..."))
	}
	return strings.Join(lines, "\n")
}

// styleRow colors the status and place cells of an unselected row.
func (m Model) styleRow(cells []string, p catalog.Product) string {
	styles := m.theme.Styles()
	out := make([]string, len(cells))
	for i, c := range cells {
		switch i {
		case 3:
			kind := "inactive"
			if p.Active {
				kind = "active"
			}
			out[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.BadgeColor(kind))).Render(c)
		case 4:
			out[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.BadgeColor(string(p.SellingPlace)))).Render(c)
		default:
			out[i] = styles.Text.Render(c)
		}
	}
	return " " + strings.Join(out, "  ")
}

// renderPagination renders the page labels and the info line. Nothing is
// shown when the list is empty or fits on one page.
func (m Model) renderPagination(st listctl.State[catalog.Product]) string {
	w := m.ctrl.Window()
	if w.Suppressed() || len(st.Items) == 0 {
		return ""
	}
	styles := m.theme.Styles()

	prev := styles.Text.Render("‹ Prev")
	if st.Page <= 1 {
		prev = styles.FaintText.Render("‹ Prev")
	}
	next := styles.Text.Render("Next ›")
	if st.Page >= w.TotalPages {
		next = styles.FaintText.Render("Next ›")
	}

	parts := []string{prev}
	for _, l := range w.Labels {
		switch {
		case l.Ellipsis:
			parts = append(parts, styles.FaintText.Render(l.String()))
		case l.Page == st.Page:
			parts = append(parts, styles.Selected.Bold(true).Render("["+l.String()+"]"))
		default:
			parts = append(parts, styles.MutedText.Render(l.String()))
		}
	}
	parts = append(parts, next)

	bar := strings.Join(parts, " ")
	info := styles.MutedText.Render(pageInfo(st.Page, w, st.Total))
	gap := max(m.width-lipgloss.Width(bar)-lipgloss.Width(info)-2, 2)
	return " " + bar + strings.Repeat(" ", gap) + info
}

// pageInfo is the "Page X of Y (N total items)" line.
func pageInfo(page int, w pagewindow.Window, total int) string {
	return fmt.Sprintf("Page %d of %d (%d total items)", page, w.TotalPages, total)
}
