package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderDetail renders the selected product as a centered modal.
func (m Model) renderDetail(height int) string {
	p := m.detail
	styles := m.theme.Styles()

	created := "-"
	if t := p.ParsedInsertedAt(); !t.IsZero() {
		created = t.Local().Format("2006-01-02 15:04:05")
	}
	status := "inactive"
	if p.Active {
		status = "active"
	}
	description := p.Description
	if strings.TrimSpace(description) == "" {
		description = "-"
	}

	width := min(max(m.width-4, 40), 72)
	valueWidth := width - 20

	rows := []struct {
		label string
		value string
	}{
		{"Name", styles.Text.Bold(true).Render(truncate(p.Name, valueWidth))},
		{"EAN", styles.Text.Render(p.EAN)},
		{"Price", styles.Text.Render(p.PriceLabel())},
		{"Description", styles.Text.Width(valueWidth).Render(description)},
		{"Status", styles.Badge(status).Render(p.StatusLabel())},
		{"Selling Place", styles.Badge(string(p.SellingPlace)).Render(p.SellingPlace.Label())},
		{"Created", styles.Text.Render(created)},
		{"Picture", styles.MutedText.Render(p.PictureLabel())},
		{"ID", styles.FaintText.Render(p.ID)},
	}

	labelStyle := styles.MutedText.Bold(true).Width(16)
	lines := make([]string, 0, len(rows)+2)
	for _, r := range rows {
		lines = append(lines, " "+lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(r.label+":"), r.value))
	}
	lines = append(lines, "", " "+styles.FaintText.Render("e edit · esc close"))
	content := strings.Join(lines, "\n")

	box := m.renderTitledBox("Product Details", content, width, min(height, lipgloss.Height(content)+2), true)
	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, box)
}
