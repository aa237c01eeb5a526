package ui

import (
	"fmt"

	"github.com/five82/stoq/internal/listctl"
)

// renderHeader renders the status bar: logo, API endpoint, load state and
// the latest notice.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bg := newBgStyle(m.theme.Surface)
	st := m.ctrl.State()

	parts := []string{
		bg.Render("stoq", styles.Logo),
	}
	if m.apiURL != "" {
		parts = append(parts, bg.Render(truncate(m.apiURL, 40), styles.MutedText))
	}

	switch st.Status {
	case listctl.StatusLoading:
		parts = append(parts, bg.Render(m.spinner.View()+" Loading", styles.WarningText))
	case listctl.StatusError:
		parts = append(parts, bg.Render("● ERROR", styles.DangerText))
	default:
		parts = append(parts, bg.Render("● OK", styles.SuccessText))
	}

	parts = append(parts,
		bg.Render("Products:", styles.MutedText)+bg.Space()+
			bg.Render(fmt.Sprintf("%d", st.Total), styles.Text),
		bg.Render("Size:", styles.MutedText)+bg.Space()+
			bg.Render(fmt.Sprintf("%d", st.Size), styles.Text),
	)

	if m.notice != "" {
		style := styles.SuccessText
		if m.noticeErr {
			style = styles.DangerText
		}
		parts = append(parts, bg.Render(truncate(m.notice, max(m.width/2, 20)), style))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

// renderFooter shows the key hints for the active screen.
func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	var hints string
	switch {
	case m.input == inputSearch:
		hints = "enter search · esc cancel"
	case m.input == inputGoTo:
		hints = fmt.Sprintf("enter go (1-%d) · esc cancel", m.ctrl.TotalPages())
	case m.view == ViewDetail:
		hints = "e edit · esc close"
	case m.view == ViewForm:
		hints = "ctrl+s save · tab next field · esc cancel"
	default:
		return styles.Footer.Width(m.width).Render(m.help.ShortHelpView(m.keys.ShortHelp()))
	}
	return styles.Footer.Width(m.width).Render(hints)
}
