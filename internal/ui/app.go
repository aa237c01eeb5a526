package ui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/five82/stoq/internal/catalog"
	"github.com/five82/stoq/internal/listctl"
	"github.com/five82/stoq/internal/prefs"
	"github.com/five82/stoq/internal/stoqapi"
)

// View represents the current screen.
type View int

const (
	ViewList View = iota
	ViewDetail
	ViewForm
)

type inputMode int

const (
	inputNone inputMode = iota
	inputSearch
	inputGoTo
)

const defaultNoticeTTL = 4 * time.Second

// Options configures the UI.
type Options struct {
	Context    context.Context
	API        stoqapi.ProductAPI
	Logger     zerolog.Logger
	APIURL     string
	Page       int
	PageSize   int
	Filter     string
	MaxVisible int
	ThemeName  string
	PrefsPath  string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx       context.Context
	api       stoqapi.ProductAPI
	source    listctl.DataSource[catalog.Product]
	log       zerolog.Logger
	apiURL    string
	prefsPath string

	ctrl *listctl.Controller[catalog.Product]

	theme   Theme
	keys    keyMap
	help    help.Model
	spinner spinner.Model

	search    textinput.Model
	goTo      textinput.Model
	input     inputMode
	view      View
	showHelp  bool
	width     int
	height    int
	ready     bool
	cursor    int
	detail    catalog.Product
	form      *productForm
	notice    string
	noticeErr bool
	noticeID  int
	noticeTTL time.Duration
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = prefs.DefaultTheme
	}

	ctrlOpts := []listctl.Option{listctl.WithFilter(opts.Filter)}
	if opts.Page > 0 {
		ctrlOpts = append(ctrlOpts, listctl.WithPage(opts.Page))
	}
	if listctl.ValidSize(opts.PageSize) {
		ctrlOpts = append(ctrlOpts, listctl.WithSize(opts.PageSize))
	}
	if opts.MaxVisible > 0 {
		ctrlOpts = append(ctrlOpts, listctl.WithMaxVisible(opts.MaxVisible))
	}

	search := textinput.New()
	search.Placeholder = "Search by product name..."
	search.Prompt = "/ "
	search.CharLimit = catalog.MaxNameLength
	search.SetValue(opts.Filter)

	goTo := textinput.New()
	goTo.Placeholder = "page"
	goTo.Prompt = "Go to page: "
	goTo.CharLimit = 6

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:       ctx,
		api:       opts.API,
		source:    stoqapi.ProductSource{API: opts.API},
		log:       opts.Logger.With().Str("component", "ui").Logger(),
		apiURL:    opts.APIURL,
		prefsPath: opts.PrefsPath,
		ctrl:      listctl.New[catalog.Product](ctrlOpts...),
		theme:     GetTheme(themeName),
		keys:      DefaultKeyMap(),
		help:      help.New(),
		spinner:   sp,
		search:    search,
		goTo:      goTo,
		view:      ViewList,
		noticeTTL: defaultNoticeTTL,
	}
}

// Init implements tea.Model. It issues the initial fetch.
func (m Model) Init() tea.Cmd {
	return m.fetchListCmd(m.ctrl.Start())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.search.Width = max(msg.Width/3, 20)
		m.ready = true
		return m, nil

	case listLoadedMsg:
		return m.handleListLoaded(listctl.Response[catalog.Product](msg))

	case productLoadedMsg:
		return m.handleProductLoaded(msg)

	case productSavedMsg:
		return m.handleProductSaved(msg)

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case noticeExpiredMsg:
		if msg.id == m.noticeID {
			m.notice = ""
		}
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	bodyHeight := max(m.height-2, 3)
	var body string
	switch m.view {
	case ViewDetail:
		body = m.renderDetail(bodyHeight)
	case ViewForm:
		body = m.renderForm(bodyHeight)
	default:
		body = m.renderList(bodyHeight)
	}
	return m.renderHeader() + "\n" + body + "\n" + m.renderFooter()
}

// Controller exposes the list controller for inspection.
func (m Model) Controller() *listctl.Controller[catalog.Product] {
	return m.ctrl
}

// CurrentView reports which screen is showing.
func (m Model) CurrentView() View {
	return m.view
}

func (m Model) busy() bool {
	if m.ctrl.State().Status == listctl.StatusLoading {
		return true
	}
	return m.form != nil && (m.form.loading || m.form.saving)
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.ctrl.Close()
	return m, tea.Quit
}

// handleKey routes a key press to the active input, screen or list.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	switch m.input {
	case inputSearch:
		return m.handleSearchKey(msg)
	case inputGoTo:
		return m.handleGoToKey(msg)
	}

	switch m.view {
	case ViewDetail:
		return m.handleDetailKey(msg)
	case ViewForm:
		return m.handleFormKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.cycleTheme()
		return m, nil
	}

	return m.handleListKey(msg)
}

func (m *Model) cycleTheme() {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name}); err != nil {
		m.log.Warn().Err(err).Msg("save prefs")
	}
}

// navigate issues a fetch that changes the visible page and resets the
// row cursor.
func (m *Model) navigate(req listctl.Request, ok bool) tea.Cmd {
	if ok {
		m.cursor = 0
	}
	return m.fetchListCmd(req, ok)
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := m.ctrl.State()

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(st.Items)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.PrevPage):
		return m, m.navigate(m.ctrl.PrevPage())
	case key.Matches(msg, m.keys.NextPage):
		return m, m.navigate(m.ctrl.NextPage())
	case key.Matches(msg, m.keys.FirstPage):
		return m, m.navigate(m.ctrl.FirstPage())
	case key.Matches(msg, m.keys.LastPage):
		return m, m.navigate(m.ctrl.LastPage())
	case key.Matches(msg, m.keys.SizeUp):
		return m, m.navigate(m.ctrl.CycleSize(1))
	case key.Matches(msg, m.keys.SizeDown):
		return m, m.navigate(m.ctrl.CycleSize(-1))
	case key.Matches(msg, m.keys.Reload):
		return m, m.fetchListCmd(m.ctrl.Reload())
	case key.Matches(msg, m.keys.GoToPage):
		if m.ctrl.TotalPages() > 1 {
			m.input = inputGoTo
			m.goTo.SetValue("")
			return m, m.goTo.Focus()
		}

	case key.Matches(msg, m.keys.Search):
		m.input = inputSearch
		m.search.SetValue(st.PendingFilter)
		m.search.CursorEnd()
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.ClearFilter):
		if st.CommittedFilter != "" {
			m.search.SetValue("")
			return m, m.navigate(m.ctrl.ClearFilter())
		}

	case key.Matches(msg, m.keys.View):
		if p, ok := m.selected(); ok {
			m.detail = p
			m.view = ViewDetail
		}
	case key.Matches(msg, m.keys.Edit):
		if p, ok := m.selected(); ok {
			return m.openEditForm(p.ID)
		}
	case key.Matches(msg, m.keys.New):
		return m.openCreateForm()
	}

	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.input = inputNone
		m.search.Blur()
		return m, m.navigate(m.ctrl.SubmitFilter(m.search.Value()))
	case tea.KeyEsc:
		m.input = inputNone
		m.search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.ctrl.SetPendingFilter(m.search.Value())
	return m, cmd
}

func (m Model) handleGoToKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.input = inputNone
		m.goTo.Blur()
		page, err := strconv.Atoi(strings.TrimSpace(m.goTo.Value()))
		if err != nil {
			return m, m.setNotice(fmt.Sprintf("%q is not a page number", m.goTo.Value()), true)
		}
		return m, m.navigate(m.ctrl.SetPage(page))
	case tea.KeyEsc:
		m.input = inputNone
		m.goTo.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.goTo, cmd = m.goTo.Update(msg)
	return m, cmd
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Edit):
		return m.openEditForm(m.detail.ID)
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Confirm), key.Matches(msg, m.keys.Quit):
		m.view = ViewList
	}
	return m, nil
}

func (m Model) handleListLoaded(resp listctl.Response[catalog.Product]) (tea.Model, tea.Cmd) {
	if resp.Seq != m.ctrl.Seq() {
		m.log.Debug().Uint64("seq", resp.Seq).Uint64("latest", m.ctrl.Seq()).Msg("dropping stale list response")
	}
	req, ok := m.ctrl.Apply(resp)

	st := m.ctrl.State()
	switch {
	case st.Status == listctl.StatusError && resp.Seq == m.ctrl.Seq():
		m.log.Warn().Err(resp.Err).Uint64("seq", resp.Seq).Msg("list fetch failed")
	case ok:
		m.log.Info().Int("page", req.Query.Page).Int("total", st.Total).Msg("page out of range, loading last page")
	}

	if m.cursor >= len(st.Items) {
		m.cursor = max(len(st.Items)-1, 0)
	}
	return m, m.fetchListCmd(req, ok)
}

func (m Model) selected() (catalog.Product, bool) {
	items := m.ctrl.State().Items
	if m.cursor < 0 || m.cursor >= len(items) {
		return catalog.Product{}, false
	}
	return items[m.cursor], true
}

func (m *Model) setNotice(text string, isErr bool) tea.Cmd {
	m.noticeID++
	m.notice = text
	m.noticeErr = isErr
	if m.noticeTTL <= 0 {
		return nil
	}
	return expireNoticeCmd(m.noticeID, m.noticeTTL)
}

// errorText renders err for display, preferring the server's detail.
func errorText(err error) string {
	var apiErr *stoqapi.APIError
	if errors.As(err, &apiErr) {
		if detail := apiErr.Detail(); detail != "" {
			return detail
		}
	}
	return err.Error()
}

// Run starts the Bubble Tea program and returns when the user quits or ctx
// is cancelled.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	m.ctrl.Close()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
