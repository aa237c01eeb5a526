package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/stoq/internal/catalog"
	"github.com/five82/stoq/internal/config"
)

type formField int

const (
	fieldName formField = iota
	fieldEAN
	fieldPrice
	fieldDescription
	fieldActive
	fieldPlace
	fieldPicture
	fieldRemovePicture
)

var fieldLabels = map[formField]string{
	fieldName:          "Product Name *",
	fieldEAN:           "EAN (13 digits) *",
	fieldPrice:         "Price *",
	fieldDescription:   "Description",
	fieldActive:        "Active",
	fieldPlace:         "Selling Place",
	fieldPicture:       "Picture file",
	fieldRemovePicture: "Remove picture",
}

// productForm backs both the create and the edit screen. id is empty when
// creating.
type productForm struct {
	id      string
	loading bool
	failed  bool
	saving  bool

	inputs map[formField]*textinput.Model
	active bool
	place  catalog.SellingPlace

	picture       []byte
	removePicture bool

	focus formField
	errs  map[formField]string
	err   string
}

func newProductForm(id string) *productForm {
	f := &productForm{
		id:      id,
		loading: id != "",
		active:  true,
		place:   catalog.SellingPlaceStore,
		inputs:  map[formField]*textinput.Model{},
		errs:    map[formField]string{},
	}
	add := func(field formField, placeholder string, limit int) {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = placeholder
		in.CharLimit = limit
		in.Width = 40
		f.inputs[field] = &in
	}
	add(fieldName, "", catalog.MaxNameLength)
	add(fieldEAN, "1234567890123", 13)
	add(fieldPrice, "0.00", 16)
	add(fieldDescription, "", catalog.MaxDescriptionLength)
	add(fieldPicture, "path/to/image.png", 4096)
	return f
}

func (f *productForm) editing() bool {
	return f.id != ""
}

// fill loads an existing product into the inputs.
func (f *productForm) fill(p catalog.Product) {
	f.loading = false
	f.inputs[fieldName].SetValue(p.Name)
	f.inputs[fieldEAN].SetValue(p.EAN)
	f.inputs[fieldPrice].SetValue(strconv.FormatFloat(p.Price, 'f', -1, 64))
	f.inputs[fieldDescription].SetValue(p.Description)
	f.active = p.Active
	if p.SellingPlace.Valid() {
		f.place = p.SellingPlace
	}
	f.picture = p.Picture
}

// fields lists the focusable fields in order.
func (f *productForm) fields() []formField {
	out := []formField{fieldName, fieldEAN, fieldPrice, fieldDescription, fieldActive, fieldPlace, fieldPicture}
	if f.editing() && len(f.picture) > 0 {
		out = append(out, fieldRemovePicture)
	}
	return out
}

func (f *productForm) move(delta int) tea.Cmd {
	fields := f.fields()
	idx := 0
	for i, field := range fields {
		if field == f.focus {
			idx = i
		}
	}
	n := len(fields)
	f.focus = fields[((idx+delta)%n+n)%n]
	return f.syncFocus()
}

func (f *productForm) syncFocus() tea.Cmd {
	var cmd tea.Cmd
	for field, in := range f.inputs {
		if field == f.focus {
			cmd = in.Focus()
		} else {
			in.Blur()
		}
	}
	return cmd
}

func (f *productForm) toggle() {
	switch f.focus {
	case fieldActive:
		f.active = !f.active
	case fieldPlace:
		if f.place == catalog.SellingPlaceStore {
			f.place = catalog.SellingPlaceEvent
		} else {
			f.place = catalog.SellingPlaceStore
		}
	case fieldRemovePicture:
		f.removePicture = !f.removePicture
	}
}

func (f *productForm) value(field formField) string {
	return f.inputs[field].Value()
}

// validate checks every field, records per-field messages, and reports
// whether the form can be submitted. A picture path is read here.
func (f *productForm) validate() (catalog.CreateInput, bool) {
	f.errs = map[formField]string{}
	in := catalog.CreateInput{
		Name:         f.value(fieldName),
		EAN:          strings.TrimSpace(f.value(fieldEAN)),
		Description:  f.value(fieldDescription),
		Active:       f.active,
		SellingPlace: f.place,
	}

	if err := catalog.ValidateName(in.Name); err != nil {
		f.errs[fieldName] = err.Error()
	}
	if err := catalog.ValidateEAN(in.EAN); err != nil {
		f.errs[fieldEAN] = err.Error()
	}
	price, err := catalog.ParsePrice(f.value(fieldPrice))
	if err != nil {
		f.errs[fieldPrice] = err.Error()
	}
	in.Price = price
	if err := catalog.ValidateDescription(in.Description); err != nil {
		f.errs[fieldDescription] = err.Error()
	}
	if path := strings.TrimSpace(f.value(fieldPicture)); path != "" {
		resolved, err := config.ExpandPath(path)
		if err == nil {
			in.Picture, err = catalog.ReadPicture(resolved)
		}
		if err != nil {
			f.errs[fieldPicture] = err.Error()
		}
	}
	return in, len(f.errs) == 0
}

// updateInput sends every field, as the edit screen shows them all. The
// picture is only sent when replaced or removed.
func (f *productForm) updateInput(in catalog.CreateInput) catalog.UpdateInput {
	u := catalog.UpdateInput{
		Name:         &in.Name,
		EAN:          &in.EAN,
		Price:        &in.Price,
		Description:  &in.Description,
		Active:       &in.Active,
		SellingPlace: &in.SellingPlace,
		Picture:      in.Picture,
	}
	if len(in.Picture) == 0 && f.removePicture {
		u.RemovePicture = true
	}
	return u
}

func (m Model) openCreateForm() (tea.Model, tea.Cmd) {
	m.form = newProductForm("")
	m.view = ViewForm
	return m, m.form.syncFocus()
}

func (m Model) openEditForm(id string) (tea.Model, tea.Cmd) {
	m.form = newProductForm(id)
	m.view = ViewForm
	return m, tea.Batch(loadProductCmd(m.ctx, m.api, id), m.spinner.Tick)
}

func (m Model) closeForm() Model {
	m.form = nil
	m.view = ViewList
	return m
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.form
	if key.Matches(msg, m.keys.Escape) {
		return m.closeForm(), nil
	}
	if f.loading || f.saving || f.failed {
		return m, nil
	}

	onToggle := f.focus == fieldActive || f.focus == fieldPlace || f.focus == fieldRemovePicture
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.submitForm()
	case onToggle && key.Matches(msg, m.keys.Toggle):
		f.toggle()
		return m, nil
	case key.Matches(msg, m.keys.NextField):
		return m, f.move(1)
	case key.Matches(msg, m.keys.PrevField):
		return m, f.move(-1)
	case key.Matches(msg, m.keys.Confirm):
		fields := f.fields()
		if f.focus == fields[len(fields)-1] {
			return m.submitForm()
		}
		return m, f.move(1)
	}

	if in, ok := f.inputs[f.focus]; ok {
		updated, cmd := in.Update(msg)
		*in = updated
		return m, cmd
	}
	return m, nil
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	f := m.form
	in, ok := f.validate()
	if !ok {
		f.err = ""
		return m, nil
	}
	f.saving = true
	f.err = ""

	var save tea.Cmd
	if f.editing() {
		save = updateProductCmd(m.ctx, m.api, f.id, f.updateInput(in))
	} else {
		save = createProductCmd(m.ctx, m.api, in)
	}
	return m, tea.Batch(save, m.spinner.Tick)
}

func (m Model) handleProductLoaded(msg productLoadedMsg) (tea.Model, tea.Cmd) {
	f := m.form
	if f == nil || f.id != msg.id || !f.loading {
		return m, nil
	}
	if msg.err != nil {
		f.loading = false
		f.failed = true
		f.err = "Failed to load product: " + errorText(msg.err)
		m.log.Warn().Err(msg.err).Str("id", msg.id).Msg("load product")
		return m, nil
	}
	f.fill(msg.product)
	return m, f.syncFocus()
}

func (m Model) handleProductSaved(msg productSavedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.log.Warn().Err(msg.err).Bool("created", msg.created).Msg("save product")
		if m.form != nil {
			m.form.saving = false
			m.form.err = errorText(msg.err)
			return m, nil
		}
		return m, m.setNotice("Failed to save product: "+errorText(msg.err), true)
	}

	text := "Product updated successfully!"
	if msg.created {
		text = "Product created successfully!"
	}
	m.log.Info().Str("id", msg.product.ID).Bool("created", msg.created).Msg("product saved")
	m = m.closeForm()
	notice := m.setNotice(text, false)
	return m, tea.Batch(notice, m.fetchListCmd(m.ctrl.Reload()))
}

func (m Model) renderForm(height int) string {
	f := m.form
	styles := m.theme.Styles()
	title := "Create New Product"
	if f.editing() {
		title = "Edit Product"
	}

	var b strings.Builder
	switch {
	case f.loading:
		b.WriteString(m.spinner.View() + " Loading product...")
	case f.failed:
		b.WriteString(styles.DangerText.Render(f.err))
		b.WriteString("\n\n")
		b.WriteString(styles.MutedText.Render("esc to return"))
	default:
		m.writeFormFields(&b, styles)
	}

	width := min(max(m.width-4, 40), 72)
	box := m.renderTitledBox(title, b.String(), width, min(height, lipgloss.Height(b.String())+2), true)
	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) writeFormFields(b *strings.Builder, styles Styles) {
	f := m.form
	labelStyle := styles.MutedText.Width(20)
	for _, field := range f.fields() {
		label := fieldLabels[field]
		if field == f.focus {
			label = styles.AccentText.Render("› " + label)
		} else {
			label = "  " + label
		}
		b.WriteString(labelStyle.Render(label))

		switch field {
		case fieldActive:
			b.WriteString(checkbox(f.active))
		case fieldPlace:
			b.WriteString(choice(catalog.SellingPlaces, f.place))
		case fieldRemovePicture:
			b.WriteString(checkbox(f.removePicture))
			b.WriteString(styles.FaintText.Render(fmt.Sprintf("  current: %s", catalog.Product{Picture: f.picture}.PictureLabel())))
		default:
			b.WriteString(f.inputs[field].View())
		}
		b.WriteString("\n")
		if msg := f.errs[field]; msg != "" {
			b.WriteString(strings.Repeat(" ", 20))
			b.WriteString(styles.DangerText.Render(msg))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	switch {
	case f.saving:
		b.WriteString(m.spinner.View() + " Saving...")
	case f.err != "":
		b.WriteString(styles.DangerText.Render("Error: " + f.err))
	default:
		b.WriteString(styles.FaintText.Render("ctrl+s save · tab next field · space toggle · esc cancel"))
	}
}

func checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}

func choice(options []catalog.SellingPlace, current catalog.SellingPlace) string {
	parts := make([]string, 0, len(options))
	for _, o := range options {
		if o == current {
			parts = append(parts, "("+o.Label()+")")
		} else {
			parts = append(parts, " "+o.Label()+" ")
		}
	}
	return strings.Join(parts, " ")
}
