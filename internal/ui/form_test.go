package ui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/five82/stoq/internal/catalog"
	"github.com/five82/stoq/internal/listctl"
)

func fillForm(m Model, values map[formField]string) {
	for field, v := range values {
		m.form.inputs[field].SetValue(v)
	}
}

func TestForm_InvalidCreateKeepsFormOpen(t *testing.T) {
	api := seededAPI()
	m := newTestModel(t, api, Options{})
	m = drain(t, m, m.Init())

	m, _ = press(t, m, "n")
	if m.CurrentView() != ViewForm || m.form.editing() {
		t.Fatalf("n did not open the create form")
	}
	fillForm(m, map[formField]string{fieldName: "  ", fieldEAN: "12345", fieldPrice: "-1"})

	m, cmd := press(t, m, "ctrl+s")
	if cmd != nil {
		t.Fatalf("invalid form issued a save")
	}
	for _, field := range []formField{fieldName, fieldEAN, fieldPrice} {
		if m.form.errs[field] == "" {
			t.Errorf("no error recorded for %s", fieldLabels[field])
		}
	}
	if api.store.Len() != 30 || m.CurrentView() != ViewForm {
		t.Fatalf("store len %d view %v", api.store.Len(), m.CurrentView())
	}
	if !strings.Contains(m.View(), m.form.errs[fieldEAN]) {
		t.Fatalf("view missing EAN error")
	}
}

func TestForm_CreateSavesAndReloads(t *testing.T) {
	api := seededAPI()
	m := newTestModel(t, api, Options{})
	m = drain(t, m, m.Init())

	png := filepath.Join(t.TempDir(), "sleeve.png")
	if err := os.WriteFile(png, []byte("\x89PNG\r\n\x1a\n"), 0o644); err != nil {
		t.Fatalf("write picture: %v", err)
	}

	m, _ = press(t, m, "n")
	fillForm(m, map[formField]string{
		fieldName:    "Laptop Sleeve",
		fieldEAN:     "5550001112223",
		fieldPrice:   "24.50",
		fieldPicture: png,
	})
	m.form.focus = fieldPlace
	m, _ = press(t, m, "space")
	if m.form.place != catalog.SellingPlaceEvent {
		t.Fatalf("place = %q, want event", m.form.place)
	}

	m, cmd := press(t, m, "ctrl+s")
	m = drain(t, m, cmd)

	if m.CurrentView() != ViewList || m.form != nil {
		t.Fatalf("form still open after save")
	}
	if m.notice != "Product created successfully!" || m.noticeErr {
		t.Fatalf("notice = %q", m.notice)
	}
	if st := m.Controller().State(); st.Total != 31 || st.Status != listctl.StatusIdle {
		t.Fatalf("list not reloaded: total %d status %v", st.Total, st.Status)
	}
	items, _ := api.store.List(4, 10, "")
	if len(items) != 1 || items[0].SellingPlace != catalog.SellingPlaceEvent || len(items[0].Picture) != 8 {
		t.Fatalf("stored product = %+v", items)
	}
}

func TestForm_EditLoadsAndUpdates(t *testing.T) {
	api := seededAPI()
	m := newTestModel(t, api, Options{})
	m = drain(t, m, m.Init())

	m, cmd := press(t, m, "e")
	if m.CurrentView() != ViewForm || !m.form.loading {
		t.Fatalf("e did not open a loading edit form")
	}
	m = drain(t, m, cmd)
	if m.form.loading || m.form.value(fieldName) != "Wireless Bluetooth Headphones" {
		t.Fatalf("form not filled: %q", m.form.value(fieldName))
	}
	if m.form.value(fieldPrice) != "79.99" {
		t.Fatalf("price = %q", m.form.value(fieldPrice))
	}

	id := m.form.id
	fillForm(m, map[formField]string{fieldPrice: "69.99"})
	m, cmd = press(t, m, "ctrl+s")
	m = drain(t, m, cmd)

	if m.notice != "Product updated successfully!" {
		t.Fatalf("notice = %q", m.notice)
	}
	got, _ := api.store.Get(id)
	if got.Price != 69.99 || got.Name != "Wireless Bluetooth Headphones" {
		t.Fatalf("stored product = %+v", got)
	}
	if m.Controller().State().Items[0].Price != 69.99 {
		t.Fatalf("list not refreshed after update")
	}
}

func TestForm_EditOfMissingProductShowsError(t *testing.T) {
	m := newTestModel(t, seededAPI(), Options{})
	m = drain(t, m, m.Init())

	updated, cmd := m.openEditForm("00000000-0000-0000-0000-000000000001")
	m = drain(t, updated.(Model), cmd)

	if !m.form.failed || m.form.err != "Failed to load product: Product not found" {
		t.Fatalf("form err = %q failed %v", m.form.err, m.form.failed)
	}
	m, cmd = press(t, m, "ctrl+s")
	if cmd != nil {
		t.Fatalf("failed form accepted submit")
	}
	m, _ = press(t, m, "esc")
	if m.CurrentView() != ViewList {
		t.Fatalf("esc did not close the form")
	}
}

func TestForm_RemovePictureOnlyWhenEditingWithPicture(t *testing.T) {
	f := newProductForm("")
	for _, field := range f.fields() {
		if field == fieldRemovePicture {
			t.Fatalf("create form offers picture removal")
		}
	}

	f = newProductForm("6f1c1f9e-8d6f-4a43-9d53-0c7c6f0f2a11")
	f.fill(catalog.Product{Name: "Hub", Picture: []byte{1}})
	fields := f.fields()
	if fields[len(fields)-1] != fieldRemovePicture {
		t.Fatalf("edit form missing picture removal: %v", fields)
	}

	f.focus = fieldRemovePicture
	f.toggle()
	in, _ := f.validate()
	u := f.updateInput(in)
	if !u.RemovePicture || u.Picture != nil {
		t.Fatalf("update = %+v, want picture removal", u)
	}
}
