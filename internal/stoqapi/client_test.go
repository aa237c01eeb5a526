package stoqapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/stoq/internal/catalog"
	"github.com/five82/stoq/internal/demoapi"
	"github.com/five82/stoq/internal/listctl"
)

func demoServer(t *testing.T) (*demoapi.Store, *Client) {
	t.Helper()
	store := demoapi.NewStore()
	store.Load(demoapi.Seed())
	server := httptest.NewServer(demoapi.NewRouter(store, demoapi.Options{Logger: zerolog.Nop()}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, WithTimeout(2*time.Second))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	return store, c
}

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.String() != DefaultAPIURL {
		t.Fatalf("url = %q, want %q", u.String(), DefaultAPIURL)
	}

	u, err = parseBaseURL("example.com:1234/path?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" || u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}

	if _, err := parseBaseURL("http://"); err == nil {
		t.Fatalf("parseBaseURL accepted a URL without host")
	}
}

func TestClient_ListEncodesQuery(t *testing.T) {
	t.Parallel()

	var got url.Values
	var gotUserAgent, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		gotUserAgent = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[],"total":0,"page":3,"size":50}`))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if _, err := c.ListProducts(context.Background(), ListQuery{Page: 3, Size: 50, Name: "  lamp "}); err != nil {
		t.Fatalf("ListProducts returned error: %v", err)
	}
	if got.Get("page") != "3" || got.Get("size") != "50" || got.Get("name") != "lamp" {
		t.Fatalf("query = %v, want page=3 size=50 name=lamp", got)
	}
	if !strings.HasPrefix(gotUserAgent, "stoq/") || gotAccept != "application/json" {
		t.Fatalf("headers = UA %q Accept %q", gotUserAgent, gotAccept)
	}

	if _, err := c.ListProducts(context.Background(), ListQuery{Page: 1, Size: 20, Name: "   "}); err != nil {
		t.Fatalf("ListProducts returned error: %v", err)
	}
	if _, present := got["name"]; present {
		t.Fatalf("blank name was sent: %v", got)
	}
}

func TestClient_AgainstDemoServer(t *testing.T) {
	store, c := demoServer(t)
	ctx := context.Background()

	page, err := c.ListProducts(ctx, ListQuery{Page: 2, Size: 10, Name: "wireless"})
	if err != nil {
		t.Fatalf("ListProducts returned error: %v", err)
	}
	if page.Total != 3 || len(page.Items) != 0 {
		t.Fatalf("page = total %d items %d, want 3 and 0", page.Total, len(page.Items))
	}

	created, err := c.CreateProduct(ctx, catalog.CreateInput{
		Name:         "Laptop Sleeve",
		EAN:          "5550001112223",
		Price:        24.5,
		Description:  "Neoprene sleeve",
		Active:       true,
		SellingPlace: catalog.SellingPlaceEvent,
		Picture:      []byte("\x89PNG\r\n\x1a\n"),
	})
	if err != nil {
		t.Fatalf("CreateProduct returned error: %v", err)
	}
	if created.ID == "" || store.Len() != 31 || len(created.Picture) != 8 {
		t.Fatalf("created = %+v", created)
	}

	got, err := c.GetProduct(ctx, created.ID)
	if err != nil || got.Name != "Laptop Sleeve" {
		t.Fatalf("GetProduct = %+v, %v", got, err)
	}

	name := "Laptop Sleeve 15\""
	updated, err := c.UpdateProduct(ctx, created.ID, catalog.UpdateInput{Name: &name, RemovePicture: true})
	if err != nil {
		t.Fatalf("UpdateProduct returned error: %v", err)
	}
	if updated.Name != name || updated.Picture != nil || updated.Price != 24.5 {
		t.Fatalf("updated = %+v", updated)
	}
}

func TestClient_ErrorsCarryServerDetail(t *testing.T) {
	_, c := demoServer(t)
	ctx := context.Background()

	_, err := c.CreateProduct(ctx, catalog.CreateInput{Name: "Bad", EAN: "12", SellingPlace: catalog.SellingPlaceStore})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("CreateProduct error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusUnprocessableEntity || !IsValidation(err) {
		t.Fatalf("status = %d, want 422", apiErr.StatusCode)
	}
	if !strings.Contains(err.Error(), "ean: EAN must be exactly 13 digits") {
		t.Fatalf("error = %q, want field detail", err.Error())
	}
	if !strings.HasPrefix(err.Error(), "create product: ") {
		t.Fatalf("error = %q, want create product prefix", err.Error())
	}

	_, err = c.GetProduct(ctx, "00000000-0000-0000-0000-000000000001")
	if !IsNotFound(err) || !strings.Contains(err.Error(), "Product not found") {
		t.Fatalf("GetProduct error = %v, want 404 with detail", err)
	}
}

func TestClient_RejectsInvalidIDWithoutRequest(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	t.Cleanup(server.Close)
	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if _, err := c.GetProduct(context.Background(), "42"); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("GetProduct error = %v, want ErrInvalidID", err)
	}
	if _, err := c.UpdateProduct(context.Background(), "../etc", catalog.UpdateInput{}); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("UpdateProduct error = %v, want ErrInvalidID", err)
	}
	if hits.Load() != 0 {
		t.Fatalf("server was called %d times", hits.Load())
	}
}

func TestClient_UpdateWithEmptyBodyRefetches(t *testing.T) {
	const id = "6f1c1f9e-8d6f-4a43-9d53-0c7c6f0f2a11"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodPut:
			_, _ = w.Write([]byte("null"))
		case http.MethodGet:
			_, _ = w.Write([]byte(`{"id":"` + id + `","name":"Fetched"}`))
		}
	}))
	t.Cleanup(server.Close)
	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	active := false
	p, err := c.UpdateProduct(context.Background(), id, catalog.UpdateInput{Active: &active})
	if err != nil || p.Name != "Fetched" {
		t.Fatalf("UpdateProduct = %+v, %v", p, err)
	}
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "warming up", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"items":[],"total":7,"page":1,"size":20}`))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, WithRetryMax(2))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	resp, err := c.ListProducts(context.Background(), ListQuery{Page: 1, Size: 20})
	if err != nil || resp.Total != 7 {
		t.Fatalf("ListProducts = %+v, %v", resp, err)
	}
	if calls.Load() != 2 {
		t.Fatalf("calls = %d, want 2", calls.Load())
	}
}

func TestClient_NoRetryByDefault(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.ListProducts(context.Background(), ListQuery{Page: 1, Size: 20})
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusInternalServerError || apiErr.Body != "boom" {
		t.Fatalf("error = %#v, want 500 APIError with body", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("calls = %d, want 1", calls.Load())
	}
}

func TestClient_DecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{not-json"))
	}))
	t.Cleanup(server.Close)
	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.ListProducts(context.Background(), ListQuery{})
	if err == nil || !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("error = %v, want decode response error", err)
	}
}

func TestProductSource_DrivesController(t *testing.T) {
	_, c := demoServer(t)
	src := ProductSource{API: c}
	ctrl := listctl.New[catalog.Product](listctl.WithPage(4), listctl.WithSize(10))

	ctx := context.Background()
	for req, ok := ctrl.Start(); ok; req, ok = ctrl.Apply(listctl.Run(ctx, req, src)) {
	}
	st := ctrl.State()
	if st.Page != 3 || st.Total != 30 || len(st.Items) != 10 {
		t.Fatalf("state = page %d total %d items %d", st.Page, st.Total, len(st.Items))
	}

	req, _ := ctrl.SubmitFilter("stand")
	ctrl.Apply(listctl.Run(ctx, req, src))
	st = ctrl.State()
	if st.Total != 2 || st.Page != 1 || !ctrl.Window().Suppressed() {
		t.Fatalf("filtered state = %+v", st)
	}
}

func TestAPIError_Detail(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`{"detail":"Product not found"}`, "Product not found"},
		{`{"detail":[{"loc":["body","ean"],"msg":"bad"},{"loc":["query",0],"msg":"worse"}]}`, "ean: bad; worse"},
		{"plain text", "plain text"},
		{"", ""},
	}
	for _, tt := range tests {
		e := &APIError{Method: "GET", Path: "/x", StatusCode: 400, Body: tt.body}
		if got := e.Detail(); got != tt.want {
			t.Fatalf("Detail(%q) = %q, want %q", tt.body, got, tt.want)
		}
	}
	if got := (&APIError{Method: "GET", Path: "/x", StatusCode: 502}).Error(); got != "api GET /x returned status 502" {
		t.Fatalf("Error() = %q", got)
	}
}
