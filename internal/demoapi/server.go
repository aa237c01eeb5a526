package demoapi

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/five82/stoq/internal/catalog"
)

const (
	defaultPage = 1
	defaultSize = 20
)

// Options configures the demo router.
type Options struct {
	Logger zerolog.Logger
	// Latency, when positive, delays each API response by a random duration
	// between Latency/2 and Latency so that responses can overtake each other.
	Latency        time.Duration
	AllowedOrigins []string
}

type server struct {
	store *Store
	log   zerolog.Logger
}

// NewRouter serves the product API backed by store.
func NewRouter(store *Store, opts Options) http.Handler {
	s := &server{store: store, log: opts.Logger}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(requestLogger(opts.Logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]any{"status": "ok", "products": store.Len()})
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		if opts.Latency > 0 {
			r.Use(delay(opts.Latency))
		}
		r.Get("/", s.list)
		r.Post("/", s.create)
		r.Get("/{id}", s.get)
		r.Put("/{id}", s.update)
	})
	return r
}

func (s *server) list(w http.ResponseWriter, r *http.Request) {
	var problems []fieldError
	page, ok := queryInt(r, "page", defaultPage)
	if !ok {
		problems = append(problems, fieldError{Loc: []string{"query", "page"}, Msg: "Input should be a valid integer greater than or equal to 1", Type: "int_parsing"})
	}
	size, ok := queryInt(r, "size", defaultSize)
	if !ok {
		problems = append(problems, fieldError{Loc: []string{"query", "size"}, Msg: "Input should be a valid integer greater than or equal to 1", Type: "int_parsing"})
	}
	if len(problems) > 0 {
		respondJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": problems})
		return
	}

	items, total := s.store.List(page, size, strings.TrimSpace(r.URL.Query().Get("name")))
	respondJSON(w, http.StatusOK, catalog.ListResponse{Items: items, Total: total, Page: page, Size: size})
}

func (s *server) get(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}
	p, found := s.store.Get(id)
	if !found {
		respondDetail(w, http.StatusNotFound, "Product not found")
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (s *server) create(w http.ResponseWriter, r *http.Request) {
	var body catalog.UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondDetail(w, http.StatusUnprocessableEntity, "invalid JSON body: "+err.Error())
		return
	}
	problems := missingFields(body)
	problems = append(problems, fieldProblems(body)...)
	if len(problems) > 0 {
		respondJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": problems})
		return
	}
	in := catalog.CreateInput{
		Name:         *body.Name,
		EAN:          *body.EAN,
		Price:        *body.Price,
		Description:  *body.Description,
		Active:       *body.Active,
		SellingPlace: *body.SellingPlace,
		Picture:      body.Picture,
	}
	p := s.store.Create(in)
	s.log.Info().Str("id", p.ID).Str("name", p.Name).Msg("product created")
	respondJSON(w, http.StatusCreated, p)
}

func (s *server) update(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}
	var body catalog.UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondDetail(w, http.StatusUnprocessableEntity, "invalid JSON body: "+err.Error())
		return
	}
	if problems := fieldProblems(body); len(problems) > 0 {
		respondJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": problems})
		return
	}
	p, found := s.store.Update(id, body)
	if !found {
		respondDetail(w, http.StatusNotFound, "Product not found")
		return
	}
	s.log.Info().Str("id", p.ID).Msg("product updated")
	respondJSON(w, http.StatusOK, p)
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, addr string, h http.Handler, log zerolog.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", ln.Addr().String()).Msg("demo api listening")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		log.Info().Msg("demo api stopped")
		return err
	})
	return g.Wait()
}

type fieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

func missingFields(body catalog.UpdateInput) []fieldError {
	var out []fieldError
	required := []struct {
		name string
		set  bool
	}{
		{"name", body.Name != nil},
		{"ean", body.EAN != nil},
		{"price", body.Price != nil},
		{"description", body.Description != nil},
		{"active", body.Active != nil},
		{"selling_place", body.SellingPlace != nil},
	}
	for _, f := range required {
		if !f.set {
			out = append(out, fieldError{Loc: []string{"body", f.name}, Msg: "Field required", Type: "missing"})
		}
	}
	return out
}

func fieldProblems(body catalog.UpdateInput) []fieldError {
	var out []fieldError
	add := func(field string, err error) {
		if err != nil {
			out = append(out, fieldError{Loc: []string{"body", field}, Msg: err.Error(), Type: "value_error"})
		}
	}
	if body.Name != nil {
		add("name", catalog.ValidateName(*body.Name))
	}
	if body.EAN != nil {
		add("ean", catalog.ValidateEAN(*body.EAN))
	}
	if body.Price != nil {
		add("price", catalog.ValidatePrice(*body.Price))
	}
	if body.Description != nil {
		add("description", catalog.ValidateDescription(*body.Description))
	}
	if body.SellingPlace != nil {
		add("selling_place", catalog.ValidateSellingPlace(*body.SellingPlace))
	}
	add("picture", catalog.ValidatePicture(body.Picture))
	return out
}

func productID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": []fieldError{{
			Loc:  []string{"path", "product_id"},
			Msg:  "Input should be a valid UUID",
			Type: "uuid_parsing",
		}}})
		return "", false
	}
	return id.String(), true
}

func queryInt(r *http.Request, key string, fallback int) (int, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondDetail(w http.ResponseWriter, status int, detail string) {
	respondJSON(w, status, map[string]string{"detail": detail})
}

func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Debug().
				Str("request_id", chimw.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("elapsed", time.Since(start)).
				Msg("request")
		})
	}
}

func delay(limit time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wait := limit/2 + rand.N(limit/2+1)
			select {
			case <-time.After(wait):
			case <-r.Context().Done():
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
