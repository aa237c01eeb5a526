package demoapi

import (
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/five82/stoq/internal/catalog"
)

// Store is an in-memory product table. Insertion order is the list order.
type Store struct {
	mu    sync.RWMutex
	items []catalog.Product
	index map[string]int
	now   func() time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{index: map[string]int{}, now: time.Now}
}

// Load inserts every input; it is how the sample catalog is seeded.
func (s *Store) Load(inputs []catalog.CreateInput) {
	for _, in := range inputs {
		s.Create(in)
	}
}

// Len returns the number of stored products.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// List returns one page of products whose name contains name, ignoring case,
// along with the total number of matches.
func (s *Store) List(page, size int, name string) ([]catalog.Product, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(name)
	matches := make([]catalog.Product, 0, len(s.items))
	for _, p := range s.items {
		if needle == "" || strings.Contains(strings.ToLower(p.Name), needle) {
			matches = append(matches, p)
		}
	}
	total := len(matches)
	start := (page - 1) * size
	if start >= total {
		return []catalog.Product{}, total
	}
	end := min(total, start+size)
	return cloneProducts(matches[start:end]), total
}

// Get returns the product with id.
func (s *Store) Get(id string) (catalog.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return catalog.Product{}, false
	}
	return cloneProduct(s.items[i]), true
}

// Create stores a new product with a fresh id and timestamp.
func (s *Store) Create(in catalog.CreateInput) catalog.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := catalog.Product{
		ID:           uuid.NewString(),
		Name:         in.Name,
		EAN:          in.EAN,
		InsertedAt:   s.now().UTC().Format(time.RFC3339Nano),
		Price:        in.Price,
		Description:  in.Description,
		Active:       in.Active,
		SellingPlace: in.SellingPlace,
		Picture:      slices.Clone(in.Picture),
	}
	s.index[p.ID] = len(s.items)
	s.items = append(s.items, p)
	return cloneProduct(p)
}

// Update applies a partial update and returns the result.
func (s *Store) Update(id string, in catalog.UpdateInput) (catalog.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[id]
	if !ok {
		return catalog.Product{}, false
	}
	s.items[i] = in.Apply(s.items[i])
	s.items[i].Picture = slices.Clone(s.items[i].Picture)
	return cloneProduct(s.items[i]), true
}

func cloneProduct(p catalog.Product) catalog.Product {
	p.Picture = slices.Clone(p.Picture)
	return p
}

func cloneProducts(items []catalog.Product) []catalog.Product {
	dup := make([]catalog.Product, len(items))
	for i, p := range items {
		dup[i] = cloneProduct(p)
	}
	return dup
}
