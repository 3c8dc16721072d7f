package store

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"vendas-backend/internal/core"
)

// MemoryProducts is an in-memory product store used by tests and local
// runs without a database. Ids are real ObjectIDs so id-format behavior
// matches the Mongo-backed store.
type MemoryProducts struct {
	mu sync.RWMutex
	m  map[string]core.Product
}

// NewMemoryProducts instantiates an empty in-memory product store.
func NewMemoryProducts() *MemoryProducts {
	return &MemoryProducts{m: map[string]core.Product{}}
}

func (s *MemoryProducts) Insert(ctx context.Context, p *core.Product) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = primitive.NewObjectID()
	s.m[p.ID.Hex()] = *p
	return p.ID.Hex(), nil
}

func (s *MemoryProducts) FindByID(ctx context.Context, id string) (*core.Product, error) {
	if _, err := parseID(id); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.m[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &p, nil
}

func (s *MemoryProducts) List(ctx context.Context) ([]core.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]core.Product, 0, len(s.m))
	for _, p := range s.m {
		products = append(products, p)
	}
	return products, nil
}

func (s *MemoryProducts) Update(ctx context.Context, id string, patch core.ProductPatch) (*core.Product, error) {
	if _, err := parseID(id); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.m[id]
	if !ok {
		return nil, core.ErrNotFound
	}

	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}

	s.m[id] = p
	return &p, nil
}

func (s *MemoryProducts) Delete(ctx context.Context, id string) error {
	if _, err := parseID(id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.m[id]; !ok {
		return core.ErrNotFound
	}
	delete(s.m, id)
	return nil
}

func (s *MemoryProducts) Exists(ctx context.Context, id string) (bool, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return false, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.m[id]
	return ok, nil
}

// MemorySales is an in-memory sale store. InsertErr, when set, makes the
// bulk write fail so tests can exercise the importer's storage-fault
// path.
type MemorySales struct {
	mu        sync.Mutex
	committed []core.Sale

	InsertErr error
}

// NewMemorySales instantiates an empty in-memory sale store.
func NewMemorySales() *MemorySales {
	return &MemorySales{}
}

func (s *MemorySales) InsertMany(ctx context.Context, sales []core.Sale) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.InsertErr != nil {
		return s.InsertErr
	}
	s.committed = append(s.committed, sales...)
	return nil
}

// Committed returns every sale persisted so far.
func (s *MemorySales) Committed() []core.Sale {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.Sale, len(s.committed))
	copy(out, s.committed)
	return out
}

// MemoryUsers is an in-memory login account store.
type MemoryUsers struct {
	mu sync.RWMutex
	m  map[string]core.User
}

// NewMemoryUsers instantiates an empty in-memory user store.
func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{m: map[string]core.User{}}
}

// Add registers an account.
func (s *MemoryUsers) Add(username, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.m[username] = core.User{Username: username, Password: password}
}

func (s *MemoryUsers) FindByUsername(ctx context.Context, username string) (*core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.m[username]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &u, nil
}
