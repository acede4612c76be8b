package service

// Shared test doubles. Every stub keeps its state in plain maps/slices and
// returns nil from DB() so runTx executes the callback directly.

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storely/internal/dto"
	"storely/internal/model"
	"storely/internal/repository"
)

// ── Product repository ──

type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
}

func newStubProductRepo(products ...*model.Product) *stubProductRepo {
	m := make(map[uuid.UUID]*model.Product, len(products))
	for _, p := range products {
		m[p.ID] = p
	}
	return &stubProductRepo{products: m}
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductRepo) List(_ context.Context, _ dto.ProductFilter) ([]model.Product, int64, error) {
	out := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) ListAll(_ context.Context) ([]model.Product, error) {
	out := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Active = active
	return nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

// ── Order repository ──

type stubOrderRepo struct {
	orders map[uuid.UUID]*model.Order
}

func newStubOrderRepo(orders ...*model.Order) *stubOrderRepo {
	m := make(map[uuid.UUID]*model.Order, len(orders))
	for _, o := range orders {
		m[o.ID] = o
	}
	return &stubOrderRepo{orders: m}
}

func (r *stubOrderRepo) Create(_ context.Context, _ *gorm.DB, o *model.Order) error {
	r.orders[o.ID] = o
	return nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return o, nil
}

func (r *stubOrderRepo) List(_ context.Context, _ dto.OrderFilter) ([]model.Order, int64, error) {
	out := make([]model.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (r *stubOrderRepo) ListSince(_ context.Context, since time.Time) ([]model.Order, error) {
	var out []model.Order
	for _, o := range r.orders {
		if !o.CreatedAt.Before(since) {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *stubOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	o, ok := r.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.Status = status
	return nil
}

func (r *stubOrderRepo) DB() *gorm.DB { return nil }

// ── Cart store ──

type stubCartStore struct {
	carts   map[uuid.UUID][]repository.CartLine
	cleared int
}

func newStubCartStore() *stubCartStore {
	return &stubCartStore{carts: make(map[uuid.UUID][]repository.CartLine)}
}

func (s *stubCartStore) Get(_ context.Context, userID uuid.UUID) ([]repository.CartLine, error) {
	return s.carts[userID], nil
}

func (s *stubCartStore) Set(_ context.Context, userID uuid.UUID, lines []repository.CartLine) error {
	s.carts[userID] = lines
	return nil
}

func (s *stubCartStore) Clear(_ context.Context, userID uuid.UUID) error {
	delete(s.carts, userID)
	s.cleared++
	return nil
}

// ── Sale ledger ──

type stubLedger struct {
	sales   []model.Sale
	listErr error
}

func (l *stubLedger) Append(_ context.Context, s *model.Sale) error {
	l.sales = append(l.sales, *s)
	return nil
}

func (l *stubLedger) List(_ context.Context) ([]model.Sale, error) {
	if l.listErr != nil {
		return nil, l.listErr
	}
	return l.sales, nil
}
