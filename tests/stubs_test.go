package tests

import (
	"context"
	"sort"
	"strings"
	"time"

	"stocktrack/internal/dto"
	"stocktrack/internal/model"
	"stocktrack/internal/repository"
	"stocktrack/internal/service"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── In-memory ProductRepository stub ─────────────────────────────────────────

type stubProductRepo struct {
	products map[string]*model.Product // keyed by external id
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[string]*model.Product)}
}

func (r *stubProductRepo) FindByExternalID(_ context.Context, externalID string) (*model.Product, error) {
	return r.find(externalID)
}

func (r *stubProductRepo) find(externalID string) (*model.Product, error) {
	p, ok := r.products[externalID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductRepo) List(_ context.Context, filter dto.ProductFilter) ([]model.Product, int64, error) {
	var result []model.Product
	for _, p := range r.products {
		if filter.Query != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Query)) {
			continue
		}
		result = append(result, *p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, int64(len(result)), nil
}

func (r *stubProductRepo) CreateTx(_ *gorm.DB, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if _, exists := r.products[p.ExternalID]; exists {
		return gorm.ErrDuplicatedKey
	}
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	r.products[p.ExternalID] = p
	return nil
}

func (r *stubProductRepo) FindByExternalIDTx(_ *gorm.DB, externalID string) (*model.Product, error) {
	return r.find(externalID)
}

func (r *stubProductRepo) UpdateTx(_ *gorm.DB, p *model.Product) error {
	// Re-key in case the external id changed (rename)
	for k, v := range r.products {
		if v.ID == p.ID {
			delete(r.products, k)
		}
	}
	p.UpdatedAt = time.Now()
	r.products[p.ExternalID] = p
	return nil
}

func (r *stubProductRepo) DeleteByExternalIDTx(_ *gorm.DB, externalID string) error {
	delete(r.products, externalID)
	return nil
}

func (r *stubProductRepo) AddQuantityTx(_ *gorm.DB, externalID string, delta int) error {
	p, ok := r.products[externalID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Quantity += delta
	return nil
}

func (r *stubProductRepo) Transaction(_ context.Context, fn func(tx *gorm.DB) error) error {
	// In-memory stub — writes apply directly, no rollback
	return fn(nil)
}

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// ── In-memory HistoryRepository stub ─────────────────────────────────────────

type stubHistoryRepo struct {
	entries map[uuid.UUID]*model.HistoryEntry
	seq     int64
}

func newStubHistoryRepo() *stubHistoryRepo {
	return &stubHistoryRepo{entries: make(map[uuid.UUID]*model.HistoryEntry)}
}

func (r *stubHistoryRepo) byUser(username string) []model.HistoryEntry {
	var result []model.HistoryEntry
	for _, e := range r.entries {
		if e.Username == username {
			result = append(result, *e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Seq < result[j].Seq })
	return result
}

func (r *stubHistoryRepo) LatestByUser(_ context.Context, username string) (*model.HistoryEntry, error) {
	all := r.byUser(username)
	if len(all) == 0 {
		return nil, nil
	}
	latest := all[len(all)-1]
	return &latest, nil
}

func (r *stubHistoryRepo) ListByGroup(_ context.Context, groupID uuid.UUID) ([]model.HistoryEntry, error) {
	var result []model.HistoryEntry
	for _, e := range r.entries {
		if e.BulkGroupID != nil && *e.BulkGroupID == groupID {
			result = append(result, *e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Seq < result[j].Seq })
	return result, nil
}

func (r *stubHistoryRepo) ListByUser(_ context.Context, username string) ([]model.HistoryEntry, int64, error) {
	all := r.byUser(username)
	// newest first
	sort.Slice(all, func(i, j int) bool { return all[i].Seq > all[j].Seq })
	return all, int64(len(all)), nil
}

func (r *stubHistoryRepo) CreateTx(_ *gorm.DB, e *model.HistoryEntry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	r.seq++
	e.Seq = r.seq
	e.CreatedAt = time.Now()
	r.entries[e.ID] = e
	return nil
}

func (r *stubHistoryRepo) CountByUserTx(_ *gorm.DB, username string) (int64, error) {
	return int64(len(r.byUser(username))), nil
}

func (r *stubHistoryRepo) OldestByUserTx(_ *gorm.DB, username string, limit int) ([]model.HistoryEntry, error) {
	all := r.byUser(username)
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *stubHistoryRepo) DeleteByIDsTx(_ *gorm.DB, ids []uuid.UUID) error {
	for _, id := range ids {
		delete(r.entries, id) // absent ids are a no-op
	}
	return nil
}

func (r *stubHistoryRepo) Transaction(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

var _ repository.HistoryRepository = (*stubHistoryRepo)(nil)

// ── In-memory UserRepository stub ────────────────────────────────────────────

type stubUserRepo struct {
	users map[string]*model.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*model.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	if _, exists := r.users[u.Username]; exists {
		return gorm.ErrDuplicatedKey
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.Username] = u
	return nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	u, ok := r.users[username]
	if !ok || !u.Active {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

// ── Helpers ───────────────────────────────────────────────────────────────────

// stack bundles the services under test over shared in-memory repos.
type stack struct {
	products *stubProductRepo
	history  *stubHistoryRepo
	ledger   service.LedgerService
	catalog  service.CatalogService
	undo     service.UndoService
	importer service.ImportService
}

func newStack() *stack {
	products := newStubProductRepo()
	history := newStubHistoryRepo()
	ledger := service.NewLedgerService(history, 10)
	return &stack{
		products: products,
		history:  history,
		ledger:   ledger,
		catalog:  service.NewCatalogService(products, ledger, nil),
		undo:     service.NewUndoService(products, history, ledger, nil),
		importer: service.NewImportService(products, ledger, nil),
	}
}

// seedProduct inserts a product directly, without recording history.
func seedProduct(repo *stubProductRepo, name, externalID string, qty int, location string) *model.Product {
	p := &model.Product{
		ID:         uuid.New(),
		Name:       name,
		ExternalID: externalID,
		Quantity:   qty,
		Location:   location,
	}
	repo.products[p.ExternalID] = p
	return p
}

func addRequest(name, externalID string, qty int, location string) dto.AddProductRequest {
	return dto.AddProductRequest{
		Name:       name,
		ExternalID: externalID,
		Quantity:   qty,
		Location:   location,
	}
}
