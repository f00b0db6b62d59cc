package repository

import (
	"context"

	"stocktrack/internal/dto"
	"stocktrack/internal/model"

	"gorm.io/gorm"
)

// ProductRepository defines the data access contract for the catalog.
// Services depend on this interface, not on the concrete GORM
// implementation, enabling clean unit testing via in-memory stubs.
//
// Catalog writes always happen together with a ledger write, so every
// write method takes the *gorm.DB handle produced by Transaction.
type ProductRepository interface {
	FindByExternalID(ctx context.Context, externalID string) (*model.Product, error)
	List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error)

	CreateTx(tx *gorm.DB, p *model.Product) error
	FindByExternalIDTx(tx *gorm.DB, externalID string) (*model.Product, error)
	UpdateTx(tx *gorm.DB, p *model.Product) error
	DeleteByExternalIDTx(tx *gorm.DB, externalID string) error
	AddQuantityTx(tx *gorm.DB, externalID string, delta int) error

	// Transaction runs fn atomically. A non-nil error from fn rolls back
	// every write made through the passed handle.
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) FindByExternalID(ctx context.Context, externalID string) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Where("external_id = ?", externalID).First(&p).Error
	return &p, err
}

func (r *productRepo) List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Product{})
	if filter.Query != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Query+"%")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 200 {
		filter.Limit = 50
	}
	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("name ASC").Limit(filter.Limit).Offset(offset).Find(&products).Error
	return products, total, err
}

func (r *productRepo) CreateTx(tx *gorm.DB, p *model.Product) error {
	return tx.Create(p).Error
}

func (r *productRepo) FindByExternalIDTx(tx *gorm.DB, externalID string) (*model.Product, error) {
	var p model.Product
	err := tx.Where("external_id = ?", externalID).First(&p).Error
	return &p, err
}

func (r *productRepo) UpdateTx(tx *gorm.DB, p *model.Product) error {
	return tx.Save(p).Error
}

func (r *productRepo) DeleteByExternalIDTx(tx *gorm.DB, externalID string) error {
	return tx.Where("external_id = ?", externalID).Delete(&model.Product{}).Error
}

func (r *productRepo) AddQuantityTx(tx *gorm.DB, externalID string, delta int) error {
	return tx.Model(&model.Product{}).Where("external_id = ?", externalID).
		Update("quantity", gorm.Expr("quantity + ?", delta)).Error
}

func (r *productRepo) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}
