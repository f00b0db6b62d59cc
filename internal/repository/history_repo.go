package repository

import (
	"context"
	"errors"

	"stocktrack/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HistoryRepository is the data access contract for the mutation ledger.
// Ordering is always by the seq column — timestamps are for display.
type HistoryRepository interface {
	// LatestByUser returns the newest entry for a user, or (nil, nil)
	// when the user's ledger is empty.
	LatestByUser(ctx context.Context, username string) (*model.HistoryEntry, error)
	// ListByGroup returns all entries sharing a bulk group id, oldest first.
	ListByGroup(ctx context.Context, groupID uuid.UUID) ([]model.HistoryEntry, error)
	// ListByUser returns a user's entries newest first.
	ListByUser(ctx context.Context, username string) ([]model.HistoryEntry, int64, error)

	CreateTx(tx *gorm.DB, e *model.HistoryEntry) error
	CountByUserTx(tx *gorm.DB, username string) (int64, error)
	// OldestByUserTx returns up to limit entries for a user, oldest first.
	OldestByUserTx(tx *gorm.DB, username string, limit int) ([]model.HistoryEntry, error)
	// DeleteByIDsTx removes entries by id. Absent ids are skipped — the
	// delete is idempotent.
	DeleteByIDsTx(tx *gorm.DB, ids []uuid.UUID) error

	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type historyRepo struct{ db *gorm.DB }

func NewHistoryRepository(db *gorm.DB) HistoryRepository { return &historyRepo{db: db} }

func (r *historyRepo) LatestByUser(ctx context.Context, username string) (*model.HistoryEntry, error) {
	var e model.HistoryEntry
	err := r.db.WithContext(ctx).
		Where("username = ?", username).
		Order("seq DESC").
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *historyRepo) ListByGroup(ctx context.Context, groupID uuid.UUID) ([]model.HistoryEntry, error) {
	var entries []model.HistoryEntry
	err := r.db.WithContext(ctx).
		Where("bulk_group_id = ?", groupID).
		Order("seq ASC").
		Find(&entries).Error
	return entries, err
}

func (r *historyRepo) ListByUser(ctx context.Context, username string) ([]model.HistoryEntry, int64, error) {
	var entries []model.HistoryEntry
	var total int64

	q := r.db.WithContext(ctx).Model(&model.HistoryEntry{}).Where("username = ?", username)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("seq DESC").Find(&entries).Error
	return entries, total, err
}

func (r *historyRepo) CreateTx(tx *gorm.DB, e *model.HistoryEntry) error {
	return tx.Create(e).Error
}

func (r *historyRepo) CountByUserTx(tx *gorm.DB, username string) (int64, error) {
	var count int64
	err := tx.Model(&model.HistoryEntry{}).Where("username = ?", username).Count(&count).Error
	return count, err
}

func (r *historyRepo) OldestByUserTx(tx *gorm.DB, username string, limit int) ([]model.HistoryEntry, error) {
	var entries []model.HistoryEntry
	err := tx.Where("username = ?", username).
		Order("seq ASC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

func (r *historyRepo) DeleteByIDsTx(tx *gorm.DB, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return tx.Where("id IN ?", ids).Delete(&model.HistoryEntry{}).Error
}

func (r *historyRepo) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}
