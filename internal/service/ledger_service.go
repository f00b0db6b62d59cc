package service

import (
	"context"

	"stocktrack/internal/model"
	"stocktrack/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultRetention is the per-user history cap used when configuration
// does not override it.
const DefaultRetention = 10

// LedgerService is the append-only mutation ledger. Every catalog write
// records exactly one entry here (bulk imports one per created product),
// and every record is immediately followed by retention enforcement in
// the same transaction — the cap is never observable as exceeded.
type LedgerService interface {
	// RecordTx appends an entry holding the snapshot needed to reverse
	// the mutation, then prunes the user's oldest entries past the cap.
	// Runs entirely inside the caller's transaction.
	RecordTx(tx *gorm.DB, username, action string, snapshot model.Product, groupID *uuid.UUID) (*model.HistoryEntry, error)

	// Latest returns the user's newest entry, or nil when the ledger is
	// empty for that user.
	Latest(ctx context.Context, username string) (*model.HistoryEntry, error)

	// EntriesInGroup returns every entry tagged with a bulk group id,
	// oldest first. Retention pruning ignores groups, so this may return
	// fewer entries than the import originally created.
	EntriesInGroup(ctx context.Context, groupID uuid.UUID) ([]model.HistoryEntry, error)

	// ListForUser returns the user's entries newest first.
	ListForUser(ctx context.Context, username string) ([]model.HistoryEntry, int64, error)
}

type ledgerService struct {
	repo      repository.HistoryRepository
	retention int
}

func NewLedgerService(repo repository.HistoryRepository, retention int) LedgerService {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &ledgerService{repo: repo, retention: retention}
}

func (s *ledgerService) RecordTx(tx *gorm.DB, username, action string, snapshot model.Product, groupID *uuid.UUID) (*model.HistoryEntry, error) {
	e := &model.HistoryEntry{
		Username:           username,
		Action:             action,
		ProductName:        snapshot.Name,
		ProductExternalID:  snapshot.ExternalID,
		ProductDescription: snapshot.Description,
		ProductQuantity:    snapshot.Quantity,
		ProductLocation:    snapshot.Location,
		BulkGroupID:        groupID,
	}
	if err := s.repo.CreateTx(tx, e); err != nil {
		return nil, err
	}
	if err := s.enforceRetentionTx(tx, username); err != nil {
		return nil, err
	}
	return e, nil
}

// enforceRetentionTx deletes the oldest entries past the cap, strictly by
// ledger order and irrespective of bulk group membership — a group whose
// oldest entries fall past the cap is evicted partially.
func (s *ledgerService) enforceRetentionTx(tx *gorm.DB, username string) error {
	count, err := s.repo.CountByUserTx(tx, username)
	if err != nil {
		return err
	}
	excess := int(count) - s.retention
	if excess <= 0 {
		return nil
	}

	oldest, err := s.repo.OldestByUserTx(tx, username, excess)
	if err != nil {
		return err
	}
	ids := make([]uuid.UUID, len(oldest))
	for i, e := range oldest {
		ids[i] = e.ID
	}
	return s.repo.DeleteByIDsTx(tx, ids)
}

func (s *ledgerService) Latest(ctx context.Context, username string) (*model.HistoryEntry, error) {
	return s.repo.LatestByUser(ctx, username)
}

func (s *ledgerService) EntriesInGroup(ctx context.Context, groupID uuid.UUID) ([]model.HistoryEntry, error) {
	return s.repo.ListByGroup(ctx, groupID)
}

func (s *ledgerService) ListForUser(ctx context.Context, username string) ([]model.HistoryEntry, int64, error) {
	return s.repo.ListByUser(ctx, username)
}
