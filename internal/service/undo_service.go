package service

import (
	"context"
	"errors"
	"fmt"

	"stocktrack/internal/dto"
	"stocktrack/internal/model"
	"stocktrack/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// UndoService reverses the single most recent ledger entry for a user —
// or, when that entry belongs to a bulk import, the whole surviving
// group. There is no multi-step undo stack: once reversed, the entry is
// deleted and the next call works on the next-most-recent survivor.
type UndoService interface {
	Undo(ctx context.Context, username string) (*dto.UndoResponse, error)
}

// Undo runs through a small state machine. The states exist so failures
// are attributable: inspecting failures mean the ledger read went wrong
// (or was empty), reversing failures mean the inverse write did.
type undoState string

const (
	undoIdle       undoState = "idle"
	undoInspecting undoState = "inspecting"
	undoReversing  undoState = "reversing"
	undoDone       undoState = "done"
	undoFailed     undoState = "failed"
)

type undoOp struct {
	username string
	state    undoState
}

func (o *undoOp) to(next undoState) {
	log.Debug().
		Str("user", o.username).
		Str("from", string(o.state)).
		Str("to", string(next)).
		Msg("undo transition")
	o.state = next
}

type undoService struct {
	products repository.ProductRepository
	history  repository.HistoryRepository
	ledger   LedgerService
	rdb      *redis.Client
}

func NewUndoService(products repository.ProductRepository, history repository.HistoryRepository, ledger LedgerService, rdb *redis.Client) UndoService {
	return &undoService{products: products, history: history, ledger: ledger, rdb: rdb}
}

func (s *undoService) Undo(ctx context.Context, username string) (*dto.UndoResponse, error) {
	op := &undoOp{username: username, state: undoIdle}

	op.to(undoInspecting)
	entry, err := s.ledger.Latest(ctx, username)
	if err != nil {
		op.to(undoFailed)
		return nil, err
	}
	if entry == nil {
		op.to(undoFailed)
		return &dto.UndoResponse{Message: "Nothing to undo"}, nil
	}

	op.to(undoReversing)
	var resp *dto.UndoResponse
	switch entry.Action {
	case model.ActionAdd:
		if entry.BulkGroupID != nil {
			resp, err = s.undoBulkAdd(ctx, *entry.BulkGroupID)
		} else {
			resp, err = s.undoAdd(ctx, entry)
		}
	case model.ActionRemove:
		resp, err = s.undoRemove(ctx, entry)
	case model.ActionEdit:
		resp, err = s.undoEdit(ctx, entry)
	default:
		err = fmt.Errorf("ledger entry %s has unknown action %q", entry.ID, entry.Action)
	}
	if err != nil {
		op.to(undoFailed)
		return nil, err
	}

	op.to(undoDone)
	return resp, nil
}

// undoAdd deletes the product the entry created, then the entry itself.
func (s *undoService) undoAdd(ctx context.Context, entry *model.HistoryEntry) (*dto.UndoResponse, error) {
	err := s.products.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.products.DeleteByExternalIDTx(tx, entry.ProductExternalID); err != nil {
			return err
		}
		return s.history.DeleteByIDsTx(tx, []uuid.UUID{entry.ID})
	})
	if err != nil {
		return nil, err
	}

	invalidateProductCache(ctx, s.rdb, entry.ProductExternalID)
	return &dto.UndoResponse{
		Message:     fmt.Sprintf("Undid add of '%s'", entry.ProductName),
		Action:      model.ActionAdd,
		ExternalIDs: []string{entry.ProductExternalID},
	}, nil
}

// undoBulkAdd deletes every product whose creation is still recorded in
// the group, and all the group's entries, atomically. Entries already
// evicted by retention are gone — their products survive the undo.
func (s *undoService) undoBulkAdd(ctx context.Context, groupID uuid.UUID) (*dto.UndoResponse, error) {
	entries, err := s.ledger.EntriesInGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	externalIDs := make([]string, len(entries))
	entryIDs := make([]uuid.UUID, len(entries))
	for i, e := range entries {
		externalIDs[i] = e.ProductExternalID
		entryIDs[i] = e.ID
	}

	err = s.products.Transaction(ctx, func(tx *gorm.DB) error {
		for _, extID := range externalIDs {
			if err := s.products.DeleteByExternalIDTx(tx, extID); err != nil {
				return err
			}
		}
		return s.history.DeleteByIDsTx(tx, entryIDs)
	})
	if err != nil {
		return nil, err
	}

	invalidateProductCache(ctx, s.rdb, externalIDs...)
	return &dto.UndoResponse{
		Message:     fmt.Sprintf("Undid bulk import of %d products", len(entries)),
		Action:      model.ActionAdd,
		ExternalIDs: externalIDs,
	}, nil
}

// undoRemove re-creates the removed product from the snapshot. If the
// external id has since been taken by another product, recreation is
// skipped silently — uniqueness wins over restoration — but the entry is
// still consumed.
func (s *undoService) undoRemove(ctx context.Context, entry *model.HistoryEntry) (*dto.UndoResponse, error) {
	err := s.products.Transaction(ctx, func(tx *gorm.DB) error {
		_, err := s.products.FindByExternalIDTx(tx, entry.ProductExternalID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			p := &model.Product{
				Name:        entry.ProductName,
				ExternalID:  entry.ProductExternalID,
				Description: entry.ProductDescription,
				Quantity:    entry.ProductQuantity,
				Location:    entry.ProductLocation,
			}
			if err := s.products.CreateTx(tx, p); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
		return s.history.DeleteByIDsTx(tx, []uuid.UUID{entry.ID})
	})
	if err != nil {
		return nil, err
	}

	invalidateProductCache(ctx, s.rdb, entry.ProductExternalID)
	return &dto.UndoResponse{
		Message:     fmt.Sprintf("Undid removal of '%s'", entry.ProductName),
		Action:      model.ActionRemove,
		ExternalIDs: []string{entry.ProductExternalID},
	}, nil
}

// undoEdit overwrites the product with its pre-edit snapshot. The lookup
// uses the entry's external id; if the edit renamed the product the
// lookup misses and the restore is a no-op that still consumes the entry.
func (s *undoService) undoEdit(ctx context.Context, entry *model.HistoryEntry) (*dto.UndoResponse, error) {
	restored := false
	err := s.products.Transaction(ctx, func(tx *gorm.DB) error {
		restored = false
		p, err := s.products.FindByExternalIDTx(tx, entry.ProductExternalID)
		if err == nil {
			p.Name = entry.ProductName
			p.ExternalID = entry.ProductExternalID
			p.Description = entry.ProductDescription
			p.Quantity = entry.ProductQuantity
			p.Location = entry.ProductLocation
			if err := s.products.UpdateTx(tx, p); err != nil {
				return err
			}
			restored = true
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return s.history.DeleteByIDsTx(tx, []uuid.UUID{entry.ID})
	})
	if err != nil {
		return nil, err
	}

	invalidateProductCache(ctx, s.rdb, entry.ProductExternalID)
	msg := fmt.Sprintf("Undid edit of '%s'", entry.ProductName)
	if !restored {
		msg = fmt.Sprintf("Nothing to restore for '%s'", entry.ProductName)
	}
	return &dto.UndoResponse{
		Message:     msg,
		Action:      model.ActionEdit,
		ExternalIDs: []string{entry.ProductExternalID},
	}, nil
}
