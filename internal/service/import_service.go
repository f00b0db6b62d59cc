package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"stocktrack/internal/dto"
	"stocktrack/internal/model"
	"stocktrack/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ImportService applies a bulk product file: one comma-separated
// 5-tuple (name, external_id, description, quantity, location) per line.
// Lines that fail to parse are reported and skipped; everything that
// parsed is applied in a single transaction.
type ImportService interface {
	Import(ctx context.Context, username string, lines []string) (*dto.BulkImportResponse, error)
}

type importService struct {
	products repository.ProductRepository
	ledger   LedgerService
	rdb      *redis.Client
}

func NewImportService(products repository.ProductRepository, ledger LedgerService, rdb *redis.Client) ImportService {
	return &importService{products: products, ledger: ledger, rdb: rdb}
}

type importLine struct {
	name        string
	externalID  string
	description string
	quantity    int
	location    string
}

func (s *importService) Import(ctx context.Context, username string, lines []string) (*dto.BulkImportResponse, error) {
	ops, parseErrs := parseLines(lines)

	// One group id per call: every product created below shares it, so a
	// single undo reverses the whole import.
	groupID := uuid.New()

	var created, merged int
	var touched []string
	err := s.products.Transaction(ctx, func(tx *gorm.DB) error {
		// Reset in case the driver retries the transaction callback.
		created, merged, touched = 0, 0, touched[:0]

		for _, op := range ops {
			_, err := s.products.FindByExternalIDTx(tx, op.externalID)
			switch {
			case err == nil:
				// Merge path: quantity accumulates, no ledger entry, not
				// part of the bulk group — and therefore not undoable.
				if err := s.products.AddQuantityTx(tx, op.externalID, op.quantity); err != nil {
					return err
				}
				merged++
			case errors.Is(err, gorm.ErrRecordNotFound):
				p := &model.Product{
					Name:        op.name,
					ExternalID:  op.externalID,
					Description: op.description,
					Quantity:    op.quantity,
					Location:    op.location,
				}
				if err := s.products.CreateTx(tx, p); err != nil {
					return err
				}
				gid := groupID
				if _, err := s.ledger.RecordTx(tx, username, model.ActionAdd, *p, &gid); err != nil {
					return err
				}
				created++
			default:
				return err
			}
			touched = append(touched, op.externalID)
		}
		return nil
	})
	if err != nil {
		// Whole batch rolled back — nothing partial persisted.
		return nil, fmt.Errorf("bulk import failed: %w", err)
	}

	invalidateProductCache(ctx, s.rdb, touched...)

	msg := fmt.Sprintf("Imported %d products (%d created, %d merged)", created+merged, created, merged)
	if len(parseErrs) > 0 {
		msg += fmt.Sprintf(", %d lines rejected", len(parseErrs))
	}
	return &dto.BulkImportResponse{
		Message:   msg,
		Succeeded: created + merged,
		Created:   created,
		Merged:    merged,
		Errors:    parseErrs,
	}, nil
}

// parseLines validates the line grammar. Errors carry 1-based line
// numbers in file order; blank lines are skipped without error.
func parseLines(lines []string) ([]importLine, []string) {
	var ops []importLine
	errs := []string{}

	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		fields := strings.Split(line, ",")
		if len(fields) != 5 {
			errs = append(errs, fmt.Sprintf("line %d: expected 5 fields, got %d", i+1, len(fields)))
			continue
		}
		for j := range fields {
			fields[j] = strings.TrimSpace(fields[j])
		}

		qty, err := strconv.Atoi(fields[3])
		if err != nil || qty < 0 {
			errs = append(errs, fmt.Sprintf("line %d: invalid quantity %q", i+1, fields[3]))
			continue
		}
		if fields[0] == "" || fields[1] == "" {
			errs = append(errs, fmt.Sprintf("line %d: name and external id are required", i+1))
			continue
		}

		ops = append(ops, importLine{
			name:        fields[0],
			externalID:  fields[1],
			description: fields[2],
			quantity:    qty,
			location:    fields[4],
		})
	}
	return ops, errs
}
