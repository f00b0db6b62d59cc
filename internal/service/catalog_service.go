package service

import (
	"context"
	"errors"
	"fmt"

	"stocktrack/internal/dto"
	"stocktrack/internal/model"
	"stocktrack/internal/repository"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ErrProductNotFound is returned by catalog operations targeting an
// external id with no live product.
var ErrProductNotFound = errors.New("Product not found")

// CatalogService is the business logic for the live product catalog.
// Every mutation writes the product and its ledger entry in one
// transaction, so the history can never reference a write that was
// rolled back.
type CatalogService interface {
	Add(ctx context.Context, username string, req dto.AddProductRequest) (*dto.MutationResponse, error)
	Edit(ctx context.Context, username, externalID string, req dto.EditProductRequest) (*dto.MutationResponse, error)
	Remove(ctx context.Context, username, externalID string) (*dto.MutationResponse, error)
	List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
}

type catalogService struct {
	products repository.ProductRepository
	ledger   LedgerService
	rdb      *redis.Client
}

func NewCatalogService(products repository.ProductRepository, ledger LedgerService, rdb *redis.Client) CatalogService {
	return &catalogService{products: products, ledger: ledger, rdb: rdb}
}

func (s *catalogService) Add(ctx context.Context, username string, req dto.AddProductRequest) (*dto.MutationResponse, error) {
	var created *model.Product
	err := s.products.Transaction(ctx, func(tx *gorm.DB) error {
		created = nil
		if _, err := s.products.FindByExternalIDTx(tx, req.ExternalID); err == nil {
			return fmt.Errorf("Product ID '%s' already exists", req.ExternalID)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		p := &model.Product{
			Name:        req.Name,
			ExternalID:  req.ExternalID,
			Description: req.Description,
			Quantity:    req.Quantity,
			Location:    req.Location,
		}
		if err := s.products.CreateTx(tx, p); err != nil {
			return err
		}
		if _, err := s.ledger.RecordTx(tx, username, model.ActionAdd, *p, nil); err != nil {
			return err
		}
		created = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := productToDTO(created)
	return &dto.MutationResponse{
		Message: fmt.Sprintf("Product '%s' added successfully", created.Name),
		Product: &resp,
	}, nil
}

func (s *catalogService) Edit(ctx context.Context, username, externalID string, req dto.EditProductRequest) (*dto.MutationResponse, error) {
	var edited *model.Product
	err := s.products.Transaction(ctx, func(tx *gorm.DB) error {
		edited = nil
		p, err := s.products.FindByExternalIDTx(tx, externalID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		if err != nil {
			return err
		}

		// Rename guard: the target external id must be free.
		if req.ExternalID != p.ExternalID {
			if _, err := s.products.FindByExternalIDTx(tx, req.ExternalID); err == nil {
				return fmt.Errorf("Product ID '%s' already exists", req.ExternalID)
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}

		snapshot := *p // pre-edit state, what an undo restores
		p.Name = req.Name
		p.ExternalID = req.ExternalID
		p.Description = req.Description
		p.Quantity = req.Quantity
		p.Location = req.Location
		if err := s.products.UpdateTx(tx, p); err != nil {
			return err
		}
		if _, err := s.ledger.RecordTx(tx, username, model.ActionEdit, snapshot, nil); err != nil {
			return err
		}
		edited = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	invalidateProductCache(ctx, s.rdb, externalID, edited.ExternalID)

	resp := productToDTO(edited)
	return &dto.MutationResponse{
		Message: fmt.Sprintf("Product '%s' updated successfully", edited.Name),
		Product: &resp,
	}, nil
}

func (s *catalogService) Remove(ctx context.Context, username, externalID string) (*dto.MutationResponse, error) {
	var removed *model.Product
	err := s.products.Transaction(ctx, func(tx *gorm.DB) error {
		removed = nil
		p, err := s.products.FindByExternalIDTx(tx, externalID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		if err != nil {
			return err
		}

		if err := s.products.DeleteByExternalIDTx(tx, externalID); err != nil {
			return err
		}
		if _, err := s.ledger.RecordTx(tx, username, model.ActionRemove, *p, nil); err != nil {
			return err
		}
		removed = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	invalidateProductCache(ctx, s.rdb, externalID)

	return &dto.MutationResponse{
		Message: fmt.Sprintf("Product '%s' removed successfully", removed.Name),
	}, nil
}

func (s *catalogService) List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	products, total, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductResponse, len(products))
	for i := range products {
		data[i] = productToDTO(&products[i])
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 200 {
		filter.Limit = 50
	}
	return &dto.ProductListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func productToDTO(p *model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		ExternalID:  p.ExternalID,
		Description: p.Description,
		Quantity:    p.Quantity,
		Location:    p.Location,
		CreatedAt:   p.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:   p.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
