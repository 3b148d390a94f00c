package service

import (
	"context"
	"sort"
	"strings"

	"tillpoint/internal/dto"
	"tillpoint/internal/model"
	"tillpoint/internal/repository"
	"tillpoint/internal/store"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ProductService manages the catalog.
type ProductService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*model.Product, error)
	Get(ctx context.Context, id string) (*model.Product, error)
	GetByBarcode(ctx context.Context, barcode string) (*model.Product, error)
	List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, error)
	Categories(ctx context.Context) ([]string, error)
	Update(ctx context.Context, id string, req dto.UpdateProductRequest) (*model.Product, error)
	AdjustStock(ctx context.Context, id string, req dto.AdjustStockRequest) (*model.Product, error)
	Deactivate(ctx context.Context, id string) error
	Reactivate(ctx context.Context, id string) error
}

type productService struct {
	repo  repository.ProductRepository
	state *store.State
}

func NewProductService(repo repository.ProductRepository, state *store.State) ProductService {
	return &productService{repo: repo, state: state}
}

func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest) (*model.Product, error) {
	p := &model.Product{
		ID:          req.ID,
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		Stock:       req.Stock,
		Barcode:     req.Barcode,
		Description: req.Description,
		QuickKey:    req.QuickKey,
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.flush(ctx)
	return p, nil
}

func (s *productService) Get(ctx context.Context, id string) (*model.Product, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *productService) GetByBarcode(ctx context.Context, barcode string) (*model.Product, error) {
	return s.repo.FindByBarcode(ctx, barcode)
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, error) {
	products, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	sort.Slice(products, func(i, j int) bool {
		return strings.ToLower(products[i].Name) < strings.ToLower(products[j].Name)
	})
	return products, nil
}

// Categories returns the distinct categories of active products, sorted.
func (s *productService) Categories(ctx context.Context) ([]string, error) {
	products, err := s.repo.List(ctx, dto.ProductFilter{})
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var out []string
	for _, p := range products {
		if p.Category != "" && !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *productService) Update(ctx context.Context, id string, req dto.UpdateProductRequest) (*model.Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Stock != nil {
		p.Stock = *req.Stock
	}
	if req.Barcode != nil {
		p.Barcode = *req.Barcode
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.QuickKey != nil {
		p.QuickKey = *req.QuickKey
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.flush(ctx)
	return p, nil
}

func (s *productService) AdjustStock(ctx context.Context, id string, req dto.AdjustStockRequest) (*model.Product, error) {
	p, err := s.repo.AdjustStock(ctx, id, req.Delta)
	if err != nil {
		return nil, err
	}
	log.Info().Str("product_id", id).Int("delta", req.Delta).
		Str("reason", req.Reason).Int("stock", p.Stock).Msg("stock adjusted")
	s.flush(ctx)
	return p, nil
}

func (s *productService) Deactivate(ctx context.Context, id string) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.flush(ctx)
	return nil
}

func (s *productService) Reactivate(ctx context.Context, id string) error {
	if err := s.repo.Reactivate(ctx, id); err != nil {
		return err
	}
	s.flush(ctx)
	return nil
}

func (s *productService) flush(ctx context.Context) {
	if err := s.state.Flush(ctx); err != nil {
		log.Error().Err(err).Msg("product: flush failed")
	}
}
