package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"billflow/internal/domain"
)

// ProductInput is the DTO for creating or replacing a catalog entry.
type ProductInput struct {
	Name     string          `json:"name" binding:"required"`
	Price    decimal.Decimal `json:"price"`
	Stock    decimal.Decimal `json:"stock"`
	Category string          `json:"category"`
	HSN      string          `json:"hsn" binding:"omitempty,hsn"`
	GSTRate  decimal.Decimal `json:"gst_rate"`
}

// ProductView is a product together with its inventory label.
type ProductView struct {
	*domain.Product
	StockStatus domain.StockStatus `json:"stock_status"`
}

// ProductService manages the product catalog.
type ProductService interface {
	List(ctx context.Context, ns domain.Namespace) ([]ProductView, error)
	Get(ctx context.Context, ns domain.Namespace, id string) (*ProductView, error)
	Create(ctx context.Context, ns domain.Namespace, input ProductInput) (*domain.Product, error)
	Update(ctx context.Context, ns domain.Namespace, id string, input ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, ns domain.Namespace, id string) error
}

type productService struct {
	workspaces *WorkspaceRegistry
}

// NewProductService creates a new ProductService implementation.
func NewProductService(workspaces *WorkspaceRegistry) ProductService {
	return &productService{workspaces: workspaces}
}

func viewProduct(p *domain.Product) ProductView {
	cp := *p
	return ProductView{Product: &cp, StockStatus: cp.StockStatus()}
}

func validateProduct(input ProductInput) error {
	if err := validateInput(input); err != nil {
		return err
	}
	if input.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", domain.ErrValidation)
	}
	return validGSTRate(input.GSTRate)
}

func (s *productService) List(ctx context.Context, ns domain.Namespace) ([]ProductView, error) {
	var out []ProductView
	err := s.workspaces.With(ctx, ns, func(ws *Workspace) error {
		list := ws.productList()
		out = make([]ProductView, 0, len(list))
		for _, p := range list {
			out = append(out, viewProduct(p))
		}
		return nil
	})
	return out, err
}

func (s *productService) Get(ctx context.Context, ns domain.Namespace, id string) (*ProductView, error) {
	var out ProductView
	err := s.workspaces.With(ctx, ns, func(ws *Workspace) error {
		p, ok := ws.products[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = viewProduct(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *productService) Create(ctx context.Context, ns domain.Namespace, input ProductInput) (*domain.Product, error) {
	if err := validateProduct(input); err != nil {
		return nil, err
	}
	var out domain.Product
	err := s.workspaces.With(ctx, ns, func(ws *Workspace) error {
		p := &domain.Product{ID: newID()}
		applyProductInput(p, input)
		ws.products[p.ID] = p
		out = *p
		return ws.saveProducts(ctx, []*domain.Product{p})
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *productService) Update(ctx context.Context, ns domain.Namespace, id string, input ProductInput) (*domain.Product, error) {
	if err := validateProduct(input); err != nil {
		return nil, err
	}
	var out domain.Product
	err := s.workspaces.With(ctx, ns, func(ws *Workspace) error {
		p, ok := ws.products[id]
		if !ok {
			return domain.ErrNotFound
		}
		applyProductInput(p, input)
		out = *p
		return ws.saveProducts(ctx, []*domain.Product{p})
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a product. Invoices that reference it keep their lines; later
// stock adjustments for it are skipped.
func (s *productService) Delete(ctx context.Context, ns domain.Namespace, id string) error {
	return s.workspaces.With(ctx, ns, func(ws *Workspace) error {
		if _, ok := ws.products[id]; !ok {
			return domain.ErrNotFound
		}
		delete(ws.products, id)
		return ws.remove(ctx, domain.CollectionProducts, id)
	})
}

func applyProductInput(p *domain.Product, input ProductInput) {
	p.Name = strings.TrimSpace(input.Name)
	p.Price = input.Price
	p.Stock = input.Stock
	p.Category = strings.TrimSpace(input.Category)
	p.HSN = strings.TrimSpace(input.HSN)
	p.GSTRate = input.GSTRate
}
