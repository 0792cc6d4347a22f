package service

import (
	"context"
	"strings"

	"billflow/internal/domain"
	"billflow/internal/logger"
)

// CompanyInput is the DTO for saving the company profile.
type CompanyInput struct {
	Name           string `json:"name" binding:"required"`
	Address        string `json:"address"`
	Phone          string `json:"phone"`
	Email          string `json:"email" binding:"omitempty,email"`
	State          string `json:"state"`
	GSTIN          string `json:"gstin" binding:"omitempty,gstin"`
	GSTEnabled     bool   `json:"gst_enabled"`
	ShowHSNSummary bool   `json:"show_hsn_summary"`
}

// CompanyService reads and saves the issuing business profile.
type CompanyService interface {
	Get(ctx context.Context, ns domain.Namespace) (*domain.CompanyProfile, error)
	Update(ctx context.Context, ns domain.Namespace, input CompanyInput) (*domain.CompanyProfile, error)
}

type companyService struct {
	workspaces *WorkspaceRegistry
}

// NewCompanyService creates a new CompanyService implementation.
func NewCompanyService(workspaces *WorkspaceRegistry) CompanyService {
	return &companyService{workspaces: workspaces}
}

func (s *companyService) Get(ctx context.Context, ns domain.Namespace) (*domain.CompanyProfile, error) {
	var out domain.CompanyProfile
	err := s.workspaces.With(ctx, ns, func(ws *Workspace) error {
		out = ws.company
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *companyService) Update(ctx context.Context, ns domain.Namespace, input CompanyInput) (*domain.CompanyProfile, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	var out domain.CompanyProfile
	err := s.workspaces.With(ctx, ns, func(ws *Workspace) error {
		ws.company = domain.CompanyProfile{
			Name:           strings.TrimSpace(input.Name),
			Address:        input.Address,
			Phone:          input.Phone,
			Email:          input.Email,
			State:          strings.TrimSpace(input.State),
			GSTIN:          normalizeGSTIN(input.GSTIN),
			GSTEnabled:     input.GSTEnabled,
			ShowHSNSummary: input.ShowHSNSummary,
		}
		out = ws.company
		return ws.saveCompany(ctx)
	})
	if err != nil {
		return nil, err
	}
	log := logger.WithComponent("company")
	log.Info().Str("namespace", string(ns)).Bool("gst_enabled", out.GSTEnabled).Msg("companyService.Update: profile saved")
	return &out, nil
}
