package companies

import (
	"context"

	"dsarportal/internal/engine/portal"
	"dsarportal/internal/platform/audit"
	"dsarportal/internal/platform/models"
	"dsarportal/internal/platform/repositories"
)

type Service struct {
	repo  *repositories.CompanyRepository
	audit *audit.Logger
	views *portal.Cache
}

func NewService(repo *repositories.CompanyRepository, auditLog *audit.Logger, views *portal.Cache) *Service {
	return &Service{repo: repo, audit: auditLog, views: views}
}

// UpdateStatus applies an admin approval decision. The first transition to
// APPROVED assigns the company its public slug; the slug is never regenerated
// afterwards. The caller's role has already been checked at the route layer.
func (s *Service) UpdateStatus(ctx context.Context, companyID, status string) (*models.Company, error) {
	if status != StatusApproved && status != StatusRejected {
		return nil, ErrInvalidStatus
	}

	company, err := s.repo.GetByID(companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, ErrNotFound
	}

	if !CanTransition(company.Status, status) {
		return nil, ErrInvalidTransition
	}

	var slug *string
	if status == StatusApproved && company.Slug == nil {
		generated, err := GenerateSlug(company.Name, s.repo)
		if err != nil {
			return nil, err
		}
		slug = &generated
	}

	if err := s.repo.UpdateStatus(companyID, status, slug); err != nil {
		return nil, err
	}

	company.Status = status
	if slug != nil {
		company.Slug = slug
	}

	action := audit.ActionCompanyApproved
	if status == StatusRejected {
		action = audit.ActionCompanyRejected
	}
	s.audit.Log(ctx, action, map[string]interface{}{"companyId": companyID})

	s.views.Invalidate(portal.AdminDashboardKey)

	return company, nil
}
