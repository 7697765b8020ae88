package dsar

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	apiContext "dsarportal/internal/api/context"
	"dsarportal/internal/engine/notify"
	"dsarportal/internal/engine/portal"
	"dsarportal/internal/platform/audit"
	"dsarportal/internal/platform/auth"
	"dsarportal/internal/platform/models"
	"dsarportal/internal/platform/repositories"
)

var ErrInvalidSubmission = errors.New("requester name, email and request text are required")

type Service struct {
	repo        *repositories.DsarRepository
	companyRepo *repositories.CompanyRepository
	audit       *audit.Logger
	mailer      *notify.Mailer
	views       *portal.Cache
}

func NewService(repo *repositories.DsarRepository, companyRepo *repositories.CompanyRepository,
	auditLog *audit.Logger, mailer *notify.Mailer, views *portal.Cache) *Service {
	return &Service{
		repo:        repo,
		companyRepo: companyRepo,
		audit:       auditLog,
		mailer:      mailer,
		views:       views,
	}
}

// Submission carries the anonymous intake form. Attachment paths have
// already been persisted by the caller.
type Submission struct {
	RequesterName  string
	RequesterEmail string
	RequesterPhone string
	RequestText    string
	Attachments    []string
}

// Submit records a new request against an approved company. Requester fields
// are immutable after this point.
func (s *Service) Submit(company *models.Company, sub Submission) (*models.DsarRequest, error) {
	if sub.RequesterName == "" || sub.RequesterEmail == "" || sub.RequestText == "" {
		return nil, ErrInvalidSubmission
	}

	now := time.Now().Unix()
	request := &models.DsarRequest{
		ID:             "dsar_" + uuid.NewString(),
		CompanyID:      company.ID,
		RequesterName:  sub.RequesterName,
		RequesterEmail: sub.RequesterEmail,
		RequesterPhone: sub.RequesterPhone,
		RequestText:    sub.RequestText,
		Attachments:    sub.Attachments,
		Status:         StatusOpen,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(request); err != nil {
		return nil, err
	}

	s.mailer.SubmissionReceived(sub.RequesterEmail, request.ID, company.ID)

	s.audit.LogSystem(audit.ActionDsarSubmitted, map[string]interface{}{
		"dsarId":    request.ID,
		"companyId": company.ID,
	})

	keys := []string{portal.AdminDashboardKey, portal.OwnerDashboardKey(company.ID)}
	if company.Slug != nil {
		keys = append(keys, portal.PublicPageKey(*company.Slug))
	}
	s.views.Invalidate(keys...)

	return request, nil
}

// UpdateStatus advances a request along the pipeline. Any authenticated
// session may update any request; company ownership is not re-checked here.
func (s *Service) UpdateStatus(ctx context.Context, dsarID, status string) (*models.DsarRequest, error) {
	request, err := s.repo.GetByID(dsarID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, ErrNotFound
	}

	if err := ValidateTransition(request.Status, status); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(dsarID, status); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	request.Status = status

	s.audit.Log(ctx, audit.ActionDsarStatusUpdated, map[string]interface{}{
		"dsarId": dsarID,
		"status": status,
	})

	keys := []string{portal.AdminDashboardKey, portal.OwnerDashboardKey(request.CompanyID)}
	if company, err := s.companyRepo.GetByID(request.CompanyID); err == nil && company != nil && company.Slug != nil {
		keys = append(keys, portal.PublicPageKey(*company.Slug))
	}
	s.views.Invalidate(keys...)

	return request, nil
}

// Contact relays a message from the acting session to the requester via the
// mail stub.
func (s *Service) Contact(ctx context.Context, dsarID, message string) error {
	request, err := s.repo.GetByID(dsarID)
	if err != nil {
		return err
	}
	if request == nil {
		return ErrNotFound
	}

	companyName := request.CompanyID
	if company, err := s.companyRepo.GetByID(request.CompanyID); err == nil && company != nil {
		companyName = company.Name
	}

	fromEmail := models.SystemPublicActor
	if claims, ok := ctx.Value(apiContext.Claims).(*auth.Claims); ok {
		fromEmail = claims.Email
	}

	s.mailer.RequesterContacted(fromEmail, companyName, request.RequesterEmail, message)

	s.audit.Log(ctx, audit.ActionRequesterContacted, map[string]interface{}{
		"dsarId":  dsarID,
		"message": message,
	})

	return nil
}
