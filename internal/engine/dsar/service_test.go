package dsar

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apiContext "dsarportal/internal/api/context"
	"dsarportal/internal/engine/notify"
	"dsarportal/internal/engine/portal"
	"dsarportal/internal/platform/audit"
	"dsarportal/internal/platform/auth"
	"dsarportal/internal/platform/config"
	"dsarportal/internal/platform/models"
	"dsarportal/internal/platform/repositories"
)

func setupService(t *testing.T) (*Service, *repositories.DsarRepository, *audit.Logger, *models.Company) {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
	CREATE TABLE companies (
		id TEXT PRIMARY KEY,
		owner_id TEXT UNIQUE NOT NULL,
		name TEXT NOT NULL,
		email TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		employees_count INTEGER NOT NULL DEFAULT 0,
		field TEXT NOT NULL DEFAULT '',
		representation TEXT NOT NULL DEFAULT '',
		logo TEXT,
		status TEXT NOT NULL DEFAULT 'PENDING',
		slug TEXT UNIQUE,
		subscription_status TEXT NOT NULL DEFAULT 'inactive',
		stripe_customer_id TEXT,
		stripe_subscription_id TEXT,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE TABLE dsar_requests (
		id TEXT PRIMARY KEY,
		company_id TEXT NOT NULL,
		requester_name TEXT NOT NULL,
		requester_email TEXT NOT NULL,
		requester_phone TEXT NOT NULL DEFAULT '',
		request_text TEXT NOT NULL,
		attachments TEXT,
		status TEXT NOT NULL DEFAULT 'OPEN',
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE TABLE audit_logs (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		action TEXT NOT NULL,
		details TEXT NOT NULL DEFAULT '{}',
		created_at INTEGER NOT NULL
	);
	`)
	require.NoError(t, err)

	repo := repositories.NewDsarRepository(db)
	companyRepo := repositories.NewCompanyRepository(db)
	auditLog := audit.NewLogger(db)

	slug := "acme-x7f2"
	now := time.Now().Unix()
	company := &models.Company{
		ID:                 "C1",
		OwnerID:            "usr_owner",
		Name:               "Acme Inc",
		Status:             "APPROVED",
		Slug:               &slug,
		SubscriptionStatus: "active",
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	require.NoError(t, companyRepo.Create(company))

	svc := NewService(repo, companyRepo, auditLog, notify.NewMailer(config.EmailConfig{}), portal.NewCache(time.Minute))
	return svc, repo, auditLog, company
}

func sessionContext(userID, email string) context.Context {
	return context.WithValue(context.Background(), apiContext.Claims, &auth.Claims{
		UserID: userID,
		Role:   models.RoleOwner,
		Email:  email,
	})
}

func TestSubmitCreatesOpenRequest(t *testing.T) {
	svc, repo, auditLog, company := setupService(t)

	request, err := svc.Submit(company, Submission{
		RequesterName:  "Jane Doe",
		RequesterEmail: "jane@example.com",
		RequesterPhone: "+1-555-0100",
		RequestText:    "Please delete my data.",
		Attachments:    []string{"/uploads/123-id.pdf"},
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(request.ID, "dsar_"))
	assert.Equal(t, StatusOpen, request.Status)

	stored, err := repo.GetByID(request.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "C1", stored.CompanyID)
	assert.Equal(t, "Jane Doe", stored.RequesterName)
	assert.Equal(t, []string{"/uploads/123-id.pdf"}, stored.Attachments)

	logs, err := auditLog.List(10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, audit.ActionDsarSubmitted, logs[0].Action)
	assert.Equal(t, models.SystemPublicActor, logs[0].UserID)
	assert.Contains(t, logs[0].Details, request.ID)
}

func TestSubmitRequiresCoreFields(t *testing.T) {
	svc, _, _, company := setupService(t)

	cases := []Submission{
		{RequesterEmail: "jane@example.com", RequestText: "text"},
		{RequesterName: "Jane", RequestText: "text"},
		{RequesterName: "Jane", RequesterEmail: "jane@example.com"},
	}
	for _, sub := range cases {
		_, err := svc.Submit(company, sub)
		assert.Equal(t, ErrInvalidSubmission, err)
	}
}

func TestUpdateStatusAdvancesPipeline(t *testing.T) {
	svc, repo, auditLog, company := setupService(t)
	ctx := sessionContext("usr_owner", "owner@acme.com")

	request, err := svc.Submit(company, Submission{
		RequesterName:  "Jane Doe",
		RequesterEmail: "jane@example.com",
		RequestText:    "Access request.",
	})
	require.NoError(t, err)

	for _, next := range []string{StatusInProgress, StatusInReview, StatusClosed} {
		updated, err := svc.UpdateStatus(ctx, request.ID, next)
		require.NoError(t, err)
		assert.Equal(t, next, updated.Status)
	}

	stored, err := repo.GetByID(request.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusClosed, stored.Status)

	logs, err := auditLog.List(10)
	require.NoError(t, err)
	require.Len(t, logs, 4) // the submission plus three transitions

	transitions := 0
	for _, entry := range logs {
		if entry.Action == audit.ActionDsarStatusUpdated {
			transitions++
			assert.Equal(t, "usr_owner", entry.UserID)
		}
	}
	assert.Equal(t, 3, transitions)
}

func TestUpdateStatusRejectsSkipsAndReopens(t *testing.T) {
	svc, repo, _, company := setupService(t)
	ctx := sessionContext("usr_owner", "owner@acme.com")

	request, err := svc.Submit(company, Submission{
		RequesterName:  "Jane Doe",
		RequesterEmail: "jane@example.com",
		RequestText:    "Access request.",
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, request.ID, StatusClosed)
	assert.Equal(t, ErrInvalidTransition, err)
	_, err = svc.UpdateStatus(ctx, request.ID, "ARCHIVED")
	assert.Equal(t, ErrInvalidStatus, err)

	stored, err := repo.GetByID(request.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusOpen, stored.Status)

	_, err = svc.UpdateStatus(ctx, "dsar_missing", StatusInProgress)
	assert.Equal(t, ErrNotFound, err)
}

func TestContactRecordsAuditEntry(t *testing.T) {
	svc, _, auditLog, company := setupService(t)
	ctx := sessionContext("usr_owner", "owner@acme.com")

	request, err := svc.Submit(company, Submission{
		RequesterName:  "Jane Doe",
		RequesterEmail: "jane@example.com",
		RequestText:    "Access request.",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Contact(ctx, request.ID, "We are on it."))

	logs, err := auditLog.List(10)
	require.NoError(t, err)
	require.Len(t, logs, 2)

	var contact *models.AuditLog
	for _, entry := range logs {
		if entry.Action == audit.ActionRequesterContacted {
			contact = entry
		}
	}
	require.NotNil(t, contact)
	assert.Equal(t, "usr_owner", contact.UserID)
	assert.Contains(t, contact.Details, "We are on it.")

	assert.Equal(t, ErrNotFound, svc.Contact(ctx, "dsar_missing", "hello"))
}
