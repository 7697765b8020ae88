package repositories

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"dsarportal/internal/platform/models"
)

func testDsar(id, companyID, status string, createdAt int64) *models.DsarRequest {
	return &models.DsarRequest{
		ID:             id,
		CompanyID:      companyID,
		RequesterName:  "Jane Doe",
		RequesterEmail: "jane@example.com",
		RequestText:    "Please send me my data.",
		Status:         status,
		CreatedAt:      createdAt,
		UpdatedAt:      createdAt,
	}
}

func TestDsarRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewDsarRepository(db)

	request := testDsar("dsar_1", "co_1", "OPEN", time.Now().Unix())
	request.Attachments = []string{"/uploads/1-id.pdf", "/uploads/2-proof.png"}
	if err := repo.Create(request); err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}

	fetched, err := repo.GetByID("dsar_1")
	if err != nil {
		t.Fatalf("Failed to get request: %v", err)
	}
	if fetched == nil {
		t.Fatal("Expected request, got nil")
	}
	if fetched.Status != "OPEN" {
		t.Errorf("Expected OPEN, got %s", fetched.Status)
	}
	if len(fetched.Attachments) != 2 || fetched.Attachments[1] != "/uploads/2-proof.png" {
		t.Errorf("Attachments not round-tripped: %v", fetched.Attachments)
	}

	missing, err := repo.GetByID("dsar_none")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if missing != nil {
		t.Error("Expected nil for unknown id")
	}
}

func TestDsarRepository_NoAttachments(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewDsarRepository(db)
	if err := repo.Create(testDsar("dsar_1", "co_1", "OPEN", time.Now().Unix())); err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}

	fetched, err := repo.GetByID("dsar_1")
	if err != nil {
		t.Fatalf("Failed to get request: %v", err)
	}
	if len(fetched.Attachments) != 0 {
		t.Errorf("Expected no attachments, got %v", fetched.Attachments)
	}
}

func TestDsarRepository_UpdateStatus(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewDsarRepository(db)
	if err := repo.Create(testDsar("dsar_1", "co_1", "OPEN", time.Now().Unix())); err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}

	if err := repo.UpdateStatus("dsar_1", "IN_PROGRESS"); err != nil {
		t.Fatalf("Failed to update status: %v", err)
	}

	fetched, _ := repo.GetByID("dsar_1")
	if fetched.Status != "IN_PROGRESS" {
		t.Errorf("Expected IN_PROGRESS, got %s", fetched.Status)
	}

	if err := repo.UpdateStatus("dsar_none", "IN_PROGRESS"); err != sql.ErrNoRows {
		t.Errorf("Expected sql.ErrNoRows for unknown id, got %v", err)
	}
}

func TestDsarRepository_ListAndCount(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewDsarRepository(db)

	base := time.Now().Unix()
	for i := 0; i < 7; i++ {
		status := "OPEN"
		companyID := "co_1"
		if i%2 == 1 {
			status = "CLOSED"
		}
		if i >= 5 {
			companyID = "co_2"
		}
		req := testDsar(fmt.Sprintf("dsar_%d", i), companyID, status, base+int64(i))
		if err := repo.Create(req); err != nil {
			t.Fatalf("Failed to create request: %v", err)
		}
	}

	// Unscoped, newest first
	all, err := repo.List(DsarFilter{}, 10, 0)
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	if len(all) != 7 {
		t.Fatalf("Expected 7 rows, got %d", len(all))
	}
	if all[0].ID != "dsar_6" {
		t.Errorf("Expected newest first, got %s", all[0].ID)
	}

	// Company scope
	scoped, err := repo.List(DsarFilter{CompanyID: "co_1"}, 10, 0)
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	if len(scoped) != 5 {
		t.Errorf("Expected 5 rows for co_1, got %d", len(scoped))
	}

	// Status filter plus pagination
	open, err := repo.List(DsarFilter{Status: "OPEN"}, 2, 2)
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	if len(open) != 2 {
		t.Errorf("Expected page of 2, got %d", len(open))
	}

	count, err := repo.Count(DsarFilter{CompanyID: "co_1", Status: "CLOSED"})
	if err != nil {
		t.Fatalf("Failed to count: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 closed for co_1, got %d", count)
	}
}
