package repositories

import (
	"database/sql"
	"strings"
	"time"

	"dsarportal/internal/platform/models"
)

type DsarRepository struct {
	db *sql.DB
}

func NewDsarRepository(db *sql.DB) *DsarRepository {
	return &DsarRepository{db: db}
}

// DsarFilter narrows list and count queries. Zero values mean "no filter":
// the admin dashboard passes an empty CompanyID for global visibility, the
// owner dashboard always sets it.
type DsarFilter struct {
	CompanyID string
	Status    string
}

func (f DsarFilter) where() (string, []interface{}) {
	var clauses []string
	var args []interface{}
	if f.CompanyID != "" {
		clauses = append(clauses, "company_id = ?")
		args = append(args, f.CompanyID)
	}
	if f.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, f.Status)
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (r *DsarRepository) Create(d *models.DsarRequest) error {
	var attachments *string
	if len(d.Attachments) > 0 {
		joined := strings.Join(d.Attachments, ",")
		attachments = &joined
	}
	_, err := r.db.Exec(`
		INSERT INTO dsar_requests (id, company_id, requester_name, requester_email,
			requester_phone, request_text, attachments, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, d.ID, d.CompanyID, d.RequesterName, d.RequesterEmail, d.RequesterPhone,
		d.RequestText, attachments, d.Status, d.CreatedAt, d.UpdatedAt)
	return err
}

func (r *DsarRepository) GetByID(id string) (*models.DsarRequest, error) {
	d := &models.DsarRequest{}
	var attachments sql.NullString
	err := r.db.QueryRow(`
		SELECT id, company_id, requester_name, requester_email, requester_phone,
			request_text, attachments, status, created_at, updated_at
		FROM dsar_requests WHERE id = ?
	`, id).Scan(&d.ID, &d.CompanyID, &d.RequesterName, &d.RequesterEmail,
		&d.RequesterPhone, &d.RequestText, &attachments, &d.Status, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if attachments.Valid && attachments.String != "" {
		d.Attachments = strings.Split(attachments.String, ",")
	}
	return d, nil
}

func (r *DsarRepository) UpdateStatus(id, status string) error {
	res, err := r.db.Exec(`UPDATE dsar_requests SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now().Unix(), id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *DsarRepository) List(filter DsarFilter, limit, offset int) ([]*models.DsarRequest, error) {
	where, args := filter.where()
	query := `
		SELECT id, company_id, requester_name, requester_email, requester_phone,
			request_text, attachments, status, created_at, updated_at
		FROM dsar_requests` + where + ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []*models.DsarRequest
	for rows.Next() {
		d := &models.DsarRequest{}
		var attachments sql.NullString
		if err := rows.Scan(&d.ID, &d.CompanyID, &d.RequesterName, &d.RequesterEmail,
			&d.RequesterPhone, &d.RequestText, &attachments, &d.Status,
			&d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		if attachments.Valid && attachments.String != "" {
			d.Attachments = strings.Split(attachments.String, ",")
		}
		requests = append(requests, d)
	}
	return requests, rows.Err()
}

func (r *DsarRepository) Count(filter DsarFilter) (int, error) {
	where, args := filter.where()
	var count int
	err := r.db.QueryRow(`SELECT COUNT(1) FROM dsar_requests`+where, args...).Scan(&count)
	return count, err
}
