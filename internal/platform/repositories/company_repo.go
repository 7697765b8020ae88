package repositories

import (
	"database/sql"
	"time"

	"dsarportal/internal/platform/models"
)

type CompanyRepository struct {
	db *sql.DB
}

func NewCompanyRepository(db *sql.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

const companyColumns = `id, owner_id, name, email, phone, address, employees_count, field,
	representation, logo, status, slug, subscription_status, stripe_customer_id,
	stripe_subscription_id, created_at, updated_at`

func scanCompany(row interface{ Scan(...interface{}) error }) (*models.Company, error) {
	c := &models.Company{}
	err := row.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Email, &c.Phone, &c.Address,
		&c.EmployeesCount, &c.Field, &c.Representation, &c.Logo, &c.Status, &c.Slug,
		&c.SubscriptionStatus, &c.StripeCustomerID, &c.StripeSubscriptionID,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

func (r *CompanyRepository) Create(c *models.Company) error {
	_, err := r.db.Exec(`
		INSERT INTO companies (`+companyColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.OwnerID, c.Name, c.Email, c.Phone, c.Address, c.EmployeesCount, c.Field,
		c.Representation, c.Logo, c.Status, c.Slug, c.SubscriptionStatus,
		c.StripeCustomerID, c.StripeSubscriptionID, c.CreatedAt, c.UpdatedAt)
	return err
}

func (r *CompanyRepository) GetByID(id string) (*models.Company, error) {
	return scanCompany(r.db.QueryRow(`SELECT `+companyColumns+` FROM companies WHERE id = ?`, id))
}

func (r *CompanyRepository) GetByOwnerID(ownerID string) (*models.Company, error) {
	return scanCompany(r.db.QueryRow(`SELECT `+companyColumns+` FROM companies WHERE owner_id = ?`, ownerID))
}

func (r *CompanyRepository) GetBySlug(slug string) (*models.Company, error) {
	return scanCompany(r.db.QueryRow(`SELECT `+companyColumns+` FROM companies WHERE slug = ?`, slug))
}

func (r *CompanyRepository) ExistsBySlug(slug string) (bool, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(1) FROM companies WHERE slug = ?`, slug).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateStatus sets the approval status and, when slug is non-nil, assigns
// the public slug in the same statement so a first approval is atomic.
func (r *CompanyRepository) UpdateStatus(id, status string, slug *string) error {
	if slug != nil {
		_, err := r.db.Exec(`UPDATE companies SET status = ?, slug = ?, updated_at = ? WHERE id = ?`,
			status, *slug, time.Now().Unix(), id)
		return err
	}
	_, err := r.db.Exec(`UPDATE companies SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now().Unix(), id)
	return err
}

func (r *CompanyRepository) UpdateProfile(c *models.Company) error {
	_, err := r.db.Exec(`
		UPDATE companies
		SET name = ?, phone = ?, address = ?, employees_count = ?, field = ?,
			representation = ?, logo = ?, updated_at = ?
		WHERE owner_id = ?
	`, c.Name, c.Phone, c.Address, c.EmployeesCount, c.Field, c.Representation,
		c.Logo, time.Now().Unix(), c.OwnerID)
	return err
}

func (r *CompanyRepository) ActivateSubscription(id, customerID, subscriptionID string) error {
	_, err := r.db.Exec(`
		UPDATE companies
		SET subscription_status = 'active', stripe_customer_id = ?, stripe_subscription_id = ?, updated_at = ?
		WHERE id = ?
	`, customerID, subscriptionID, time.Now().Unix(), id)
	return err
}

func (r *CompanyRepository) DeactivateSubscriptionBySubscriptionID(subscriptionID string) error {
	_, err := r.db.Exec(`
		UPDATE companies SET subscription_status = 'inactive', updated_at = ?
		WHERE stripe_subscription_id = ?
	`, time.Now().Unix(), subscriptionID)
	return err
}

func (r *CompanyRepository) ListByStatus(status string) ([]*models.Company, error) {
	return r.list(`SELECT `+companyColumns+` FROM companies WHERE status = ? ORDER BY created_at DESC`, status)
}

func (r *CompanyRepository) ListAll() ([]*models.Company, error) {
	return r.list(`SELECT ` + companyColumns + ` FROM companies ORDER BY created_at DESC`)
}

func (r *CompanyRepository) list(query string, args ...interface{}) ([]*models.Company, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []*models.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

func (r *CompanyRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(1) FROM companies`).Scan(&count)
	return count, err
}
