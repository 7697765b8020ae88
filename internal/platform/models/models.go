package models

const (
	RoleAdmin = "ADMIN"
	RoleOwner = "OWNER"
)

// SystemPublicActor is the sentinel audit actor for events triggered by
// anonymous portal visitors.
const SystemPublicActor = "SYSTEM_PUBLIC"

type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
	CreatedAt    int64  `json:"created_at"`
	UpdatedAt    int64  `json:"updated_at"`
}

type Company struct {
	ID                   string  `json:"id"`
	OwnerID              string  `json:"owner_id"`
	Name                 string  `json:"name"`
	Email                string  `json:"email"`
	Phone                string  `json:"phone"`
	Address              string  `json:"address"`
	EmployeesCount       int     `json:"employees_count"`
	Field                string  `json:"field"`
	Representation       string  `json:"representation"`
	Logo                 *string `json:"logo,omitempty"`
	Status               string  `json:"status"`
	Slug                 *string `json:"slug,omitempty"`
	SubscriptionStatus   string  `json:"subscription_status"`
	StripeCustomerID     *string `json:"stripe_customer_id,omitempty"`
	StripeSubscriptionID *string `json:"stripe_subscription_id,omitempty"`
	CreatedAt            int64   `json:"created_at"`
	UpdatedAt            int64   `json:"updated_at"`

	Owner *User `json:"owner,omitempty"`
}

type DsarRequest struct {
	ID             string   `json:"id"`
	CompanyID      string   `json:"company_id"`
	RequesterName  string   `json:"requester_name"`
	RequesterEmail string   `json:"requester_email"`
	RequesterPhone string   `json:"requester_phone,omitempty"`
	RequestText    string   `json:"request_text"`
	Attachments    []string `json:"attachments,omitempty"`
	Status         string   `json:"status"`
	CreatedAt      int64    `json:"created_at"`
	UpdatedAt      int64    `json:"updated_at"`

	Company *Company `json:"company,omitempty"`
}

type AuditLog struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Action    string `json:"action"`
	Details   string `json:"details"`
	CreatedAt int64  `json:"created_at"`
}
