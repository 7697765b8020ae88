package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	apiContext "dsarportal/internal/api/context"
	"dsarportal/internal/platform/auth"
	"dsarportal/internal/platform/models"
)

const (
	ActionCompanyApproved    = "COMPANY_APPROVED"
	ActionCompanyRejected    = "COMPANY_REJECTED"
	ActionDsarSubmitted      = "DSAR_SUBMITTED"
	ActionDsarStatusUpdated  = "DSAR_STATUS_UPDATED"
	ActionRequesterContacted = "DSAR_REQUESTER_CONTACTED"
)

type Logger struct {
	db *sql.DB
}

func NewLogger(db *sql.DB) *Logger {
	return &Logger{db: db}
}

// Log appends an audit entry attributed to the session user found in ctx,
// or to the SYSTEM_PUBLIC sentinel when no session is present. The insert is
// synchronous so an entry is durable before the triggering operation returns.
func (l *Logger) Log(ctx context.Context, action string, details map[string]interface{}) {
	userID := models.SystemPublicActor
	if claims, ok := ctx.Value(apiContext.Claims).(*auth.Claims); ok {
		userID = claims.UserID
	}
	l.log(userID, action, details)
}

// LogSystem appends an entry attributed to the SYSTEM_PUBLIC sentinel,
// for anonymous-triggered events such as portal submissions.
func (l *Logger) LogSystem(action string, details map[string]interface{}) {
	l.log(models.SystemPublicActor, action, details)
}

func (l *Logger) log(userID, action string, details map[string]interface{}) {
	detailsJSON, _ := json.Marshal(details)

	_, err := l.db.Exec(`
		INSERT INTO audit_logs (id, user_id, action, details, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, "audit_"+uuid.NewString(), userID, action, string(detailsJSON), time.Now().Unix())
	if err != nil {
		log.Error().Err(err).Str("action", action).Msg("failed to append audit log")
	}
}

func (l *Logger) List(limit int) ([]*models.AuditLog, error) {
	rows, err := l.db.Query(`
		SELECT id, user_id, action, details, created_at
		FROM audit_logs ORDER BY created_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*models.AuditLog
	for rows.Next() {
		entry := &models.AuditLog{}
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Action, &entry.Details, &entry.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, entry)
	}
	return logs, rows.Err()
}
