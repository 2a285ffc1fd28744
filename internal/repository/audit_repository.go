package repository

import (
	"context"
	"fmt"

	"github.com/otcheredev/lims-admin-console/internal/crud"
	"github.com/otcheredev/lims-admin-console/internal/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// AuditRepository handles audit log database operations
type AuditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

var _ crud.Recorder = (*AuditRepository)(nil)

// Create creates a new audit log entry
func (r *AuditRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	return nil
}

// Record stores a screen mutation. Failures are logged, never surfaced to the screen.
func (r *AuditRepository) Record(ctx context.Context, e crud.Event) {
	if err := r.Create(ctx, FromEvent(e)); err != nil {
		log.Error().Err(err).Str("screen", e.Screen).Str("operation", e.Operation).Msg("Failed to write audit log")
	}
}

// GetByTenantID retrieves audit logs for a tenant, newest first
func (r *AuditRepository) GetByTenantID(ctx context.Context, tenantID string, limit, offset int) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	query := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to get audit logs: %w", err)
	}

	return logs, nil
}

// GetByEntity retrieves the history of one record on one screen
func (r *AuditRepository) GetByEntity(ctx context.Context, tenantID, screen, entityID string) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND screen = ? AND entity_id = ?", tenantID, screen, entityID).
		Order("created_at DESC").
		Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to get audit logs: %w", err)
	}
	return logs, nil
}

// FromEvent maps a screen event to its audit row
func FromEvent(e crud.Event) *models.AuditLog {
	entry := &models.AuditLog{
		SessionID: e.Actor.SessionID,
		TenantID:  e.Actor.TenantID,
		UserID:    e.Actor.UserID,
		UserEmail: e.Actor.Email,
		Screen:    e.Screen,
		Action:    e.Operation,
		EntityID:  e.EntityID,
		Status:    "success",
		Duration:  e.Duration.Milliseconds(),
	}
	if !e.Success {
		entry.Status = "failure"
		entry.ErrorMessage = e.Message
	}
	return entry
}
