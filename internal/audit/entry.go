package audit

import (
	"time"

	"github.com/google/uuid"

	"github.com/dukapos/retail-core/internal/model"
)

// NewEntry builds a ready-to-insert audit record.
func NewEntry(actorID string, action model.AuditAction, entityType, entityID, description string, outcome model.AuditOutcome, ip *string) *model.AuditLogEntry {
	return &model.AuditLogEntry{
		ID:          uuid.New().String(),
		ActorID:     actorID,
		Action:      action,
		EntityType:  entityType,
		EntityID:    entityID,
		Description: description,
		Outcome:     outcome,
		IPAddress:   ip,
		CreatedAt:   time.Now(),
	}
}
