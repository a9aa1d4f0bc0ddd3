package model

import "time"

type AuditAction string

const (
	AuditSaleCreated       AuditAction = "sale_created"
	AuditSaleReturned      AuditAction = "sale_returned"
	AuditInventoryAdjusted AuditAction = "inventory_adjusted"
	AuditTransferRequested AuditAction = "transfer_requested"
	AuditTransferApproved  AuditAction = "transfer_approved"
	AuditTransferApplied   AuditAction = "transfer_applied"
	AuditTransferRejected  AuditAction = "transfer_rejected"
)

type AuditOutcome string

const (
	AuditSuccess AuditOutcome = "success"
	AuditFailed  AuditOutcome = "failed"
)

// AuditLogEntry is one append-only record of a state-changing operation
// reaching a terminal outcome. Entries are never updated or deleted.
type AuditLogEntry struct {
	ID          string       `db:"id" json:"id"`
	ActorID     string       `db:"actor_id" json:"actor_id"`
	Action      AuditAction  `db:"action" json:"action"`
	EntityType  string       `db:"entity_type" json:"entity_type"`
	EntityID    string       `db:"entity_id" json:"entity_id"`
	Description string       `db:"description" json:"description"`
	Outcome     AuditOutcome `db:"outcome" json:"outcome"`
	IPAddress   *string      `db:"ip_address" json:"ip_address,omitempty"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`
}
