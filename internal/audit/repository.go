package audit

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/dukapos/retail-core/internal/model"
)

type Filters struct {
	ActorID  string
	Action   string
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}

// Repository is the append-only audit trail. Insert takes the caller's
// transaction handle so a success entry commits atomically with the
// operation it records; there is no update or delete path.
type Repository interface {
	Insert(ctx context.Context, q sqlx.ExtContext, entry *model.AuditLogEntry) error
	FindAll(ctx context.Context, q sqlx.ExtContext, f *Filters) ([]model.AuditLogEntry, int, error)
}
