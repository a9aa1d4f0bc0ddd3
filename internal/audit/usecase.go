package audit

import (
	"context"

	"github.com/dukapos/retail-core/internal/model"
)

type UseCase interface {
	// List reads the trail. Only directors and system admins may see it.
	List(ctx context.Context, actorID string, f *Filters) ([]model.AuditLogEntry, int, error)
}
