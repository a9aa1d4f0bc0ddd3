package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/dukapos/retail-core/internal/audit"
	"github.com/dukapos/retail-core/internal/model"
)

type PGRepository struct{}

func NewPGRepository() *PGRepository {
	return &PGRepository{}
}

func (r *PGRepository) Insert(ctx context.Context, q sqlx.ExtContext, entry *model.AuditLogEntry) error {
	query := `
        INSERT INTO audit_log (
            id, actor_id, action, entity_type, entity_id,
            description, outcome, ip_address, created_at
        )
        VALUES (
            :id, :actor_id, :action, :entity_type, :entity_id,
            :description, :outcome, :ip_address, :created_at
        )
    `
	_, err := sqlx.NamedExecContext(ctx, q, query, entry)
	if err != nil {
		return errors.Wrap(err, "insert audit entry")
	}
	return nil
}

func (r *PGRepository) FindAll(ctx context.Context, q sqlx.ExtContext, f *audit.Filters) ([]model.AuditLogEntry, int, error) {
	conditions := []string{}
	args := map[string]interface{}{}

	if f.ActorID != "" {
		conditions = append(conditions, "actor_id = :actor_id")
		args["actor_id"] = f.ActorID
	}
	if f.Action != "" {
		conditions = append(conditions, "action = :action")
		args["action"] = f.Action
	}
	if f.From != nil {
		conditions = append(conditions, "created_at >= :from")
		args["from"] = *f.From
	}
	if f.To != nil {
		conditions = append(conditions, "created_at <= :to")
		args["to"] = *f.To
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	var count int
	countQuery := "SELECT count(*) FROM audit_log" + whereClause
	rows, err := sqlx.NamedQueryContext(ctx, q, countQuery, args)
	if err != nil {
		return nil, 0, errors.Wrap(err, "count audit entries")
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return nil, 0, errors.Wrap(err, "scan audit entry count")
		}
	}

	query := "SELECT * FROM audit_log" + whereClause + " ORDER BY created_at DESC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		if offset < 0 {
			offset = 0
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	entryRows, err := sqlx.NamedQueryContext(ctx, q, query, args)
	if err != nil {
		return nil, 0, errors.Wrap(err, "list audit entries")
	}
	defer entryRows.Close()

	var items []model.AuditLogEntry
	for entryRows.Next() {
		var entry model.AuditLogEntry
		if err := entryRows.StructScan(&entry); err != nil {
			return nil, 0, err
		}
		items = append(items, entry)
	}
	return items, count, entryRows.Err()
}
